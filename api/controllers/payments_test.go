package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/api/middleware"
	"github.com/premiumretail/retailer-platform-backend/internal/payments"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

type stubPaymentService struct {
	view *payments.PaymentView
	err  error

	gotSubmit payments.SubmitInput
}

func (s *stubPaymentService) Submit(ctx context.Context, input payments.SubmitInput) (*payments.PaymentView, error) {
	s.gotSubmit = input
	return s.view, s.err
}

func (s *stubPaymentService) Verify(ctx context.Context, input payments.DecisionInput) (*payments.PaymentView, error) {
	return s.view, s.err
}

func (s *stubPaymentService) Reject(ctx context.Context, input payments.RejectInput) (*payments.PaymentView, error) {
	return s.view, s.err
}

func (s *stubPaymentService) ListForOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) ([]payments.PaymentView, error) {
	if s.view == nil {
		return nil, s.err
	}
	return []payments.PaymentView{*s.view}, s.err
}

func TestSubmitPaymentBase64Proof(t *testing.T) {
	orderID := uuid.New()
	userID := uuid.New()
	proof := []byte{0x89, 0x50, 0x4E, 0x47}
	svc := &stubPaymentService{view: &payments.PaymentView{ID: uuid.New(), OrderID: orderID, Status: enums.PaymentStatusPending}}
	handler := SubmitPayment(svc, nil)

	payload, _ := json.Marshal(map[string]string{"proof_base64": base64.StdEncoding.EncodeToString(proof)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "orderId", orderID.String())
	req = req.WithContext(middleware.WithPrincipal(req.Context(), userID, enums.PrincipalRoleUser))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(svc.gotSubmit.Proof, proof) {
		t.Fatalf("proof bytes not passed through")
	}
	if svc.gotSubmit.OrderID != orderID || svc.gotSubmit.UserID != userID {
		t.Fatalf("submit input not wired from request context")
	}
}

func TestSubmitPaymentMultipartProof(t *testing.T) {
	orderID := uuid.New()
	userID := uuid.New()
	proof := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	svc := &stubPaymentService{view: &payments.PaymentView{ID: uuid.New(), OrderID: orderID, Status: enums.PaymentStatusPending}}
	handler := SubmitPayment(svc, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("proof", "receipt.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(proof); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payments", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withURLParam(req, "orderId", orderID.String())
	req = req.WithContext(middleware.WithPrincipal(req.Context(), userID, enums.PrincipalRoleUser))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(svc.gotSubmit.Proof, proof) {
		t.Fatalf("proof bytes not passed through")
	}
}

func TestSubmitPaymentRejectsInvalidBase64(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentService{}
	handler := SubmitPayment(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payments", bytes.NewReader([]byte(`{"proof_base64":"%%%not-base64%%%"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "orderId", orderID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRejectPaymentRequiresReason(t *testing.T) {
	paymentID := uuid.New()
	svc := &stubPaymentService{}
	handler := RejectPayment(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/payments/"+paymentID.String()+"/reject", bytes.NewReader([]byte(`{}`)))
	req = withURLParam(req, "paymentId", paymentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
