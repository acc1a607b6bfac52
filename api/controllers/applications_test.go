package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/internal/applications"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

type stubApplicationService struct {
	view *applications.ApplicationView
	err  error

	gotApply applications.ApplyInput
}

func (s *stubApplicationService) Apply(ctx context.Context, input applications.ApplyInput) (*applications.ApplicationView, error) {
	s.gotApply = input
	return s.view, s.err
}

func (s *stubApplicationService) Approve(ctx context.Context, input applications.DecisionInput) (*applications.ApplicationView, error) {
	return s.view, s.err
}

func (s *stubApplicationService) Reject(ctx context.Context, input applications.DecisionInput) (*applications.ApplicationView, error) {
	return s.view, s.err
}

func (s *stubApplicationService) Get(ctx context.Context, id uuid.UUID) (*applications.ApplicationView, error) {
	return s.view, s.err
}

func (s *stubApplicationService) List(ctx context.Context, filters applications.ListFilters) ([]applications.ApplicationView, error) {
	if s.view == nil {
		return nil, s.err
	}
	return []applications.ApplicationView{*s.view}, s.err
}

func TestSubmitApplicationSuccess(t *testing.T) {
	view := &applications.ApplicationView{
		ID:     uuid.New(),
		Name:   "Sharma Traders",
		Email:  "owner@sharmatraders.in",
		Status: enums.ApplicationStatusPending,
	}
	svc := &stubApplicationService{view: view}
	handler := SubmitApplication(svc, nil)

	body := []byte(`{
		"name": "Sharma Traders",
		"email": "owner@sharmatraders.in",
		"phone": "9876543210",
		"shop_address": "12 MG Road, Pune"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotApply.Phone != "9876543210" {
		t.Fatalf("unexpected phone passed to service: %s", svc.gotApply.Phone)
	}

	var envelope struct {
		Data applications.ApplicationView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != view.ID {
		t.Fatalf("expected id %s, got %s", view.ID, envelope.Data.ID)
	}
}

func TestSubmitApplicationRejectsBadPhone(t *testing.T) {
	svc := &stubApplicationService{}
	handler := SubmitApplication(svc, nil)

	body := []byte(`{
		"name": "Sharma Traders",
		"email": "owner@sharmatraders.in",
		"phone": "12345",
		"shop_address": "12 MG Road, Pune"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var payload struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code: %s", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["phone"]; !ok {
		t.Fatalf("expected phone detail, got %v", payload.Error.Details)
	}
}

func TestSubmitApplicationRejectsUnknownFields(t *testing.T) {
	svc := &stubApplicationService{}
	handler := SubmitApplication(svc, nil)

	body := []byte(`{"name":"x","email":"a@b.in","phone":"9876543210","shop_address":"addr","extra":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRejectApplicationPassesRemarks(t *testing.T) {
	view := &applications.ApplicationView{ID: uuid.New(), Status: enums.ApplicationStatusRejected}
	svc := &stubApplicationService{view: view}
	handler := RejectApplication(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/applications/"+view.ID.String()+"/reject", bytes.NewReader([]byte(`{"remarks":"incomplete documents"}`)))
	req = withURLParam(req, "applicationId", view.ID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
