package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/internal/applications"
	"github.com/premiumretail/retailer-platform-backend/internal/auth"
	"github.com/premiumretail/retailer-platform-backend/internal/billing"
	"github.com/premiumretail/retailer-platform-backend/internal/contact"
	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/internal/payments"
	"github.com/premiumretail/retailer-platform-backend/internal/products"
	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) error {
	return nil
}

func (stubAuthService) ValidateSession(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, secret string) (*auth.SessionContext, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) VerifyCSRF(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, token string) error {
	return nil
}

type stubApplicationService struct{}

func (stubApplicationService) Apply(ctx context.Context, input applications.ApplyInput) (*applications.ApplicationView, error) {
	return &applications.ApplicationView{ID: uuid.New(), Status: enums.ApplicationStatusPending}, nil
}

func (stubApplicationService) Approve(ctx context.Context, input applications.DecisionInput) (*applications.ApplicationView, error) {
	return nil, nil
}

func (stubApplicationService) Reject(ctx context.Context, input applications.DecisionInput) (*applications.ApplicationView, error) {
	return nil, nil
}

func (stubApplicationService) Get(ctx context.Context, id uuid.UUID) (*applications.ApplicationView, error) {
	return nil, nil
}

func (stubApplicationService) List(ctx context.Context, filters applications.ListFilters) ([]applications.ApplicationView, error) {
	return nil, nil
}

type stubProductService struct{}

func (stubProductService) ListActive(ctx context.Context) ([]products.ProductView, error) {
	return nil, nil
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductView, error) {
	return nil, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, input orders.CreateInput) (*orders.OrderView, error) {
	return nil, nil
}

func (stubOrderService) Get(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*orders.OrderView, error) {
	return nil, nil
}

func (stubOrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]orders.OrderView, error) {
	return nil, nil
}

func (stubOrderService) Complete(ctx context.Context, input orders.CompleteInput) (*orders.OrderView, error) {
	return nil, nil
}

type stubPaymentService struct{}

func (stubPaymentService) Submit(ctx context.Context, input payments.SubmitInput) (*payments.PaymentView, error) {
	return nil, nil
}

func (stubPaymentService) Verify(ctx context.Context, input payments.DecisionInput) (*payments.PaymentView, error) {
	return nil, nil
}

func (stubPaymentService) Reject(ctx context.Context, input payments.RejectInput) (*payments.PaymentView, error) {
	return nil, nil
}

func (stubPaymentService) ListForOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) ([]payments.PaymentView, error) {
	return nil, nil
}

type stubBillingService struct{}

func (stubBillingService) Generate(ctx context.Context, input billing.GenerateInput) (*billing.BillView, error) {
	return nil, nil
}

func (stubBillingService) GetByOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*billing.BillView, error) {
	return nil, nil
}

func (stubBillingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]billing.BillView, error) {
	return nil, nil
}

type stubContactService struct{}

func (stubContactService) Submit(ctx context.Context, input contact.SubmitInput) (*contact.MessageView, error) {
	return &contact.MessageView{ID: uuid.New(), Status: enums.ContactStatusNew}, nil
}

func (stubContactService) List(ctx context.Context, filters contact.ListFilters) ([]contact.MessageView, error) {
	return nil, nil
}

func (stubContactService) MarkRead(ctx context.Context, messageID uuid.UUID, adminID uuid.UUID) (*contact.MessageView, error) {
	return nil, nil
}

func (stubContactService) Reply(ctx context.Context, input contact.ReplyInput) (*contact.MessageView, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	return NewRouter(
		cfg,
		nil,
		stubPinger{},
		nil,
		stubAuthService{},
		stubApplicationService{},
		stubProductService{},
		stubOrderService{},
		stubPaymentService{},
		stubBillingService{},
		stubContactService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Retail-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRouterPublicApplicationRoute(t *testing.T) {
	router := newTestRouter()

	body := `{"name":"Sharma Traders","email":"owner@sharmatraders.in","phone":"9876543210","shop_address":"12 MG Road, Pune"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRetailerRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/orders",
		"/api/v1/bills",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/applications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
