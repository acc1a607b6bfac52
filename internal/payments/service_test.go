package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

type stubPaymentsRepo struct {
	payments map[uuid.UUID]*models.Payment
}

func newStubPaymentsRepo() *stubPaymentsRepo {
	return &stubPaymentsRepo{payments: map[uuid.UUID]*models.Payment{}}
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPaymentsRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.payments[payment.ID] = payment
	return payment, nil
}

func (s *stubPaymentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, ok := s.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (s *stubPaymentsRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.FindByID(ctx, id)
}

func (s *stubPaymentsRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range s.payments {
		if payment.OrderID == orderID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (s *stubPaymentsRepo) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	s.payments[payment.ID] = payment
	return nil
}

type stubOrdersRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrdersRepo(items ...*models.Order) *stubOrdersRepo {
	repo := &stubOrdersRepo{orders: map[uuid.UUID]*models.Order{}}
	for _, order := range items {
		repo.orders[order.ID] = order
	}
	return repo
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if order, ok := s.orders[id]; ok {
		order.Status = status
	}
	return nil
}

type stubProofStore struct {
	saved [][]byte
}

func (s *stubProofStore) Save(subdir string, data []byte) (string, error) {
	s.saved = append(s.saved, data)
	return subdir + "/proof.png", nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func pendingOrder(userID uuid.UUID) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD20260830ABCDEF",
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString("5750.50"),
		PaymentMethod: enums.PaymentMethodUPI,
		Status:        enums.OrderStatusPendingPayment,
	}
}

func TestSubmitCreatesPendingPayment(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	ordersRepo := newStubOrdersRepo(order)
	repo := newStubPaymentsRepo()
	store := &stubProofStore{}

	svc, err := NewService(repo, ordersRepo, store, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: order.ID,
		UserID:  userID,
		Proof:   []byte{0x89, 'P', 'N', 'G'},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if view.Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %s", view.Status)
	}
	if view.Amount != "5750.50" {
		t.Fatalf("expected amount from order total, got %s", view.Amount)
	}
	if view.Method != enums.PaymentMethodUPI {
		t.Fatalf("expected method from order, got %s", view.Method)
	}
	if order.Status != enums.OrderStatusPaymentSubmitted {
		t.Fatalf("expected order payment_submitted, got %s", order.Status)
	}
	if len(store.saved) != 1 {
		t.Fatal("expected proof stored")
	}
}

func TestSubmitAfterResubmitAllowed(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusPaymentRejected
	svc, _ := NewService(newStubPaymentsRepo(), newStubOrdersRepo(order), &stubProofStore{}, stubTxRunner{})

	_, err := svc.Submit(context.Background(), SubmitInput{OrderID: order.ID, UserID: userID, Proof: []byte{1}})
	if err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
	if order.Status != enums.OrderStatusPaymentSubmitted {
		t.Fatalf("expected payment_submitted, got %s", order.Status)
	}
}

func TestSubmitWrongState(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusPaymentSubmitted
	svc, _ := NewService(newStubPaymentsRepo(), newStubOrdersRepo(order), &stubProofStore{}, stubTxRunner{})

	_, err := svc.Submit(context.Background(), SubmitInput{OrderID: order.ID, UserID: userID, Proof: []byte{1}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitHidesForeignOrder(t *testing.T) {
	order := pendingOrder(uuid.New())
	svc, _ := NewService(newStubPaymentsRepo(), newStubOrdersRepo(order), &stubProofStore{}, stubTxRunner{})

	_, err := svc.Submit(context.Background(), SubmitInput{OrderID: order.ID, UserID: uuid.New(), Proof: []byte{1}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusPaymentSubmitted
	ordersRepo := newStubOrdersRepo(order)
	repo := newStubPaymentsRepo()
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		Amount:  order.TotalAmount,
		Method:  order.PaymentMethod,
		Status:  enums.PaymentStatusPending,
	}
	repo.payments[payment.ID] = payment

	svc, _ := NewService(repo, ordersRepo, &stubProofStore{}, stubTxRunner{})

	adminID := uuid.New()
	first, err := svc.Verify(context.Background(), DecisionInput{PaymentID: payment.ID, AdminID: adminID})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if first.Status != enums.PaymentStatusVerified {
		t.Fatalf("expected verified, got %s", first.Status)
	}
	if first.VerifiedAt == nil {
		t.Fatal("expected verified_at set")
	}
	if order.Status != enums.OrderStatusPaymentVerified {
		t.Fatalf("expected order payment_verified, got %s", order.Status)
	}

	second, err := svc.Verify(context.Background(), DecisionInput{PaymentID: payment.ID, AdminID: adminID})
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if second.Status != enums.PaymentStatusVerified {
		t.Fatalf("expected verified on retry, got %s", second.Status)
	}
	if order.Status != enums.OrderStatusPaymentVerified {
		t.Fatalf("expected order unchanged on retry, got %s", order.Status)
	}
}

func TestVerifyRejectedPayment(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.OrderStatusPaymentRejected
	repo := newStubPaymentsRepo()
	payment := &models.Payment{ID: uuid.New(), OrderID: order.ID, Status: enums.PaymentStatusRejected}
	repo.payments[payment.ID] = payment

	svc, _ := NewService(repo, newStubOrdersRepo(order), &stubProofStore{}, stubTxRunner{})

	_, err := svc.Verify(context.Background(), DecisionInput{PaymentID: payment.ID, AdminID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRejectReopensOrder(t *testing.T) {
	userID := uuid.New()
	order := pendingOrder(userID)
	order.Status = enums.OrderStatusPaymentSubmitted
	ordersRepo := newStubOrdersRepo(order)
	repo := newStubPaymentsRepo()
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		Amount:  order.TotalAmount,
		Method:  order.PaymentMethod,
		Status:  enums.PaymentStatusPending,
	}
	repo.payments[payment.ID] = payment

	svc, _ := NewService(repo, ordersRepo, &stubProofStore{}, stubTxRunner{})

	view, err := svc.Reject(context.Background(), RejectInput{
		PaymentID: payment.ID,
		AdminID:   uuid.New(),
		Reason:    "UTR number does not match",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if view.Status != enums.PaymentStatusRejected {
		t.Fatalf("expected rejected, got %s", view.Status)
	}
	if view.RejectionReason == nil || *view.RejectionReason != "UTR number does not match" {
		t.Fatal("expected rejection reason recorded")
	}
	if order.Status != enums.OrderStatusPaymentRejected {
		t.Fatalf("expected order payment_rejected, got %s", order.Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _ := NewService(newStubPaymentsRepo(), newStubOrdersRepo(), &stubProofStore{}, stubTxRunner{})

	_, err := svc.Reject(context.Background(), RejectInput{
		PaymentID: uuid.New(),
		AdminID:   uuid.New(),
		Reason:    "  ",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
