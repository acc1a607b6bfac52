package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

const proofSubdir = "payments"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the payment submission and decision lifecycle.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*PaymentView, error)
	Verify(ctx context.Context, input DecisionInput) (*PaymentView, error)
	Reject(ctx context.Context, input RejectInput) (*PaymentView, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) ([]PaymentView, error)
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	store      ProofStore
	tx         txRunner
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, store ProofStore, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("proof store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, ordersRepo: ordersRepo, store: store, tx: tx}, nil
}

// Submit records a payment attempt for an order awaiting payment. The proof
// image is written before the transaction; a failed transaction strands at
// worst one unreferenced file.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*PaymentView, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Proof) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment proof image required")
	}

	proofPath, err := s.store.Save(proofSubdir, input.Proof)
	if err != nil {
		return nil, err
	}

	var created *models.Payment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if !order.Status.AcceptsPaymentSubmission() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment").
				WithDetails(map[string]any{"status": order.Status})
		}

		payment := &models.Payment{
			OrderID:   order.ID,
			Amount:    order.TotalAmount,
			Method:    order.PaymentMethod,
			ProofPath: proofPath,
			Status:    enums.PaymentStatusPending,
		}
		if _, err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		if err := ordersRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaymentSubmitted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toPaymentView(*created)
	return &view, nil
}

// Verify marks a pending payment verified and moves the order forward.
// Verifying an already verified payment is a no-op so admin retries stay
// safe.
func (s *service) Verify(ctx context.Context, input DecisionInput) (*PaymentView, error) {
	if input.PaymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var view PaymentView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		payment, err := repo.FindByIDForUpdate(ctx, input.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		switch payment.Status {
		case enums.PaymentStatusVerified:
			view = toPaymentView(*payment)
			return nil
		case enums.PaymentStatusRejected:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already rejected")
		}

		order, err := ordersRepo.FindByIDForUpdate(ctx, payment.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusPaymentSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting verification").
				WithDetails(map[string]any{"status": order.Status})
		}

		now := time.Now().UTC()
		payment.Status = enums.PaymentStatusVerified
		payment.VerifiedBy = &input.AdminID
		payment.VerifiedAt = &now
		if err := repo.UpdatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
		}

		if err := ordersRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaymentVerified); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		view = toPaymentView(*payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Reject marks a pending payment rejected with a reason and reopens the
// order for another submission.
func (s *service) Reject(ctx context.Context, input RejectInput) (*PaymentView, error) {
	if input.PaymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}

	var view PaymentView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		payment, err := repo.FindByIDForUpdate(ctx, input.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		switch payment.Status {
		case enums.PaymentStatusRejected:
			view = toPaymentView(*payment)
			return nil
		case enums.PaymentStatusVerified:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already verified")
		}

		order, err := ordersRepo.FindByIDForUpdate(ctx, payment.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusPaymentSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting verification").
				WithDetails(map[string]any{"status": order.Status})
		}

		payment.Status = enums.PaymentStatusRejected
		payment.RejectionReason = &reason
		if err := repo.UpdatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
		}

		if err := ordersRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaymentRejected); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		view = toPaymentView(*payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListForOrder returns the payment attempts for an order. Retailers see only
// their own orders; admins pass nil.
func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) ([]PaymentView, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.ordersRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if requesterID != nil && order.UserID != *requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return toPaymentViews(payments), nil
}
