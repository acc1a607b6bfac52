package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/db"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines bill generation and reads.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*BillView, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*BillView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]BillView, error)
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	tx         txRunner
	cfg        config.BillingConfig
}

// NewService builds a billing service with the required dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, cfg config.BillingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if _, err := decimal.NewFromString(cfg.DefaultGSTRatePercent); err != nil {
		return nil, fmt.Errorf("invalid default gst rate %q: %w", cfg.DefaultGSTRatePercent, err)
	}
	return &service{repo: repo, ordersRepo: ordersRepo, tx: tx, cfg: cfg}, nil
}

// Generate creates the bill for a verified order and moves the order to
// bill_generated. Calling it again returns the existing bill unchanged.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*BillView, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	rate, err := s.resolveRate(input.GSTRatePercent)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	billNumber, err := newBillNumber(now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate bill number")
	}

	var view BillView
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

		existing, err := repo.FindByOrderID(ctx, order.ID)
		if err == nil {
			view = toBillView(*existing)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing bill")
		}

		if order.Status != enums.OrderStatusPaymentVerified {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for billing").
				WithDetails(map[string]any{"status": order.Status})
		}

		subtotal, gst, err := splitGST(order.TotalAmount, rate)
		if err != nil {
			return err
		}

		bill := &models.Bill{
			OrderID:     order.ID,
			UserID:      order.UserID,
			BillNumber:  billNumber,
			Subtotal:    subtotal,
			GSTAmount:   gst,
			TotalAmount: order.TotalAmount,
			BillDate:    now,
		}
		if _, err := repo.CreateBill(ctx, bill); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConcurrency, "bill already being generated, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bill")
		}

		if err := ordersRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusBillGenerated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		view = toBillView(*bill)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) resolveRate(override *string) (decimal.Decimal, error) {
	raw := s.cfg.DefaultGSTRatePercent
	if override != nil {
		raw = *override
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid gst rate")
	}
	if rate.IsNegative() || rate.GreaterThan(oneHundred) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "gst rate out of range")
	}
	return rate, nil
}

// GetByOrder returns the bill for an order. Retailers see only their own
// bills; admins pass nil.
func (s *service) GetByOrder(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*BillView, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	bill, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bill")
	}
	if requesterID != nil && bill.UserID != *requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
	}

	view := toBillView(*bill)
	return &view, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]BillView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	bills, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bills")
	}
	return toBillViews(bills), nil
}
