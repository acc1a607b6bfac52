package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/internal/products"
	"github.com/premiumretail/retailer-platform-backend/pkg/db"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

const (
	maxOrderLines = 100

	// maxLineQuantity bounds a merged line so quantities stay far from the
	// int range and wholesale-sized carts still fit.
	maxLineQuantity = 10000
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order creation and lifecycle reads. Payment and billing
// transitions live in their own services.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderView, error)
	Get(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*OrderView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	Complete(ctx context.Context, input CompleteInput) (*OrderView, error)
}

type service struct {
	repo    Repository
	catalog products.Repository
	tx      txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, catalog products.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, catalog: catalog, tx: tx}, nil
}

// Create places an order, snapshotting prices and decrementing stock in one
// transaction. Products are locked in ascending id order so two concurrent
// orders over the same products cannot deadlock.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderView, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	lines, err := mergeLines(input.Items)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	now := time.Now().UTC()
	orderNumber, err := newOrderNumber(now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalog := s.catalog.WithTx(tx)

		locked, err := catalog.LockByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock products")
		}
		byID := make(map[uuid.UUID]models.Product, len(locked))
		for _, product := range locked {
			byID[product.ID] = product
		}

		var shortages []ShortageDetail
		for _, id := range ids {
			product, ok := byID[id]
			if !ok || !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not available").
					WithDetails(map[string]any{"product_id": id})
			}
			if product.QuantityInStock < lines[id] {
				shortages = append(shortages, ShortageDetail{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: lines[id],
					Available: product.QuantityInStock,
				})
			}
		}
		if len(shortages) > 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(shortages)
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(ids))
		for _, id := range ids {
			product := byID[id]
			qty := lines[id]
			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    qty,
				LineTotal:   lineTotal,
			})
			total = total.Add(lineTotal)
		}

		order := &models.Order{
			OrderNumber:   orderNumber,
			UserID:        input.UserID,
			TotalAmount:   total,
			PaymentMethod: input.PaymentMethod,
			Status:        enums.OrderStatusPendingPayment,
			OrderDate:     now,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "idx_orders_order_number") {
				return pkgerrors.New(pkgerrors.CodeConcurrency, "order number collision, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		for _, id := range ids {
			if err := catalog.DecrementStock(ctx, id, lines[id]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
		}

		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toOrderView(*created)
	return &view, nil
}

// mergeLines validates the cart and folds duplicate product ids into one
// line each.
func mergeLines(items []LineInput) (map[uuid.UUID]int, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if len(items) > maxOrderLines {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has too many lines")
	}

	lines := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required on every line")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if item.Quantity > maxLineQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-product limit").
				WithDetails(map[string]any{"product_id": item.ProductID, "limit": maxLineQuantity})
		}
		// Each addend is capped above, so the merged total cannot overflow.
		merged := lines[item.ProductID] + item.Quantity
		if merged > maxLineQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-product limit").
				WithDetails(map[string]any{"product_id": item.ProductID, "limit": maxLineQuantity})
		}
		lines[item.ProductID] = merged
	}
	return lines, nil
}

// Get loads one order. When requesterID is set the order must belong to that
// retailer; admins pass nil and may read any order.
func (s *service) Get(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*OrderView, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if requesterID != nil && order.UserID != *requesterID {
		// Hidden rather than forbidden so order ids cannot be probed.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	view := toOrderView(*order)
	return &view, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return toOrderViews(orders), nil
}

// Complete closes a billed order. Completing an already completed order is a
// no-op so admin retries stay safe.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*OrderView, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var view OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch order.Status {
		case enums.OrderStatusCompleted:
			view = toOrderView(*order)
			return nil
		case enums.OrderStatusBillGenerated:
			// fall through to the transition below
		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be completed before billing").
				WithDetails(map[string]any{"status": order.Status})
		}

		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = enums.OrderStatusCompleted
		view = toOrderView(*order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
