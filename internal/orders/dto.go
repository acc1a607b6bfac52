package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// LineInput is one requested cart line.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateInput carries a retailer's order request.
type CreateInput struct {
	UserID        uuid.UUID
	PaymentMethod enums.PaymentMethod
	Items         []LineInput
}

// CompleteInput carries the admin call that closes a billed order.
type CompleteInput struct {
	OrderID uuid.UUID
	AdminID uuid.UUID
}

// ItemView is an order line as returned over the API.
type ItemView struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total"`
}

// OrderView is the order shape returned over the API.
type OrderView struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	UserID        uuid.UUID           `json:"user_id"`
	TotalAmount   string              `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Status        enums.OrderStatus   `json:"status"`
	OrderDate     time.Time           `json:"order_date"`
	Items         []ItemView          `json:"items"`
}

// ShortageDetail names one product that could not cover the requested
// quantity.
type ShortageDetail struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

func toOrderView(order models.Order) OrderView {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}
	return OrderView{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		OrderDate:     order.OrderDate,
		Items:         items,
	}
}

func toOrderViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}
	return views
}
