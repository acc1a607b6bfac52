package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
)

// GenerateInput carries the admin call that bills a verified order. When
// GSTRatePercent is nil the configured default rate applies.
type GenerateInput struct {
	OrderID        uuid.UUID
	AdminID        uuid.UUID
	GSTRatePercent *string
}

// BillView is the bill shape returned over the API.
type BillView struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	BillNumber  string    `json:"bill_number"`
	Subtotal    string    `json:"subtotal"`
	GSTAmount   string    `json:"gst_amount"`
	TotalAmount string    `json:"total_amount"`
	BillDate    time.Time `json:"bill_date"`
}

func toBillView(bill models.Bill) BillView {
	return BillView{
		ID:          bill.ID,
		OrderID:     bill.OrderID,
		BillNumber:  bill.BillNumber,
		Subtotal:    bill.Subtotal.StringFixed(2),
		GSTAmount:   bill.GSTAmount.StringFixed(2),
		TotalAmount: bill.TotalAmount.StringFixed(2),
		BillDate:    bill.BillDate,
	}
}

func toBillViews(bills []models.Bill) []BillView {
	views := make([]BillView, 0, len(bills))
	for _, bill := range bills {
		views = append(views, toBillView(bill))
	}
	return views
}
