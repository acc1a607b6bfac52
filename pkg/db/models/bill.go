package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is the immutable GST-split record generated once per verified order.
// Invariant: Subtotal + GSTAmount == TotalAmount to the cent, and
// TotalAmount matches the owning order's total.
type Bill struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	BillNumber  string          `gorm:"column:bill_number;not null;uniqueIndex"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	GSTAmount   decimal.Decimal `gorm:"column:gst_amount;type:numeric(12,2);not null"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	BillDate    time.Time       `gorm:"column:bill_date;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
