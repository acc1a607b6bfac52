package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// Payment is one submission attempt for an order. An order may accumulate
// several rejected attempts but at most one verified one.
type Payment struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Amount          decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method          enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	ProofPath       string              `gorm:"column:proof_path;not null"`
	Status          enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	VerifiedBy      *uuid.UUID          `gorm:"column:verified_by;type:uuid"`
	VerifiedAt      *time.Time          `gorm:"column:verified_at"`
	RejectionReason *string             `gorm:"column:rejection_reason"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
