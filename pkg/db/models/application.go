package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// Application is a prospective retailer's request for platform access. Once
// approved or rejected the record is terminal.
type Application struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string                  `gorm:"column:name;not null"`
	Email           string                  `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone           string                  `gorm:"column:phone;not null"`
	ShopAddress     string                  `gorm:"column:shop_address;not null"`
	Status          enums.ApplicationStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	AppliedDate     time.Time               `gorm:"column:applied_date;not null"`
	ApprovalDate    *time.Time              `gorm:"column:approval_date"`
	ApprovalRemarks *string                 `gorm:"column:approval_remarks"`
	ApprovedBy      *uuid.UUID              `gorm:"column:approved_by;type:uuid"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Application) TableName() string {
	return "retailer_applications"
}
