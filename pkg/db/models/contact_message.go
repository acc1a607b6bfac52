package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// ContactMessage is a public contact-form submission reviewed by admins.
type ContactMessage struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Email       string              `gorm:"column:email;not null"`
	Phone       *string             `gorm:"column:phone"`
	Subject     string              `gorm:"column:subject;not null"`
	Message     string              `gorm:"column:message;not null"`
	Status      enums.ContactStatus `gorm:"column:status;type:text;not null;default:'new'"`
	AdminReply  *string             `gorm:"column:admin_reply"`
	RepliedBy   *uuid.UUID          `gorm:"column:replied_by;type:uuid"`
	RepliedDate *time.Time          `gorm:"column:replied_date"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
