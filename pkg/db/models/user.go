package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the retailer account provisioned when an application is approved.
// Exactly one user exists per approved application.
type User struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;not null;uniqueIndex"`
	Email         string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone         string    `gorm:"column:phone;not null"`
	Username      string    `gorm:"column:username;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	ShopAddress   string    `gorm:"column:shop_address;not null"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
