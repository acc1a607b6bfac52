package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// Session is a server-side login session. At most one row per
// (principal_id, principal_role) may be active at any time; the partial
// unique index in the schema enforces it.
type Session struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrincipalID   uuid.UUID           `gorm:"column:principal_id;type:uuid;not null"`
	PrincipalRole enums.PrincipalRole `gorm:"column:principal_role;type:text;not null"`
	SessionHash   string              `gorm:"column:session_hash;not null"`
	CSRFToken     string              `gorm:"column:csrf_token;not null"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
