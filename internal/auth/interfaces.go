package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// Repository defines persistence for principals and their sessions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUserByEmailForUpdate(ctx context.Context, email string) (*models.User, error)
	FindAdminByEmailForUpdate(ctx context.Context, email string) (*models.Admin, error)
	DeactivateSessions(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) error
	CreateSession(ctx context.Context, session *models.Session) (*models.Session, error)
	FindActiveSession(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) (*models.Session, error)
}
