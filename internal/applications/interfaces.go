package applications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// Repository defines persistence for retailer applications and the user
// accounts provisioned from them. Account creation lives here because it only
// ever happens inside the approval transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateApplication(ctx context.Context, app *models.Application) (*models.Application, error)
	FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindApplicationByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListApplications(ctx context.Context, status *enums.ApplicationStatus) ([]models.Application, error)
	UpdateApplication(ctx context.Context, app *models.Application) error
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}
