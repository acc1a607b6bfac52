package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// Repository defines contact message persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMessage(ctx context.Context, message *models.ContactMessage) (*models.ContactMessage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, status *enums.ContactStatus) ([]models.ContactMessage, error)
	UpdateMessage(ctx context.Context, message *models.ContactMessage) error
}
