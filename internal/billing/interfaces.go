package billing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
)

// Repository defines bill persistence. Bills are write-once; there is no
// update operation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Bill, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Bill, error)
}
