package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
)

// ProductView is the catalog entry shape returned to retailers.
type ProductView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           string    `json:"price"`
	QuantityInStock int       `json:"quantity_in_stock"`
	ImagePath       *string   `json:"image_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toProductView(p models.Product) ProductView {
	return ProductView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price.StringFixed(2),
		QuantityInStock: p.QuantityInStock,
		ImagePath:       p.ImagePath,
		CreatedAt:       p.CreatedAt,
	}
}

func toProductViews(items []models.Product) []ProductView {
	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		views = append(views, toProductView(item))
	}
	return views
}
