package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  quantity_in_stock INTEGER NOT NULL DEFAULT 0,
  image_path TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:              uuid.New(),
		Name:            name,
		Price:           decimal.RequireFromString("49.50"),
		QuantityInStock: stock,
		IsActive:        active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListActive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "Basmati Rice 25kg", 10, true)
	seedProduct(t, db, "Sunflower Oil 15L", 4, true)
	seedProduct(t, db, "Discontinued Soap", 99, false)

	items, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Basmati Rice 25kg", items[0].Name)
	assert.Equal(t, "Sunflower Oil 15L", items[1].Name)
}

func TestRepositoryDecrementStockGuard(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "Wheat Flour 10kg", 5, true)

	require.NoError(t, repo.DecrementStock(context.Background(), product.ID, 3))

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.QuantityInStock)

	err = repo.DecrementStock(context.Background(), product.ID, 3)
	require.Error(t, err)

	reloaded, err = repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.QuantityInStock)
}
