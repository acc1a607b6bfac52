package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/internal/applications"
	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/internal/payments"
	"github.com/premiumretail/retailer-platform-backend/internal/products"
	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	"github.com/premiumretail/retailer-platform-backend/pkg/storage/local"
)

func setupFlowTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:orderflow?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS retailer_applications (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL,
  shop_address TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  applied_date DATETIME NOT NULL,
  approval_date DATETIME,
  approval_remarks TEXT,
  approved_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  application_id TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  shop_address TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_payment',
  order_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL,
  proof_path TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at DATETIME,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS bills (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  bill_number TEXT NOT NULL UNIQUE,
  subtotal NUMERIC NOT NULL,
  gst_amount NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  bill_date DATETIME NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// TestRetailerOrderLifecycle walks one retailer from application to bill:
// apply, approve, order, submit payment, verify, generate the bill and close
// the order, asserting the status after each transition.
func TestRetailerOrderLifecycle(t *testing.T) {
	db := setupFlowTestDB(t)
	ctx := context.Background()
	tx := dbTxRunner{db: db}
	adminID := uuid.New()

	proofStore, err := local.New(config.UploadsConfig{Dir: t.TempDir(), MaxSizeBytes: 1 << 20})
	require.NoError(t, err)

	applicationsSvc, err := applications.NewService(applications.NewRepository(db), tx,
		config.AuthConfig{BcryptCost: 4, DefaultTempPassword: "12345678"})
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(orders.NewRepository(db), products.NewRepository(db), tx)
	require.NoError(t, err)
	paymentsSvc, err := payments.NewService(payments.NewRepository(db), orders.NewRepository(db), proofStore, tx)
	require.NoError(t, err)
	billingSvc, err := NewService(NewRepository(db), orders.NewRepository(db), tx,
		config.BillingConfig{DefaultGSTRatePercent: "18"})
	require.NoError(t, err)

	product := &models.Product{
		ID:              uuid.New(),
		Name:            "Sunflower Oil 15L",
		Price:           decimal.RequireFromString("150.00"),
		QuantityInStock: 10,
		IsActive:        true,
	}
	require.NoError(t, db.Create(product).Error)

	appView, err := applicationsSvc.Apply(ctx, applications.ApplyInput{
		Name:        "Sharma General Store",
		Email:       "sharma@example.com",
		Phone:       "9876543210",
		ShopAddress: "14 MG Road, Pune",
	})
	require.NoError(t, err)

	_, err = applicationsSvc.Approve(ctx, applications.DecisionInput{
		ApplicationID: appView.ID,
		AdminID:       adminID,
	})
	require.NoError(t, err)

	var retailer models.User
	require.NoError(t, db.Where("application_id = ?", appView.ID).First(&retailer).Error)
	assert.Equal(t, "sharma@example.com", retailer.Email)

	orderView, err := ordersSvc.Create(ctx, orders.CreateInput{
		UserID:        retailer.ID,
		PaymentMethod: enums.PaymentMethodUPI,
		Items:         []orders.LineInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPendingPayment, orderView.Status)
	assert.Equal(t, "300.00", orderView.TotalAmount)

	var stocked models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&stocked).Error)
	assert.Equal(t, 8, stocked.QuantityInStock)

	pngMagic := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	payView, err := paymentsSvc.Submit(ctx, payments.SubmitInput{
		OrderID: orderView.ID,
		UserID:  retailer.ID,
		Proof:   pngMagic,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, payView.Status)

	var submitted models.Order
	require.NoError(t, db.Where("id = ?", orderView.ID).First(&submitted).Error)
	assert.Equal(t, enums.OrderStatusPaymentSubmitted, submitted.Status)

	_, err = paymentsSvc.Verify(ctx, payments.DecisionInput{PaymentID: payView.ID, AdminID: adminID})
	require.NoError(t, err)

	var verified models.Order
	require.NoError(t, db.Where("id = ?", orderView.ID).First(&verified).Error)
	assert.Equal(t, enums.OrderStatusPaymentVerified, verified.Status)

	billView, err := billingSvc.Generate(ctx, GenerateInput{OrderID: orderView.ID, AdminID: adminID})
	require.NoError(t, err)
	assert.Equal(t, "254.24", billView.Subtotal)
	assert.Equal(t, "45.76", billView.GSTAmount)
	assert.Equal(t, "300.00", billView.TotalAmount)

	var billed models.Order
	require.NoError(t, db.Where("id = ?", orderView.ID).First(&billed).Error)
	assert.Equal(t, enums.OrderStatusBillGenerated, billed.Status)

	completed, err := ordersSvc.Complete(ctx, orders.CompleteInput{OrderID: orderView.ID, AdminID: adminID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, completed.Status)
}
