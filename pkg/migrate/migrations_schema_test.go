package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/premiumretail/retailer-platform-backend/pkg/migrate"
)

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE retailer_applications",
		"CREATE UNIQUE INDEX idx_users_application_id ON users (application_id)",
		"CREATE UNIQUE INDEX idx_sessions_one_active",
		"WHERE is_active",
		"CHECK (quantity_in_stock >= 0)",
		"CREATE UNIQUE INDEX idx_orders_order_number ON orders (order_number)",
		"CREATE UNIQUE INDEX idx_payments_one_verified",
		"CREATE UNIQUE INDEX idx_bills_order_id ON bills (order_id)",
		"DROP TABLE IF EXISTS retailer_applications",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
