package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBatchesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_batches.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no batches migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS batches",
		"REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (remaining_quantity >= 0)",
		"CHECK (quantity > 0)",
		"idx_batches_batch_code",
		"DROP TABLE IF EXISTS batches",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStockMovementsMigrationContainsReferenceIndex(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_stock_movements.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no stock movements migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stock_movements",
		"total_value NUMERIC(16,2) NOT NULL",
		"idx_stock_movements_reference",
		"DROP TABLE IF EXISTS stock_movements",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
