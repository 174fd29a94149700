package catalog

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newDryRunGormStore builds SQL without a server; nothing is executed.
func newDryRunGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "root:pw@tcp(127.0.0.1:3306)/udhaar_pos?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return NewGormStore(db, "IN")
}

func TestGormStore_CreateProductKeepsZeroValues(t *testing.T) {
	store := newDryRunGormStore(t)
	p, err := store.CreateProduct(context.Background(), &models.NewProduct{
		ID:                "Z1",
		Name:              "Sample",
		Sku:               "smp-1",
		Price:             decimal.Zero,
		Stock:             0,
		LowStockThreshold: intPtr(0),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.LowStockThreshold != 0 || p.Stock != 0 || !p.Price.IsZero() {
		t.Fatalf("zero values replaced on insert: threshold=%d stock=%d price=%s", p.LowStockThreshold, p.Stock, p.Price)
	}
}

func TestGormStore_CreateProductDefaultsThreshold(t *testing.T) {
	store := newDryRunGormStore(t)
	p, err := store.CreateProduct(context.Background(), &models.NewProduct{ID: "Z2", Name: "Sample", Sku: "smp-2"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.LowStockThreshold != models.DefaultLowStockThreshold {
		t.Fatalf("expected default threshold %d, got %d", models.DefaultLowStockThreshold, p.LowStockThreshold)
	}
}

func TestGormStore_CreateCustomerKeepsZeroUdhaar(t *testing.T) {
	store := newDryRunGormStore(t)
	// phone uniqueness runs a COUNT that returns nothing in dry-run mode
	c, err := store.CreateCustomer(context.Background(), &models.NewCustomer{ID: "K1", Name: "Asha", Phone: "+918123456789"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if !c.Udhaar.IsZero() {
		t.Fatalf("expected zero udhaar, got %s", c.Udhaar)
	}
}
