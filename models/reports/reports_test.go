package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/catalog"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func testSales() []models.Sale {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return []models.Sale{
		{
			ID:          "S1",
			PaymentMode: models.PaymentModeCash,
			Lines:       []models.SaleLine{{ProductId: "1", Quantity: 3, UnitPrice: decimal.NewFromInt(500), Amount: decimal.NewFromInt(1500)}},
			Subtotal:    decimal.NewFromInt(1500),
			TaxAmount:   decimal.NewFromInt(243),
			Total:       decimal.NewFromInt(1593),
			CreatedAt:   at,
		},
		{
			ID:          "S2",
			CustomerId:  "1",
			PaymentMode: models.PaymentModeCredit,
			Lines:       []models.SaleLine{{ProductId: "2", Quantity: 2, UnitPrice: decimal.NewFromInt(30), Amount: decimal.NewFromInt(60)}},
			Subtotal:    decimal.NewFromInt(60),
			TaxAmount:   decimal.RequireFromString("10.8"),
			Total:       decimal.RequireFromString("70.8"),
			CreatedAt:   at.Add(time.Minute),
		},
	}
}

func TestSaleJournal_RecordsCopies(t *testing.T) {
	j := NewSaleJournal()
	sale := testSales()[0]
	if err := j.OnSaleCompleted(context.Background(), sale); err != nil {
		t.Fatalf("OnSaleCompleted: %v", err)
	}
	sale.Lines[0].Quantity = 99

	got := j.Sales()
	if len(got) != 1 || got[0].Lines[0].Quantity != 3 {
		t.Fatalf("journal must keep its own copy, got %+v", got)
	}
	got[0].Lines[0].Quantity = 42
	if j.Sales()[0].Lines[0].Quantity != 3 {
		t.Fatalf("Sales() must return copies")
	}
}

func TestSummarizeSales(t *testing.T) {
	s := SummarizeSales(testSales())
	if s.SalesCount != 2 {
		t.Fatalf("expected 2 sales, got %d", s.SalesCount)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"revenue", s.Revenue, "1663.8"},
		{"credit", s.CreditSales, "70.8"},
		{"cash", s.CashSales, "1593"},
		{"tax", s.TaxCollected, "253.8"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
}

func TestGetDashboard_DemoCatalog(t *testing.T) {
	store := catalog.NewMemoryStore("IN")
	store.Seed(catalog.DemoProducts(), catalog.DemoCustomers())
	j := NewSaleJournal()
	for _, s := range testSales() {
		_ = j.OnSaleCompleted(context.Background(), s)
	}

	d, err := GetDashboard(context.Background(), store, j)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if d.ProductCount != 3 || d.TotalStock != 68 {
		t.Fatalf("expected 3 products and 68 units, got %d and %d", d.ProductCount, d.TotalStock)
	}
	if len(d.LowStockItems) != 1 || d.LowStockItems[0].ID != "3" {
		t.Fatalf("expected only the USB cable low on stock, got %+v", d.LowStockItems)
	}
	if d.CustomerCount != 2 || d.CustomersOwing != 1 || !d.TotalUdhaar.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected customer figures: %+v", d)
	}
	if d.SalesCount != 2 || !d.Revenue.Equal(decimal.RequireFromString("1663.8")) || !d.CreditSalesTotal.Equal(decimal.RequireFromString("70.8")) {
		t.Fatalf("unexpected sales figures: %+v", d)
	}
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(nil, nil, nil)
	if d.ProductCount != 0 || d.SalesCount != 0 || !d.Revenue.IsZero() || !d.TotalUdhaar.IsZero() {
		t.Fatalf("expected zero dashboard, got %+v", d)
	}
	if d.LowStockItems == nil {
		t.Fatalf("low stock list should be empty, not nil")
	}
}

func readRows(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", sheet, err)
	}
	return rows
}

func TestExportSales(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportSales(&buf, testSales()); err != nil {
		t.Fatalf("ExportSales: %v", err)
	}
	rows := readRows(t, &buf, SalesSheet)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "SaleId" || rows[0][8] != "Total" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "S1" || rows[1][2] != "Walk-in" || rows[1][3] != "Cash" || rows[1][8] != "1593" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][2] != "1" || rows[2][3] != "Credit" || rows[2][4] != "2" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}

func TestExportLowStock(t *testing.T) {
	products := catalog.FilterLowStock(func() []*models.Product {
		var out []*models.Product
		for _, p := range catalog.DemoProducts() {
			p := p
			out = append(out, &p)
		}
		return out
	}())

	var buf bytes.Buffer
	if err := ExportLowStock(&buf, products); err != nil {
		t.Fatalf("ExportLowStock: %v", err)
	}
	rows := readRows(t, &buf, LowStockSheet)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][0] != "CAB-001" || rows[1][3] != "3" || rows[1][4] != "10" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}
