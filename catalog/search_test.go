package catalog

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
)

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore()
	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3"}},
		{"laptop", []string{"1"}},
		{"mou-001", []string{"2"}},
		{"ACCESSORIES", []string{"2", "3"}},
		{"  cable ", []string{"3"}},
		{"5678901", []string{"1", "2", "3"}},
		{"789014", []string{"3"}},
		{"printer", nil},
	}
	for _, tc := range cases {
		got, err := SearchProducts(ctx, s, tc.query)
		if err != nil {
			t.Fatalf("SearchProducts(%q): %v", tc.query, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("SearchProducts(%q): expected %v, got %d products", tc.query, tc.want, len(got))
		}
		for i, id := range tc.want {
			if got[i].ID != id {
				t.Fatalf("SearchProducts(%q)[%d]: expected %s, got %s", tc.query, i, id, got[i].ID)
			}
		}
	}
}

func TestLowStockProducts_ThresholdIsInclusive(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore()
	s.Seed([]models.Product{{ID: "4", Name: "Charger", Sku: "CHG-001", Stock: 10, LowStockThreshold: 10}}, nil)

	got, err := LowStockProducts(ctx, s)
	if err != nil {
		t.Fatalf("LowStockProducts: %v", err)
	}
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "4" {
		t.Fatalf("expected products 3 and 4, got %+v", got)
	}
}

func TestFindByBarcode(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore()
	p, err := FindByBarcode(ctx, s, " 123456789013 ")
	if err != nil || p.ID != "2" {
		t.Fatalf("expected mouse, got %v (err %v)", p, err)
	}
	if _, err := FindByBarcode(ctx, s, "1234567890"); !models.IsNotFound(err, models.EntityProduct) {
		t.Fatalf("partial barcode must not match, got %v", err)
	}
	if _, err := FindByBarcode(ctx, s, ""); !models.IsNotFound(err, models.EntityProduct) {
		t.Fatalf("empty barcode must not match, got %v", err)
	}
}
