package catalog

import (
	"context"
	"strings"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
)

// MatchesQuery matches name, SKU or category case-insensitively, or barcode as a substring.
// An empty query matches everything.
func MatchesQuery(p *models.Product, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	return utils.ContainsFold(p.Name, q) ||
		utils.ContainsFold(p.Sku, q) ||
		utils.ContainsFold(p.Category, q) ||
		(p.Barcode != "" && strings.Contains(p.Barcode, q))
}

func FilterProducts(products []*models.Product, query string) []*models.Product {
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if MatchesQuery(p, query) {
			out = append(out, p)
		}
	}
	return out
}

func FilterLowStock(products []*models.Product) []*models.Product {
	out := make([]*models.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

func SearchProducts(ctx context.Context, m Manager, query string) ([]*models.Product, error) {
	products, err := m.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, query), nil
}

func LowStockProducts(ctx context.Context, m Manager) ([]*models.Product, error) {
	products, err := m.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterLowStock(products), nil
}

// FindByBarcode returns the product whose barcode equals code exactly.
func FindByBarcode(ctx context.Context, m Manager, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	products, err := m.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if code != "" && p.Barcode == code {
			return p, nil
		}
	}
	return nil, models.NewNotFound(models.EntityProduct, code)
}
