package catalog

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
)

// DemoProducts is the starter catalog shown on a fresh install.
func DemoProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Laptop HP EliteBook", Sku: "LAP-001", Category: "Electronics", Price: decimal.NewFromInt(45000), Stock: 15, LowStockThreshold: 5, Barcode: "123456789012"},
		{ID: "2", Name: "Wireless Mouse", Sku: "MOU-001", Category: "Accessories", Price: decimal.NewFromInt(500), Stock: 50, LowStockThreshold: 10, Barcode: "123456789013"},
		{ID: "3", Name: "USB Cable Type-C", Sku: "CAB-001", Category: "Accessories", Price: decimal.NewFromInt(200), Stock: 3, LowStockThreshold: 10, Barcode: "123456789014"},
	}
}

func DemoCustomers() []models.Customer {
	return []models.Customer{
		{ID: "1", Name: "Rajesh Kumar", Phone: "+919876543210", Email: "rajesh@example.com", Udhaar: decimal.NewFromInt(5000)},
		{ID: "2", Name: "Priya Sharma", Phone: "+919876543211", Email: "priya@example.com", Udhaar: decimal.Zero},
	}
}

// Seed loads records as-is, replacing any with the same id. Input validation is skipped.
func (s *MemoryStore) Seed(products []models.Product, customers []models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for i := range products {
		p := products[i]
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if _, exists := s.products[p.ID]; !exists {
			s.productOrder = append(s.productOrder, p.ID)
		}
		s.products[p.ID] = &p
	}
	for i := range customers {
		c := customers[i]
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		if _, exists := s.customers[c.ID]; !exists {
			s.custOrder = append(s.custOrder, c.ID)
		}
		s.customers[c.ID] = &c
	}
}

// SeedManager creates the given records through m, skipping ids that already exist.
func SeedManager(ctx context.Context, m Manager, products []models.Product, customers []models.Customer) error {
	for _, p := range products {
		if _, err := m.GetProduct(ctx, p.ID); err == nil {
			continue
		} else if !models.IsNotFound(err, models.EntityProduct) {
			return err
		}
		threshold := p.LowStockThreshold
		_, err := m.CreateProduct(ctx, &models.NewProduct{
			ID:                p.ID,
			Name:              p.Name,
			Sku:               p.Sku,
			Category:          p.Category,
			Price:             p.Price,
			Stock:             p.Stock,
			LowStockThreshold: &threshold,
			Barcode:           p.Barcode,
		})
		if err != nil && !errors.Is(err, models.ErrDuplicate) {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	for _, c := range customers {
		if _, err := m.GetCustomer(ctx, c.ID); err == nil {
			continue
		} else if !models.IsNotFound(err, models.EntityCustomer) {
			return err
		}
		_, err := m.CreateCustomer(ctx, &models.NewCustomer{
			ID:     c.ID,
			Name:   c.Name,
			Phone:  c.Phone,
			Email:  c.Email,
			Udhaar: c.Udhaar,
		})
		if err != nil && !errors.Is(err, models.ErrDuplicate) {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	return nil
}
