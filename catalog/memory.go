package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is a Catalog held in process memory. It is safe for concurrent use;
// every stock or credit mutation runs under the store's write lock.
type MemoryStore struct {
	mu           sync.RWMutex
	phoneRegion  string
	products     map[string]*models.Product
	productOrder []string
	customers    map[string]*models.Customer
	custOrder    []string
	now          func() time.Time
}

func NewMemoryStore(phoneRegion string) *MemoryStore {
	return &MemoryStore{
		phoneRegion: phoneRegion,
		products:    make(map[string]*models.Product),
		customers:   make(map[string]*models.Customer),
		now:         time.Now,
	}
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityProduct, id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) GetCustomer(_ context.Context, id string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityCustomer, id)
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) DecrementStock(_ context.Context, id string, amount int) error {
	if amount <= 0 {
		return models.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return models.NewNotFound(models.EntityProduct, id)
	}
	if p.Stock < amount {
		return models.NewInsufficientStock(id, p.Stock, amount)
	}
	p.Stock -= amount
	p.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) RestoreStock(_ context.Context, id string, amount int) error {
	if amount <= 0 {
		return models.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return models.NewNotFound(models.EntityProduct, id)
	}
	p.Stock += amount
	p.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) IncreaseCredit(_ context.Context, customerId string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return models.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerId]
	if !ok {
		return models.NewNotFound(models.EntityCustomer, customerId)
	}
	c.Udhaar = c.Udhaar.Add(amount)
	c.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		cp := *s.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, input *models.NewProduct) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.products[id]; exists {
		return nil, fmt.Errorf("%w: product id %s", models.ErrDuplicate, id)
	}
	if err := s.checkUniqueSku(input.Sku, ""); err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.Product{ID: id, Stock: input.Stock, CreatedAt: now, UpdatedAt: now}
	input.Apply(p)
	s.products[id] = p
	s.productOrder = append(s.productOrder, id)

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id string, input *models.NewProduct) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityProduct, id)
	}
	if err := s.checkUniqueSku(input.Sku, id); err != nil {
		return nil, err
	}
	input.Apply(p)
	p.UpdatedAt = s.now()

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityProduct, id)
	}
	delete(s.products, id)
	s.productOrder = slices.DeleteFunc(s.productOrder, func(v string) bool { return v == id })

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ReceiveStock(_ context.Context, id string, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityProduct, id)
	}
	p.Stock += qty
	p.UpdatedAt = s.now()

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListCustomers(_ context.Context) ([]*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Customer, 0, len(s.custOrder))
	for _, id := range s.custOrder {
		cp := *s.customers[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) CreateCustomer(_ context.Context, input *models.NewCustomer) (*models.Customer, error) {
	if err := input.Validate(s.phoneRegion); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.customers[id]; exists {
		return nil, fmt.Errorf("%w: customer id %s", models.ErrDuplicate, id)
	}
	if err := s.checkUniquePhone(input.Phone, ""); err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Customer{ID: id, Udhaar: input.Udhaar, CreatedAt: now, UpdatedAt: now}
	input.Apply(c)
	s.customers[id] = c
	s.custOrder = append(s.custOrder, id)

	cp := *c
	return &cp, nil
}

func (s *MemoryStore) UpdateCustomer(_ context.Context, id string, input *models.NewCustomer) (*models.Customer, error) {
	if err := input.Validate(s.phoneRegion); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityCustomer, id)
	}
	if err := s.checkUniquePhone(input.Phone, id); err != nil {
		return nil, err
	}
	input.Apply(c)
	c.UpdatedAt = s.now()

	cp := *c
	return &cp, nil
}

func (s *MemoryStore) SettleCredit(_ context.Context, customerId string, amount decimal.Decimal) (*models.Customer, error) {
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerId]
	if !ok {
		return nil, models.NewNotFound(models.EntityCustomer, customerId)
	}
	if amount.GreaterThan(c.Udhaar) {
		return nil, models.ErrOverSettlement
	}
	c.Udhaar = c.Udhaar.Sub(amount)
	c.UpdatedAt = s.now()

	cp := *c
	return &cp, nil
}

// caller holds s.mu
func (s *MemoryStore) checkUniqueSku(sku, exceptId string) error {
	for id, p := range s.products {
		if id != exceptId && p.Sku == sku {
			return fmt.Errorf("%w: sku %s", models.ErrDuplicate, sku)
		}
	}
	return nil
}

// caller holds s.mu
func (s *MemoryStore) checkUniquePhone(phone, exceptId string) error {
	for id, c := range s.customers {
		if id != exceptId && c.Phone == phone {
			return fmt.Errorf("%w: phone %s", models.ErrDuplicate, phone)
		}
	}
	return nil
}
