// Package catalog holds product and customer records for the POS and the
// stock/credit writes a completed sale applies to them.
package catalog

import (
	"context"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
)

// Reader is the read side the cart engine needs.
// Both methods return a *models.NotFoundError when the record is absent.
type Reader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
}

// Writer is the write side used only by sale finalization.
type Writer interface {
	// DecrementStock fails with *models.InsufficientStockError when stock < amount
	// and leaves the product untouched.
	DecrementStock(ctx context.Context, id string, amount int) error
	// RestoreStock undoes a DecrementStock of the same amount.
	RestoreStock(ctx context.Context, id string, amount int) error
	IncreaseCredit(ctx context.Context, customerId string, amount decimal.Decimal) error
}

type Store interface {
	Reader
	Writer
}

// Transactor is implemented by stores that can apply several writes atomically.
// When fn returns an error no write made through w is kept.
type Transactor interface {
	Transact(ctx context.Context, fn func(w Writer) error) error
}

// Manager is catalog administration: product and customer upkeep outside of a sale.
type Manager interface {
	Reader
	ListProducts(ctx context.Context) ([]*models.Product, error)
	CreateProduct(ctx context.Context, input *models.NewProduct) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input *models.NewProduct) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
	ReceiveStock(ctx context.Context, id string, qty int) (*models.Product, error)

	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	CreateCustomer(ctx context.Context, input *models.NewCustomer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input *models.NewCustomer) (*models.Customer, error)
	// SettleCredit records a repayment against the customer's udhaar.
	SettleCredit(ctx context.Context, customerId string, amount decimal.Decimal) (*models.Customer, error)
}

type Catalog interface {
	Store
	Manager
}

var (
	_ Catalog    = (*MemoryStore)(nil)
	_ Catalog    = (*GormStore)(nil)
	_ Transactor = (*GormStore)(nil)
	_ Locker     = (*LocalLocker)(nil)
	_ Locker     = (*RedisLocker)(nil)
)
