package models

import (
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
	"github.com/shopspring/decimal"
)

const EntityProduct = "product"

type Product struct {
	ID                string          `gorm:"primary_key;size:36" json:"id"`
	Name              string          `gorm:"size:100;not null" json:"name"`
	Sku               string          `gorm:"size:100;not null;uniqueIndex" json:"sku"`
	Category          string          `gorm:"size:100;index" json:"category"`
	Price             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Stock             int             `gorm:"not null" json:"stock"`
	LowStockThreshold int             `gorm:"not null" json:"low_stock_threshold"`
	Barcode           string          `gorm:"index;size:100" json:"barcode,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	ID                string          `json:"id" validate:"omitempty,max=36"`
	Name              string          `json:"name" validate:"required,max=100"`
	Sku               string          `json:"sku" validate:"required,max=100"`
	Category          string          `json:"category" validate:"max=100"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock" validate:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Barcode           string          `json:"barcode" validate:"omitempty,numeric,max=100"`
}

// DefaultLowStockThreshold is applied when a new product does not name one.
const DefaultLowStockThreshold = 10

// IsLowStock reports stock at or below the product's threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

func (input *NewProduct) Normalize() {
	input.Name = strings.TrimSpace(input.Name)
	input.Sku = strings.ToUpper(strings.TrimSpace(input.Sku))
	input.Category = strings.TrimSpace(input.Category)
	input.Barcode = strings.TrimSpace(input.Barcode)
}

func (input *NewProduct) Validate() error {
	input.Normalize()
	fields, err := utils.ValidateStruct(input)
	if err != nil {
		return err
	}
	if input.Price.IsNegative() {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["Price"] = "gte"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Apply copies the input onto p, leaving ID, Stock and timestamps to the caller.
func (input *NewProduct) Apply(p *Product) {
	p.Name = input.Name
	p.Sku = input.Sku
	p.Category = input.Category
	p.Price = input.Price
	p.Barcode = input.Barcode
	p.LowStockThreshold = utils.DereferencePtr(input.LowStockThreshold, DefaultLowStockThreshold)
}
