package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeCredit PaymentMode = "Credit"
)

type SaleLine struct {
	ProductId string          `json:"product_id"`
	Name      string          `json:"name"`
	Sku       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Sale is the audit record of a completed checkout. It is never modified after
// creation; consumers receive copies via Clone.
type Sale struct {
	ID              string          `json:"id"`
	CustomerId      string          `json:"customer_id,omitempty"`
	PaymentMode     PaymentMode     `json:"payment_mode"`
	Lines           []SaleLine      `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (s Sale) IsWalkIn() bool {
	return s.CustomerId == ""
}

func (s Sale) ItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

func (s Sale) Clone() Sale {
	c := s
	c.Lines = slices.Clone(s.Lines)
	return c
}
