package cart

import (
	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
	"github.com/shopspring/decimal"
)

// Totals are the billing figures of a cart. Amounts are exact; round only for display.
type Totals struct {
	ItemCount       int             `json:"item_count"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

// Taxable is the amount tax is charged on: subtotal after discount.
func (t Totals) Taxable() decimal.Decimal {
	return t.Subtotal.Sub(t.DiscountAmount)
}

// CalculateTotals derives subtotal, discount, tax and total for lines.
//
//	subtotal = Σ unitPrice × quantity
//	discount = subtotal × discountPercent / 100
//	tax      = (subtotal − discount) × taxPercent / 100
//	total    = subtotal − discount + tax
func CalculateTotals(lines []Line, discountPercent, taxPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	items := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
		items += l.Quantity
	}

	discountAmount := utils.CalculateDiscountAmount(subtotal, discountPercent)
	taxAmount := utils.CalculateTaxAmount(subtotal.Sub(discountAmount), taxPercent)

	return Totals{
		ItemCount:       items,
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		TaxPercent:      taxPercent,
		TaxAmount:       taxAmount,
		Total:           subtotal.Sub(discountAmount).Add(taxAmount),
	}
}
