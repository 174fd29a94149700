package utils

import (
	"github.com/shopspring/decimal"
)

var decimalOneHundred = decimal.NewFromInt(100)

// CalculateDiscountAmount returns subTotal * percent / 100 without rounding.
// A non-positive percent yields zero.
func CalculateDiscountAmount(subTotal decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	if !percent.IsPositive() {
		return decimal.Zero
	}
	return subTotal.Mul(percent).Div(decimalOneHundred)
}

// CalculateTaxAmount returns the tax-exclusive amount taxable * percent / 100 without rounding.
// taxable is expected to already have discounts removed.
func CalculateTaxAmount(taxable decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	if !percent.IsPositive() {
		return decimal.Zero
	}
	return taxable.Mul(percent).Div(decimalOneHundred)
}

// IsPercentInRange reports whether pct lies in [lower, upper].
func IsPercentInRange(pct, lower, upper decimal.Decimal) bool {
	return pct.GreaterThanOrEqual(lower) && pct.LessThanOrEqual(upper)
}
