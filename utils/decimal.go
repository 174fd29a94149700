package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = []string{"₹", "Rs.", "Rs", "rs.", "rs", "INR", "inr"}

// ParseAmount accepts operator-formatted amounts such as "45,000", "₹ 1,234.50",
// "Rs -200" or "18%" and returns the decimal value.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	for _, mark := range currencyMarks {
		s = strings.ReplaceAll(s, mark, "")
	}
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, fmt.Errorf("invalid amount %q", value)
		}
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("invalid amount %q", value)
	}
	if neg {
		s = "-" + s
	}
	return decimal.NewFromString(s)
}

// FormatAmount renders an amount with two decimal places for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
