package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PesoSign is the currency symbol printed on invoices
const PesoSign = "₱"

// FormatPHP formats an amount as a string like "₱10,300.00".
// Uses comma as thousands separator and always prints two decimals.
func FormatPHP(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + decimals
	b.Grow(len(whole) + len(whole)/3 + len(PesoSign) + 4)
	if neg {
		b.WriteString("-")
	}
	b.WriteString(PesoSign)

	// Insert separators from the left.
	rem := len(whole) % 3
	if rem == 0 {
		rem = 3
	}
	if rem > len(whole) {
		rem = len(whole)
	}
	b.WriteString(whole[:rem])
	for i := rem; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}

	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// RoundMoney rounds an amount to centavos
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
