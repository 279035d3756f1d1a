package pricing

import (
	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

var oneHundred = decimal.NewFromInt(100)

// ApplyDiscount applies a group discount to its subtotal.
// Values are not clamped and a fixed discount larger than the subtotal yields a negative result.
func ApplyDiscount(subtotal decimal.Decimal, discount *models.Discount) decimal.Decimal {
	if discount == nil {
		return subtotal
	}
	switch discount.Type {
	case models.DiscountTypePercentage:
		factor := decimal.NewFromInt(1).Sub(discount.Value.Div(oneHundred))
		return subtotal.Mul(factor)
	case models.DiscountTypeFixed:
		return subtotal.Sub(discount.Value)
	default:
		return subtotal
	}
}
