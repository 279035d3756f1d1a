package pricing

import (
	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

// Accumulate sums the final subtotals of every group
func Accumulate(groups []GroupBreakdown) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Subtotal)
	}
	return total
}

// TotalPaid sums the amounts of all recorded payments
func TotalPaid(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// ComputeBalance returns grandTotal minus everything paid. A negative balance is an overpayment,
// except for item samples holding a security deposit, where it is floored at zero.
func ComputeBalance(grandTotal decimal.Decimal, payments []models.Payment, orderType models.OrderType) decimal.Decimal {
	balance := grandTotal.Sub(TotalPaid(payments))
	if balance.IsNegative() && orderType.IsItemSample() && hasSecurityDeposit(payments) {
		return decimal.Zero
	}
	return balance
}

// LatestPaymentType returns the type of the most recently recorded payment
func LatestPaymentType(payments []models.Payment) models.PaymentType {
	if len(payments) == 0 {
		return ""
	}
	return payments[len(payments)-1].Type
}

func hasSecurityDeposit(payments []models.Payment) bool {
	for _, p := range payments {
		if p.Type == models.PaymentTypeSecurityDeposit {
			return true
		}
	}
	return false
}
