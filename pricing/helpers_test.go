package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embroidery-backoffice/models"
)

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func moneyPtr(value string) *decimal.Decimal {
	d := money(value)
	return &d
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, money(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return engine
}

func line(productType string, qty int, embroidery models.Embroidery) models.OrderLine {
	return models.OrderLine{ProductType: productType, Color: "Navy", Size: "L", Quantity: qty, Embroidery: embroidery}
}

func patchLine(qty int, price string) models.OrderLine {
	return models.OrderLine{ProductType: models.ProductTypePatches, Quantity: qty, PricePerPatch: moneyPtr(price)}
}
