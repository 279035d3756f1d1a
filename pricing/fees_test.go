package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embroidery-backoffice/models"
)

func TestScheduledProgrammingFees(t *testing.T) {
	config := DefaultConfig()

	cases := []struct {
		name        string
		qty         int
		embroidery  models.Embroidery
		clientOwned bool
		orderType   models.OrderType
		logo        string
		backText    string
	}{
		{"small logo order", 5, models.EmbroideryLogo, false, models.OrderTypeRegular, "500", "0"},
		{"small logo and text order", 5, models.EmbroideryLogoAndText, false, models.OrderTypeRush, "500", "300"},
		{"waived at threshold", 12, models.EmbroideryLogoAndText, false, models.OrderTypeRegular, "0", "0"},
		{"just below threshold", 11, models.EmbroideryLogo, false, models.OrderTypeReorder, "500", "0"},
		{"name embroidery", 3, models.EmbroideryName, false, models.OrderTypeRegular, "0", "0"},
		{"client owned ignores threshold", 40, models.EmbroideryLogoAndText, true, models.OrderTypeRegular, "500", "300"},
		{"item sample", 2, models.EmbroideryLogoAndText, false, models.OrderTypeItemSample, "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fees := config.ScheduledProgrammingFees(tc.qty, tc.embroidery, tc.clientOwned, tc.orderType)
			assertMoney(t, tc.logo, fees.LogoFee)
			assertMoney(t, tc.backText, fees.BackTextFee)
		})
	}
}

func singleGroup(t *testing.T, config *PricingConfig, orders ...models.OrderLine) OrderGroup {
	t.Helper()
	groups, skipped := Aggregate(orders, config)
	require.Empty(t, skipped)
	require.Len(t, groups, 1)
	return groups[0]
}

func TestComputeGroupSubtotalProgrammingFees(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, line("Polo Shirt", 5, models.EmbroideryLogoAndText))

	b, err := ComputeGroupSubtotal(config, group, GroupInputs{}, models.OrderTypeRegular)
	require.NoError(t, err)
	assertMoney(t, "2800", b.ItemsSubtotal)
	require.Len(t, b.Fees, 2)
	assert.True(t, b.Fees[0].OneTime)
	assertMoney(t, "800", b.FeeTotal)
	assertMoney(t, "3600", b.Subtotal)
	assert.Equal(t, "Polo Shirt (Logo + Text)", b.Label)
}

func TestComputeGroupSubtotalRemovedFee(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, line("Polo Shirt", 5, models.EmbroideryLogoAndText))
	in := GroupInputs{Removed: models.RemovedFees{Logo: true}}

	b, err := ComputeGroupSubtotal(config, group, in, models.OrderTypeRegular)
	require.NoError(t, err)
	require.Len(t, b.Fees, 2)
	assert.Equal(t, FeeLogoProgramming, b.Fees[0].Name)
	assert.True(t, b.Fees[0].Removed)
	assert.True(t, b.Fees[0].Amount.IsZero())
	assertMoney(t, "3100", b.Subtotal)

	again, err := ComputeGroupSubtotal(config, group, in, models.OrderTypeRegular)
	require.NoError(t, err)
	assert.True(t, b.Subtotal.Equal(again.Subtotal))
	assert.True(t, in.Removed.Logo)
}

func TestComputeGroupSubtotalFeeOverrideBeatsRemoval(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, line("Polo Shirt", 5, models.EmbroideryLogoAndText))
	in := GroupInputs{
		Removed:     models.RemovedFees{BackText: true},
		FeeOverride: models.ProgrammingFeeOverride{BackTextFee: moneyPtr("150")},
	}

	b, err := ComputeGroupSubtotal(config, group, in, models.OrderTypeRegular)
	require.NoError(t, err)
	require.Len(t, b.Fees, 2)
	assert.True(t, b.Fees[1].Overridden)
	assertMoney(t, "150", b.Fees[1].Amount)
	assertMoney(t, "650", b.FeeTotal)
}

func TestComputeGroupSubtotalAddOnsAndFreeFormFees(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, line("T-Shirt", 20, models.EmbroideryLogo))
	in := GroupInputs{
		AddOns: models.AddOns{
			BackLogo:    3,
			PlusSize:    2,
			RushFee:     money("500"),
			ShippingFee: money("150"),
		},
		AddOnPriceOverrides: map[string]decimal.Decimal{models.AddOnBackLogo: money("75")},
		Discount:            &models.Discount{Type: models.DiscountTypePercentage, Value: money("10")},
	}

	b, err := ComputeGroupSubtotal(config, group, in, models.OrderTypeRegular)
	require.NoError(t, err)
	assertMoney(t, "5600", b.ItemsSubtotal)
	require.Len(t, b.AddOns, 2)
	assert.True(t, b.AddOns[0].Overridden)
	assertMoney(t, "225", b.AddOns[0].Total)
	assertMoney(t, "200", b.AddOns[1].Total)
	assertMoney(t, "425", b.AddOnTotal)
	assertMoney(t, "650", b.FeeTotal)
	assertMoney(t, "6675", b.PreDiscountSubtotal)
	require.NotNil(t, b.Discount)
	assertMoney(t, "667.5", b.Discount.Amount)
	assertMoney(t, "6007.5", b.Subtotal)
}

func TestComputeGroupSubtotalItemSample(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, line("Executive Jacket 1", 2, models.EmbroideryLogoAndText))
	in := GroupInputs{AddOns: models.AddOns{BackLogo: 2, Names: 2, RushFee: money("500"), HoldingFee: money("200")}}

	b, err := ComputeGroupSubtotal(config, group, in, models.OrderTypeItemSample)
	require.NoError(t, err)
	assert.True(t, b.ItemsSubtotal.IsZero())
	assert.True(t, b.AddOnTotal.IsZero())
	assert.Empty(t, b.Fees)
	assert.True(t, b.Subtotal.IsZero())

	in.UnitPriceOverride = moneyPtr("100")
	b, err = ComputeGroupSubtotal(config, group, in, models.OrderTypeItemSample)
	require.NoError(t, err)
	assertMoney(t, "200", b.Subtotal)
	assert.True(t, b.UnitPriceOverridden)
}

func TestComputeGroupSubtotalItemSampleIgnoresAddOnAndFeeOverrides(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, line("Executive Jacket 1", 2, models.EmbroideryLogoAndText))
	in := GroupInputs{
		AddOns:              models.AddOns{BackLogo: 2},
		AddOnPriceOverrides: map[string]decimal.Decimal{models.AddOnBackLogo: money("100")},
		FeeOverride: models.ProgrammingFeeOverride{
			LogoFee:     moneyPtr("500"),
			BackTextFee: moneyPtr("300"),
		},
	}

	b, err := ComputeGroupSubtotal(config, group, in, models.OrderTypeItemSample)
	require.NoError(t, err)
	require.Len(t, b.AddOns, 1)
	assert.True(t, b.AddOns[0].UnitPrice.IsZero())
	assert.False(t, b.AddOns[0].Overridden)
	assert.True(t, b.AddOnTotal.IsZero())
	assert.Empty(t, b.Fees)
	assert.True(t, b.FeeTotal.IsZero())
	assert.True(t, b.Subtotal.IsZero())

	b, err = ComputeGroupSubtotal(config, group, in, models.OrderTypeRegular)
	require.NoError(t, err)
	assertMoney(t, "200", b.AddOnTotal)
	assertMoney(t, "800", b.FeeTotal)
}

func TestComputeGroupSubtotalPatches(t *testing.T) {
	config := DefaultConfig()
	group := singleGroup(t, config, patchLine(10, "25"), patchLine(20, "30"))

	b, err := ComputeGroupSubtotal(config, group, GroupInputs{}, models.OrderTypeRegular)
	require.NoError(t, err)
	assertMoney(t, "850", b.ItemsSubtotal)
	assertMoney(t, "28.33", b.UnitPrice)
	assert.Empty(t, b.Fees)
}

func TestApplyDiscount(t *testing.T) {
	subtotal := money("1000")

	assertMoney(t, "1000", ApplyDiscount(subtotal, nil))
	assertMoney(t, "1000", ApplyDiscount(subtotal, &models.Discount{Type: models.DiscountTypePercentage, Value: money("0")}))
	assertMoney(t, "1000", ApplyDiscount(subtotal, &models.Discount{Type: models.DiscountTypeFixed, Value: money("0")}))
	assertMoney(t, "900", ApplyDiscount(subtotal, &models.Discount{Type: models.DiscountTypePercentage, Value: money("10")}))
	assertMoney(t, "0", ApplyDiscount(subtotal, &models.Discount{Type: models.DiscountTypePercentage, Value: money("100")}))
	assertMoney(t, "875", ApplyDiscount(subtotal, &models.Discount{Type: models.DiscountTypeFixed, Value: money("125")}))
	assertMoney(t, "-200", ApplyDiscount(subtotal, &models.Discount{Type: models.DiscountTypeFixed, Value: money("1200")}))
	assertMoney(t, "1000", ApplyDiscount(subtotal, &models.Discount{Type: "bogus", Value: money("50")}))
}

func TestComputeBalance(t *testing.T) {
	deposit := []models.Payment{{Type: models.PaymentTypeSecurityDeposit, Amount: money("1500")}}
	assertMoney(t, "0", ComputeBalance(money("0"), deposit, models.OrderTypeItemSample))
	assertMoney(t, "-1500", ComputeBalance(money("0"), deposit, models.OrderTypeRegular))

	down := []models.Payment{{Type: models.PaymentTypeDown, Amount: money("5000")}}
	assertMoney(t, "5300", ComputeBalance(money("10300"), down, models.OrderTypeRegular))
	assertMoney(t, "10300", ComputeBalance(money("10300"), nil, models.OrderTypeRegular))

	assert.Equal(t, models.PaymentTypeDown, LatestPaymentType(down))
	assert.Equal(t, models.PaymentType(""), LatestPaymentType(nil))
}
