package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

// Fee line names
const (
	FeeLogoProgramming       = "logoProgramming"
	FeeBackTextProgramming   = "backTextProgramming"
	FeeRush                  = "rushFee"
	FeeShipping              = "shippingFee"
	FeeLogoDesignProgramming = "logoDesignProgramming"
	FeeBackDesignProgramming = "backDesignProgramming"
	FeeHolding               = "holdingFee"
)

// ProgrammingFees are the one-time embroidery setup charges of a group
type ProgrammingFees struct {
	LogoFee     decimal.Decimal `json:"logoFee"`
	BackTextFee decimal.Decimal `json:"backTextFee"`
}

// GroupInputs gathers the per-group edits that feed the fee calculator
type GroupInputs struct {
	AddOns            models.AddOns
	Discount          *models.Discount
	UnitPriceOverride *decimal.Decimal
	// AddOnPriceOverrides is keyed by add-on name (backLogo, names, plusSize)
	AddOnPriceOverrides map[string]decimal.Decimal
	FeeOverride         models.ProgrammingFeeOverride
	Removed             models.RemovedFees
}

// AddOnLine is one per-unit add-on row of the invoice
type AddOnLine struct {
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Overridden bool            `json:"overridden"`
	Total      decimal.Decimal `json:"total"`
}

// FeeLine is one fee row of the invoice. OneTime marks programming fees.
type FeeLine struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	OneTime    bool            `json:"oneTime"`
	Overridden bool            `json:"overridden,omitempty"`
	Removed    bool            `json:"removed,omitempty"`
}

// DiscountLine is the discount row of a group
type DiscountLine struct {
	Type   models.DiscountType `json:"type"`
	Value  decimal.Decimal     `json:"value"`
	Reason string              `json:"reason,omitempty"`
	Amount decimal.Decimal     `json:"amount"`
}

// GroupBreakdown carries everything needed to render one group of the invoice table
type GroupBreakdown struct {
	Key                 string             `json:"key"`
	Label               string             `json:"label"`
	ProductType         string             `json:"productType"`
	Embroidery          models.Embroidery  `json:"embroidery"`
	TierLabel           string             `json:"tierLabel"`
	Quantity            int                `json:"quantity"`
	UnitPrice           decimal.Decimal    `json:"unitPrice"`
	UnitPriceOverridden bool               `json:"unitPriceOverridden"`
	ItemsSubtotal       decimal.Decimal    `json:"itemsSubtotal"`
	AddOns              []AddOnLine        `json:"addOns"`
	AddOnTotal          decimal.Decimal    `json:"addOnTotal"`
	Fees                []FeeLine          `json:"fees"`
	FeeTotal            decimal.Decimal    `json:"feeTotal"`
	PreDiscountSubtotal decimal.Decimal    `json:"preDiscountSubtotal"`
	Discount            *DiscountLine      `json:"discount,omitempty"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	Orders              []models.OrderLine `json:"orders"`
}

// ScheduledProgrammingFees returns the one-time programming fees for a group before overrides and removals
func (c *PricingConfig) ScheduledProgrammingFees(totalQuantity int, embroidery models.Embroidery, isClientOwned bool, orderType models.OrderType) ProgrammingFees {
	fees := ProgrammingFees{LogoFee: decimal.Zero, BackTextFee: decimal.Zero}
	schedule := c.ProgrammingFees

	if orderType.IsItemSample() || contains(schedule.WaivedOrderTypes, string(orderType)) {
		return fees
	}
	if embroidery == models.EmbroideryName {
		return fees
	}

	if isClientOwned {
		fees.LogoFee = schedule.ClientOwnedLogo
		if embroidery == models.EmbroideryLogoAndText {
			fees.BackTextFee = schedule.ClientOwnedBackText
		}
		return fees
	}

	if schedule.WaiveAtQuantity > 0 && totalQuantity >= schedule.WaiveAtQuantity {
		return fees
	}
	fees.LogoFee = schedule.Logo
	if embroidery == models.EmbroideryLogoAndText {
		fees.BackTextFee = schedule.BackText
	}
	return fees
}

// ComputeGroupSubtotal prices one group: items, add-ons, programming fees, free-form fees, then discount.
// Item samples bill nothing but a manual unit price: add-ons and fees are zero even when overridden.
func ComputeGroupSubtotal(config *PricingConfig, group OrderGroup, in GroupInputs, orderType models.OrderType) (GroupBreakdown, error) {
	itemSample := orderType.IsItemSample()

	b := GroupBreakdown{
		Key:         group.Key,
		Label:       GroupLabel(group.ProductType, group.Embroidery),
		ProductType: group.ProductType,
		Embroidery:  group.Embroidery,
		Quantity:    group.TotalQuantity,
		Orders:      group.Orders,
		AddOns:      []AddOnLine{},
		Fees:        []FeeLine{},
	}

	// Items
	tier, err := ResolveTier(config, TierQuery{
		ProductType:   group.ProductType,
		TotalQuantity: group.TotalQuantity,
		Embroidery:    group.Embroidery,
		OrderType:     orderType,
		PricePerPatch: firstPricePerPatch(group.Orders),
	})
	if err != nil {
		return GroupBreakdown{}, err
	}
	b.TierLabel = tier.TierLabel

	qty := decimal.NewFromInt(int64(group.TotalQuantity))
	switch {
	case in.UnitPriceOverride != nil:
		b.UnitPrice = *in.UnitPriceOverride
		b.UnitPriceOverridden = true
		b.ItemsSubtotal = qty.Mul(b.UnitPrice)
	case group.IsPatches() && !itemSample:
		b.ItemsSubtotal = patchesSubtotal(group.Orders)
		b.UnitPrice = averageUnitPrice(b.ItemsSubtotal, group.TotalQuantity)
	default:
		b.UnitPrice = tier.UnitPrice
		b.ItemsSubtotal = qty.Mul(b.UnitPrice)
	}

	// Per-unit add-ons
	addOnCounts := []struct {
		name  string
		count int
		tiers []AddOnTier
	}{
		{models.AddOnBackLogo, in.AddOns.BackLogo, config.AddOns.BackLogo},
		{models.AddOnNames, in.AddOns.Names, config.AddOns.Names},
		{models.AddOnPlusSize, in.AddOns.PlusSize, config.AddOns.PlusSize},
	}
	b.AddOnTotal = decimal.Zero
	for _, a := range addOnCounts {
		if a.count == 0 {
			continue
		}
		line := AddOnLine{Name: a.name, Count: a.count}
		if itemSample {
			line.UnitPrice = decimal.Zero
		} else if override, ok := in.AddOnPriceOverrides[a.name]; ok {
			line.UnitPrice = override
			line.Overridden = true
		} else {
			price, found, err := selectAddOnPrice(a.tiers, group.TotalQuantity)
			if err != nil {
				return GroupBreakdown{}, fmt.Errorf("add-on %q: %w", a.name, err)
			}
			if !found {
				return GroupBreakdown{}, &PricingLookupError{
					ProductType: group.ProductType,
					Quantity:    group.TotalQuantity,
					Embroidery:  group.Embroidery,
					Reason:      fmt.Sprintf("no %s add-on price for this quantity", a.name),
				}
			}
			line.UnitPrice = price
		}
		line.Total = decimal.NewFromInt(int64(a.count)).Mul(line.UnitPrice)
		b.AddOns = append(b.AddOns, line)
		b.AddOnTotal = b.AddOnTotal.Add(line.Total)
	}

	// One-time programming fees
	b.FeeTotal = decimal.Zero
	if !config.IsFeeExempt(group.ProductType) {
		scheduled := config.ScheduledProgrammingFees(group.TotalQuantity, group.Embroidery, group.IsClientOwned(), orderType)
		for _, f := range []struct {
			name      string
			scheduled decimal.Decimal
			override  *decimal.Decimal
			removed   bool
		}{
			{FeeLogoProgramming, scheduled.LogoFee, in.FeeOverride.LogoFee, in.Removed.Logo},
			{FeeBackTextProgramming, scheduled.BackTextFee, in.FeeOverride.BackTextFee, in.Removed.BackText},
		} {
			line := FeeLine{Name: f.name, OneTime: true}
			switch {
			case itemSample:
				line.Amount = decimal.Zero
			case f.override != nil:
				line.Amount = *f.override
				line.Overridden = true
			case f.removed:
				line.Amount = decimal.Zero
				line.Removed = !f.scheduled.IsZero()
			default:
				line.Amount = f.scheduled
			}
			if line.Amount.IsZero() && !line.Overridden && !line.Removed {
				continue
			}
			b.Fees = append(b.Fees, line)
			b.FeeTotal = b.FeeTotal.Add(line.Amount)
		}
	}

	// Free-form fees
	if !itemSample {
		for _, f := range []struct {
			name   string
			amount decimal.Decimal
		}{
			{FeeRush, in.AddOns.RushFee},
			{FeeShipping, in.AddOns.ShippingFee},
			{FeeLogoDesignProgramming, in.AddOns.LogoProgramming},
			{FeeBackDesignProgramming, in.AddOns.BackDesignProgramming},
			{FeeHolding, in.AddOns.HoldingFee},
		} {
			if f.amount.IsZero() {
				continue
			}
			b.Fees = append(b.Fees, FeeLine{Name: f.name, Amount: f.amount})
			b.FeeTotal = b.FeeTotal.Add(f.amount)
		}
	}

	b.PreDiscountSubtotal = b.ItemsSubtotal.Add(b.AddOnTotal).Add(b.FeeTotal)
	b.Subtotal = ApplyDiscount(b.PreDiscountSubtotal, in.Discount)
	if in.Discount != nil {
		b.Discount = &DiscountLine{
			Type:   in.Discount.Type,
			Value:  in.Discount.Value,
			Reason: in.Discount.Reason,
			Amount: b.PreDiscountSubtotal.Sub(b.Subtotal),
		}
	}
	return b, nil
}

// GroupLabel renders a human label such as "Executive Jacket 1 (Logo + Text)"
func GroupLabel(productType string, embroidery models.Embroidery) string {
	switch embroidery {
	case models.EmbroideryLogoAndText:
		return productType + " (Logo + Text)"
	case models.EmbroideryName:
		return productType + " (Name)"
	default:
		return productType + " (Logo)"
	}
}

func firstPricePerPatch(orders []models.OrderLine) decimal.Decimal {
	for _, o := range orders {
		if o.PricePerPatch != nil {
			return *o.PricePerPatch
		}
	}
	return decimal.Zero
}

// patchesSubtotal prices every patch line at its own per-patch price
func patchesSubtotal(orders []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.PricePerPatch == nil {
			continue
		}
		total = total.Add(decimal.NewFromInt(int64(o.Quantity)).Mul(*o.PricePerPatch))
	}
	return total
}

func averageUnitPrice(total decimal.Decimal, qty int) decimal.Decimal {
	if qty == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(qty)), 2)
}
