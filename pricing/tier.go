package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

const (
	tierLabelPatches     = "Per patch"
	tierLabelClientOwned = "Client owned"
)

// TierQuery holds the inputs of a tier lookup
type TierQuery struct {
	ProductType   string
	TotalQuantity int
	Embroidery    models.Embroidery
	OrderType     models.OrderType
	// PricePerPatch is only read for Patches
	PricePerPatch decimal.Decimal
}

// TierResult is the unit price selected for a group and the label of its bracket
type TierResult struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TierLabel string          `json:"tierLabel"`
}

// ResolveTier finds the unit price for a product type at a total quantity.
// Item samples always resolve to a zero unit price.
func ResolveTier(config *PricingConfig, q TierQuery) (TierResult, error) {
	embroidery := q.Embroidery
	if embroidery == "" {
		embroidery = models.EmbroideryLogo
	}

	result, err := lookupTier(config, q.ProductType, q.TotalQuantity, embroidery, q.PricePerPatch)
	if err != nil {
		return TierResult{}, err
	}
	if q.OrderType.IsItemSample() {
		result.UnitPrice = decimal.Zero
	}
	return result, nil
}

func lookupTier(config *PricingConfig, productType string, qty int, embroidery models.Embroidery, pricePerPatch decimal.Decimal) (TierResult, error) {
	switch productType {
	case models.ProductTypePatches:
		return TierResult{UnitPrice: pricePerPatch, TierLabel: tierLabelPatches}, nil
	case models.ProductTypeClientOwned:
		// Missing embroidery price means embroidery-only work is free
		return TierResult{UnitPrice: config.ClientOwned[embroidery], TierLabel: tierLabelClientOwned}, nil
	}

	product, ok := config.Products[productType]
	if !ok {
		return TierResult{}, &PricingLookupError{
			ProductType: productType,
			Quantity:    qty,
			Embroidery:  embroidery,
			Reason:      "product type not in catalog",
		}
	}

	tier, err := selectTier(product.Tiers, qty)
	if err != nil {
		return TierResult{}, fmt.Errorf("product %q: %w", productType, err)
	}
	if tier == nil {
		return TierResult{}, &PricingLookupError{
			ProductType: productType,
			Quantity:    qty,
			Embroidery:  embroidery,
			Reason:      "quantity below the first tier",
		}
	}

	price, ok := tier.Prices[embroidery]
	if !ok {
		return TierResult{}, &PricingLookupError{
			ProductType: productType,
			Quantity:    qty,
			Embroidery:  embroidery,
			Reason:      fmt.Sprintf("tier %q has no price for this embroidery", tier.Label),
		}
	}
	return TierResult{UnitPrice: price, TierLabel: tier.Label}, nil
}

// selectTier scans tiers in ascending order. Quantities above every bracket use the last tier.
// A nil tier with a nil error means the quantity sits below the first bracket.
func selectTier(tiers []Tier, qty int) (*Tier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrMalformedCatalog)
	}
	brackets := make([]bracket, len(tiers))
	for i, t := range tiers {
		brackets[i] = bracket{t.MinQty, t.MaxQty}
	}
	idx, err := findBracket(brackets, qty)
	if err != nil || idx < 0 {
		return nil, err
	}
	return &tiers[idx], nil
}

// selectAddOnPrice returns the add-on unit price for a group quantity
func selectAddOnPrice(tiers []AddOnTier, qty int) (decimal.Decimal, bool, error) {
	if len(tiers) == 0 {
		return decimal.Zero, false, nil
	}
	brackets := make([]bracket, len(tiers))
	for i, t := range tiers {
		brackets[i] = bracket{t.MinQty, t.MaxQty}
	}
	idx, err := findBracket(brackets, qty)
	if err != nil {
		return decimal.Zero, false, err
	}
	if idx < 0 {
		return decimal.Zero, false, nil
	}
	return tiers[idx].Price, true, nil
}

// findBracket returns the index of the bracket containing qty, the last index when qty is above
// every bracket, or -1 when qty is below the first one. Malformed brackets are an error.
func findBracket(brackets []bracket, qty int) (int, error) {
	if err := checkBrackets(brackets); err != nil {
		return -1, err
	}
	if qty < brackets[0].min {
		return -1, nil
	}
	for i, b := range brackets {
		if qty >= b.min && (b.max == 0 || qty <= b.max) {
			return i, nil
		}
	}
	return len(brackets) - 1, nil
}
