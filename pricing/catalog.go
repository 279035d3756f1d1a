package pricing

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

//go:embed default_pricing.json
var defaultPricingJSON []byte

// PricingConfig represents the pricing catalog document (pricing/default)
type PricingConfig struct {
	Currency        string                                `json:"currency"`
	Products        map[string]ProductPricing             `json:"products"`
	AddOns          AddOnPricing                          `json:"addOns"`
	ClientOwned     map[models.Embroidery]decimal.Decimal `json:"clientOwned"`
	ProgrammingFees FeeSchedule                           `json:"programmingFees"`
}

// ProductPricing holds the quantity tiers of one product type
type ProductPricing struct {
	Tiers []Tier `json:"tiers"`
}

// Tier is a quantity bracket. MaxQty 0 means open-ended and is only valid on the last tier.
type Tier struct {
	Label  string                                `json:"label"`
	MinQty int                                   `json:"minQty"`
	MaxQty int                                   `json:"maxQty"`
	Prices map[models.Embroidery]decimal.Decimal `json:"prices"`
}

// AddOnPricing holds tiered unit prices for per-unit add-ons
type AddOnPricing struct {
	BackLogo []AddOnTier `json:"backLogo"`
	Names    []AddOnTier `json:"names"`
	PlusSize []AddOnTier `json:"plusSize"`
}

// AddOnTier is a quantity bracket keyed by the group's total quantity
type AddOnTier struct {
	MinQty int             `json:"minQty"`
	MaxQty int             `json:"maxQty"`
	Price  decimal.Decimal `json:"price"`
}

// FeeSchedule describes the one-time programming fees
type FeeSchedule struct {
	Logo                decimal.Decimal `json:"logo"`
	BackText            decimal.Decimal `json:"backText"`
	ClientOwnedLogo     decimal.Decimal `json:"clientOwnedLogo"`
	ClientOwnedBackText decimal.Decimal `json:"clientOwnedBackText"`
	// WaiveAtQuantity waives the regular fees once a group reaches this many pieces (0 = never)
	WaiveAtQuantity    int      `json:"waiveAtQuantity"`
	WaivedOrderTypes   []string `json:"waivedOrderTypes"`
	ExemptProductTypes []string `json:"exemptProductTypes"`
}

// ParseConfig decodes and validates a pricing catalog document
func ParseConfig(data []byte) (*PricingConfig, error) {
	var config PricingConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, invalidConfig("failed to parse pricing config: %v", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfigFile reads a pricing catalog from disk. Relative paths resolve against the working directory.
func LoadConfigFile(configPath string) (*PricingConfig, error) {
	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing config: %w", err)
	}
	return ParseConfig(data)
}

// DefaultConfig returns the bundled catalog used when no external catalog is available.
// Each call returns a fresh copy.
func DefaultConfig() *PricingConfig {
	config, err := ParseConfig(defaultPricingJSON)
	if err != nil {
		panic(fmt.Sprintf("bundled pricing config is invalid: %v", err))
	}
	return config
}

// DefaultConfigJSON returns the raw bundled catalog document
func DefaultConfigJSON() []byte {
	out := make([]byte, len(defaultPricingJSON))
	copy(out, defaultPricingJSON)
	return out
}

// Validate checks the catalog and sorts tiers ascending by MinQty
func (c *PricingConfig) Validate() error {
	if c.Currency == "" {
		return invalidConfig("currency is required")
	}
	if len(c.Products) == 0 {
		return invalidConfig("products are required")
	}

	for name, product := range c.Products {
		if len(product.Tiers) == 0 {
			return invalidConfig("product %q has no tiers", name)
		}
		sort.SliceStable(product.Tiers, func(i, j int) bool {
			return product.Tiers[i].MinQty < product.Tiers[j].MinQty
		})
		brackets := make([]bracket, len(product.Tiers))
		for i, tier := range product.Tiers {
			if len(tier.Prices) == 0 {
				return invalidConfig("product %q tier %q has no prices", name, tier.Label)
			}
			for embroidery := range tier.Prices {
				if !embroidery.Valid() {
					return invalidConfig("product %q tier %q has unknown embroidery %q", name, tier.Label, embroidery)
				}
			}
			brackets[i] = bracket{tier.MinQty, tier.MaxQty}
		}
		if err := checkBrackets(brackets); err != nil {
			return invalidConfig("product %q: %v", name, err)
		}
		c.Products[name] = product
	}

	addOns := map[string][]AddOnTier{
		models.AddOnBackLogo: c.AddOns.BackLogo,
		models.AddOnNames:    c.AddOns.Names,
		models.AddOnPlusSize: c.AddOns.PlusSize,
	}
	for name, tiers := range addOns {
		if len(tiers) == 0 {
			continue
		}
		sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinQty < tiers[j].MinQty })
		brackets := make([]bracket, len(tiers))
		for i, tier := range tiers {
			brackets[i] = bracket{tier.MinQty, tier.MaxQty}
		}
		if err := checkBrackets(brackets); err != nil {
			return invalidConfig("add-on %q: %v", name, err)
		}
	}

	for embroidery := range c.ClientOwned {
		if !embroidery.Valid() {
			return invalidConfig("clientOwned has unknown embroidery %q", embroidery)
		}
	}
	if c.ProgrammingFees.WaiveAtQuantity < 0 {
		return invalidConfig("programmingFees.waiveAtQuantity must not be negative")
	}
	return nil
}

// HasProduct reports whether the product type is catalogued or special-cased
func (c *PricingConfig) HasProduct(productType string) bool {
	if models.IsSpecialProductType(productType) {
		return true
	}
	_, ok := c.Products[productType]
	return ok
}

// IsFeeExempt reports whether a product type never pays programming fees
func (c *PricingConfig) IsFeeExempt(productType string) bool {
	if productType == models.ProductTypePatches {
		return true
	}
	return contains(c.ProgrammingFees.ExemptProductTypes, productType)
}

type bracket struct {
	min int
	max int
}

// checkBrackets verifies ascending, contiguous, non-overlapping brackets
func checkBrackets(brackets []bracket) error {
	for i, b := range brackets {
		if b.min < 1 {
			return fmt.Errorf("%w: bracket %d starts below 1", ErrMalformedCatalog, i)
		}
		last := i == len(brackets)-1
		if b.max == 0 && !last {
			return fmt.Errorf("%w: only the last bracket may be open-ended", ErrMalformedCatalog)
		}
		if b.max != 0 && b.max < b.min {
			return fmt.Errorf("%w: bracket %d-%d is inverted", ErrMalformedCatalog, b.min, b.max)
		}
		if i > 0 {
			prev := brackets[i-1]
			if b.min <= prev.max {
				return fmt.Errorf("%w: bracket %d-%d overlaps %d-%d", ErrMalformedCatalog, b.min, b.max, prev.min, prev.max)
			}
			if b.min != prev.max+1 {
				return fmt.Errorf("%w: gap between %d and %d", ErrMalformedCatalog, prev.max, b.min)
			}
		}
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// IsConfigError reports whether err came from catalog parsing or validation
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMalformedCatalog)
}

func contains(slice []string, value string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}
