package models

import "github.com/shopspring/decimal"

// OrderType identifies how an order is billed
type OrderType string

const (
	OrderTypeRegular    OrderType = "Regular Order"
	OrderTypeRush       OrderType = "Rush Order"
	OrderTypeReorder    OrderType = "Reorder"
	OrderTypeItemSample OrderType = "Item Sample"
)

// IsItemSample reports whether the order is a sample (item never billed)
func (t OrderType) IsItemSample() bool {
	return t == OrderTypeItemSample
}

// Embroidery is the embroidery option chosen for a line item
type Embroidery string

const (
	EmbroideryLogo        Embroidery = "logo"
	EmbroideryLogoAndText Embroidery = "logoAndText"
	EmbroideryName        Embroidery = "name"
)

// Valid reports whether e is one of the known embroidery options
func (e Embroidery) Valid() bool {
	switch e {
	case EmbroideryLogo, EmbroideryLogoAndText, EmbroideryName:
		return true
	}
	return false
}

// Product types that bypass the tier table
const (
	ProductTypeClientOwned = "Client Owned"
	ProductTypePatches     = "Patches"
)

// IsSpecialProductType reports whether productType is priced outside the tier table
func IsSpecialProductType(productType string) bool {
	return productType == ProductTypeClientOwned || productType == ProductTypePatches
}

// OrderLine represents one staged line item of an order
// Example: {"productType": "Executive Jacket 1", "color": "Navy", "size": "L", "quantity": 5, "embroidery": "logo"}
type OrderLine struct {
	ProductType   string           `json:"productType" validate:"required"`
	Color         string           `json:"color"`
	Size          string           `json:"size"`
	Quantity      int              `json:"quantity" validate:"gt=0"`
	Embroidery    Embroidery       `json:"embroidery,omitempty" validate:"omitempty,oneof=logo logoAndText name"`
	PricePerPatch *decimal.Decimal `json:"pricePerPatch,omitempty"`
}

// EmbroideryOrDefault returns the line's embroidery option, defaulting to logo
func (o OrderLine) EmbroideryOrDefault() Embroidery {
	if o.Embroidery == "" {
		return EmbroideryLogo
	}
	return o.Embroidery
}

// GroupKey returns the pricing group key for the line: productType-embroidery
func (o OrderLine) GroupKey() string {
	return GroupKey(o.ProductType, o.EmbroideryOrDefault())
}

// GroupKey builds the key shared by all lines with the same product type and embroidery option
func GroupKey(productType string, embroidery Embroidery) string {
	if embroidery == "" {
		embroidery = EmbroideryLogo
	}
	return productType + "-" + string(embroidery)
}
