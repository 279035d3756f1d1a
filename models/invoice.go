package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Add-on names used in breakdown lines and add-on price override keys
const (
	AddOnBackLogo = "backLogo"
	AddOnNames    = "names"
	AddOnPlusSize = "plusSize"
)

// AddOns holds the per-group add-on counts and flat fees
// Example: {"backLogo": 2, "names": 0, "plusSize": 1, "rushFee": 500, "shippingFee": 0}
type AddOns struct {
	BackLogo              int             `json:"backLogo"`
	Names                 int             `json:"names"`
	PlusSize              int             `json:"plusSize"`
	RushFee               decimal.Decimal `json:"rushFee"`
	ShippingFee           decimal.Decimal `json:"shippingFee"`
	LogoProgramming       decimal.Decimal `json:"logoProgramming"`
	BackDesignProgramming decimal.Decimal `json:"backDesignProgramming"`
	HoldingFee            decimal.Decimal `json:"holdingFee"`
}

// DiscountType is either percentage or fixed
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Discount is the optional per-group discount
// Example: {"type": "percentage", "value": 10, "reason": "Loyal client"}
type Discount struct {
	Type   DiscountType    `json:"type" validate:"required,oneof=percentage fixed"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason,omitempty"`
}

// ProgrammingFeeOverride holds manually typed programming fees; nil means not overridden
type ProgrammingFeeOverride struct {
	LogoFee     *decimal.Decimal `json:"logoFee,omitempty"`
	BackTextFee *decimal.Decimal `json:"backTextFee,omitempty"`
}

// PriceOverrides layers manual edits on top of catalog prices.
// UnitPrice and ProgrammingFee are keyed by group key, AddOnPrice by AddOnPriceKey.
type PriceOverrides struct {
	UnitPrice      map[string]decimal.Decimal        `json:"unitPrice,omitempty"`
	AddOnPrice     map[string]decimal.Decimal        `json:"addOnPrice,omitempty"`
	ProgrammingFee map[string]ProgrammingFeeOverride `json:"programmingFee,omitempty"`
}

// AddOnPriceKey returns the override key for an add-on of a group
func AddOnPriceKey(groupKey, addOn string) string {
	return groupKey + "-" + addOn
}

// RemovedFees marks one-time programming fees removed for a group
type RemovedFees struct {
	Logo     bool `json:"logo,omitempty"`
	BackText bool `json:"backText,omitempty"`
}

// InvoiceSession is the full editable state of one order's invoice
type InvoiceSession struct {
	OrderID     int64                  `json:"orderId,omitempty"`
	OrderType   OrderType              `json:"orderType" validate:"required"`
	Orders      []OrderLine            `json:"orders" validate:"dive"`
	AddOns      map[string]AddOns      `json:"addOns,omitempty"`
	Discounts   map[string]Discount    `json:"discounts,omitempty" validate:"dive"`
	Overrides   PriceOverrides         `json:"priceOverrides"`
	RemovedFees map[string]RemovedFees `json:"removedFees,omitempty"`
	Payments    []Payment              `json:"payments,omitempty" validate:"dive"`
	UpdatedAt   string                 `json:"updatedAt,omitempty"`
}

// InvoiceTotals is written back onto the order record after a save
// Example: {"grandTotal": 10300, "balance": 5300, "paidAmount": 5000, "paymentType": "down", "payments": [...]}
type InvoiceTotals struct {
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	Balance     decimal.Decimal `json:"balance"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	PaymentType PaymentType     `json:"paymentType,omitempty"`
	Payments    []Payment       `json:"payments"`
	ComputedAt  time.Time       `json:"computedAt"`
}
