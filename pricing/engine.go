package pricing

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

// InvoiceInput is everything the engine needs to price one order
type InvoiceInput struct {
	Orders      []models.OrderLine
	OrderType   models.OrderType
	AddOns      map[string]models.AddOns
	Discounts   map[string]models.Discount
	Payments    []models.Payment
	Overrides   models.PriceOverrides
	RemovedFees map[string]models.RemovedFees
}

// InputFromSession builds engine input from a stored invoice session
func InputFromSession(s *models.InvoiceSession) InvoiceInput {
	return InvoiceInput{
		Orders:      s.Orders,
		OrderType:   s.OrderType,
		AddOns:      s.AddOns,
		Discounts:   s.Discounts,
		Payments:    s.Payments,
		Overrides:   s.Overrides,
		RemovedFees: s.RemovedFees,
	}
}

// Invoice is the computed result: per-group breakdown, grand total and balance
type Invoice struct {
	Currency   string             `json:"currency"`
	OrderType  models.OrderType   `json:"orderType"`
	Groups     []GroupBreakdown   `json:"groups"`
	Skipped    []models.OrderLine `json:"skipped,omitempty"`
	GrandTotal decimal.Decimal    `json:"grandTotal"`
	TotalPaid  decimal.Decimal    `json:"totalPaid"`
	Balance    decimal.Decimal    `json:"balance"`
	Payments   []models.Payment   `json:"payments"`
}

// Totals returns the values persisted on the order record
func (inv *Invoice) Totals() models.InvoiceTotals {
	payments := inv.Payments
	if payments == nil {
		payments = []models.Payment{}
	}
	return models.InvoiceTotals{
		GrandTotal:  inv.GrandTotal,
		Balance:     inv.Balance,
		PaidAmount:  inv.TotalPaid,
		PaymentType: LatestPaymentType(inv.Payments),
		Payments:    payments,
	}
}

// Engine prices invoices against an injected, read-only catalog
type Engine struct {
	config *PricingConfig
}

// NewEngine creates a pricing engine for a validated catalog
func NewEngine(config *PricingConfig) (*Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{config: config}, nil
}

// Config returns the catalog the engine prices against
func (e *Engine) Config() *PricingConfig {
	return e.config
}

// Compute runs the full pipeline: aggregate, price each group, apply discounts, total and balance.
// Inputs are never mutated; every call derives a fresh result.
func (e *Engine) Compute(in InvoiceInput) (*Invoice, error) {
	groups, skipped := Aggregate(in.Orders, e.config)
	for _, s := range skipped {
		log.Warn().Str("productType", s.ProductType).Int("quantity", s.Quantity).Msg("⚠️ Pricing: skipping line with unknown product type")
	}

	invoice := &Invoice{
		Currency:  e.config.Currency,
		OrderType: in.OrderType,
		Groups:    make([]GroupBreakdown, 0, len(groups)),
		Skipped:   skipped,
		Payments:  in.Payments,
	}

	for _, group := range groups {
		breakdown, err := ComputeGroupSubtotal(e.config, group, groupInputs(in, group.Key), in.OrderType)
		if err != nil {
			return nil, fmt.Errorf("failed to price group %s: %w", group.Key, err)
		}
		invoice.Groups = append(invoice.Groups, breakdown)
	}

	invoice.GrandTotal = Accumulate(invoice.Groups)
	invoice.TotalPaid = TotalPaid(in.Payments)
	invoice.Balance = ComputeBalance(invoice.GrandTotal, in.Payments, in.OrderType)

	log.Debug().
		Int("groups", len(invoice.Groups)).
		Str("grandTotal", invoice.GrandTotal.String()).
		Str("balance", invoice.Balance.String()).
		Msg("💰 Pricing: invoice computed")
	return invoice, nil
}

// Quote prices the orders without any payments (quotation summary)
func (e *Engine) Quote(in InvoiceInput) (*Invoice, error) {
	in.Payments = nil
	return e.Compute(in)
}

func groupInputs(in InvoiceInput, key string) GroupInputs {
	gi := GroupInputs{
		AddOns:      in.AddOns[key],
		FeeOverride: in.Overrides.ProgrammingFee[key],
		Removed:     in.RemovedFees[key],
	}
	if d, ok := in.Discounts[key]; ok {
		discount := d
		gi.Discount = &discount
	}
	if price, ok := in.Overrides.UnitPrice[key]; ok {
		p := price
		gi.UnitPriceOverride = &p
	}
	for _, addOn := range []string{models.AddOnBackLogo, models.AddOnNames, models.AddOnPlusSize} {
		if price, ok := in.Overrides.AddOnPrice[models.AddOnPriceKey(key, addOn)]; ok {
			if gi.AddOnPriceOverrides == nil {
				gi.AddOnPriceOverrides = make(map[string]decimal.Decimal)
			}
			gi.AddOnPriceOverrides[addOn] = price
		}
	}
	return gi
}

// PruneStaleGroupState drops per-group edits whose group key no longer exists in the session.
// Group identity is only stable within one editing session, so state for vanished groups is not persisted.
// It returns the keys that were dropped.
func PruneStaleGroupState(session *models.InvoiceSession, config *PricingConfig) []string {
	groups, _ := Aggregate(session.Orders, config)
	live := GroupKeys(groups)
	var dropped []string

	for key := range session.RemovedFees {
		if !live[key] {
			delete(session.RemovedFees, key)
			dropped = append(dropped, key)
		}
	}
	for key := range session.Overrides.ProgrammingFee {
		if !live[key] {
			delete(session.Overrides.ProgrammingFee, key)
			dropped = append(dropped, key)
		}
	}
	for key := range session.Overrides.UnitPrice {
		if !live[key] {
			delete(session.Overrides.UnitPrice, key)
			dropped = append(dropped, key)
		}
	}
	for key := range session.Overrides.AddOnPrice {
		if !liveAddOnKey(live, key) {
			delete(session.Overrides.AddOnPrice, key)
			dropped = append(dropped, key)
		}
	}
	for key := range session.AddOns {
		if !live[key] {
			delete(session.AddOns, key)
			dropped = append(dropped, key)
		}
	}
	for key := range session.Discounts {
		if !live[key] {
			delete(session.Discounts, key)
			dropped = append(dropped, key)
		}
	}
	return dropped
}

func liveAddOnKey(live map[string]bool, key string) bool {
	for groupKey := range live {
		for _, addOn := range []string{models.AddOnBackLogo, models.AddOnNames, models.AddOnPlusSize} {
			if models.AddOnPriceKey(groupKey, addOn) == key {
				return true
			}
		}
	}
	return false
}
