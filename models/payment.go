package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentType classifies money received for an order
type PaymentType string

const (
	PaymentTypeDown            PaymentType = "down"
	PaymentTypeFull            PaymentType = "full"
	PaymentTypeBalance         PaymentType = "balance"
	PaymentTypeAdditional      PaymentType = "additional"
	PaymentTypeSecurityDeposit PaymentType = "securityDeposit"
)

// Payment represents money received for an order. Payments are append-only.
// Example: {"type": "down", "amount": 5000, "mode": "GCash", "processedBy": "Ana"}
type Payment struct {
	ID          string          `json:"id,omitempty"`
	OrderID     int64           `json:"orderId,omitempty"`
	Type        PaymentType     `json:"type" validate:"required,oneof=down full balance additional securityDeposit"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode" validate:"required"`
	ProcessedBy string          `json:"processedBy,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"` // RFC3339
	Reference   string          `json:"reference,omitempty"`
	Verified    bool            `json:"verified"`
	VerifiedBy  string          `json:"verifiedBy,omitempty"`
	VerifiedAt  string          `json:"verifiedAt,omitempty"`
}

// ErrPaymentNotAllowed is returned when a payment type is not accepted for the order type
type ErrPaymentNotAllowed struct {
	OrderType OrderType
	Type      PaymentType
}

func (e *ErrPaymentNotAllowed) Error() string {
	return fmt.Sprintf("payment type %q is not allowed for %q orders", e.Type, e.OrderType)
}

// ValidatePaymentForOrder rejects payments an order type cannot receive.
// Item samples are never billed, so the only money they take is a security deposit.
func ValidatePaymentForOrder(orderType OrderType, p Payment) error {
	if orderType.IsItemSample() && p.Type != PaymentTypeSecurityDeposit {
		return &ErrPaymentNotAllowed{OrderType: orderType, Type: p.Type}
	}
	return nil
}

// RecordPaymentRequest represents the request body for recording a payment
// Example: {"type": "down", "amount": 5000, "mode": "Bank Transfer", "processedBy": "Ana", "reference": "BT-1029"}
type RecordPaymentRequest struct {
	Type        PaymentType     `json:"type" validate:"required,oneof=down full balance additional securityDeposit"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode" validate:"required"`
	ProcessedBy string          `json:"processedBy"`
	Reference   string          `json:"reference,omitempty"`
}

// VerifyPaymentRequest represents the request body for verifying a payment
type VerifyPaymentRequest struct {
	VerifiedBy string `json:"verifiedBy" validate:"required"`
}
