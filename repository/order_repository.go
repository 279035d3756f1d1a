package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"embroidery-backoffice/db"
	"embroidery-backoffice/models"
)

// OrderRepository handles database operations for the invoice data of orders
type OrderRepository struct{}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// GetSession loads the stored invoice session of an order.
// Orders that were never invoiced return an empty session with the order type set.
func (r *OrderRepository) GetSession(ctx context.Context, orderID int64) (*models.InvoiceSession, error) {
	query := `
		SELECT order_type, invoice_session, updated_at
		FROM orders
		WHERE id = $1
	`

	var orderType string
	var raw []byte
	var updatedAt time.Time
	err := db.DB.QueryRowContext(ctx, query, orderID).Scan(&orderType, &raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int64("orderId", orderID).Msg("❌ GetInvoiceSession: query failed")
		return nil, fmt.Errorf("failed to get invoice session: %w", err)
	}

	session := &models.InvoiceSession{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, session); err != nil {
			return nil, fmt.Errorf("failed to decode invoice session of order %d: %w", orderID, err)
		}
	}
	session.OrderID = orderID
	session.OrderType = models.OrderType(orderType)
	session.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return session, nil
}

// SaveSession stores the invoice session, creating the order record when it does not exist yet.
// Payments are not part of the stored session; they live in order_payments.
func (r *OrderRepository) SaveSession(ctx context.Context, session *models.InvoiceSession) error {
	stored := *session
	stored.Payments = nil
	stored.UpdatedAt = ""
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode invoice session: %w", err)
	}

	query := `
		INSERT INTO orders (id, order_type, invoice_session, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET order_type = EXCLUDED.order_type,
		    invoice_session = EXCLUDED.invoice_session,
		    updated_at = NOW()
	`
	if _, err := db.DB.ExecContext(ctx, query, session.OrderID, string(session.OrderType), raw); err != nil {
		log.Error().Err(err).Int64("orderId", session.OrderID).Msg("❌ SaveInvoiceSession: failed")
		return fmt.Errorf("failed to save invoice session: %w", err)
	}

	log.Info().Int64("orderId", session.OrderID).Int("lines", len(session.Orders)).Msg("✅ SaveInvoiceSession: saved")
	return nil
}

// SaveTotals writes the computed totals and payment list back onto the order record
func (r *OrderRepository) SaveTotals(ctx context.Context, orderID int64, totals models.InvoiceTotals) error {
	payments, err := json.Marshal(totals.Payments)
	if err != nil {
		return fmt.Errorf("failed to encode payments: %w", err)
	}

	query := `
		UPDATE orders
		SET grand_total = $2,
		    balance = $3,
		    paid_amount = $4,
		    payment_type = $5,
		    payments = $6,
		    totals_computed_at = $7,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := db.DB.ExecContext(ctx, query,
		orderID,
		totals.GrandTotal,
		totals.Balance,
		totals.PaidAmount,
		sql.NullString{String: string(totals.PaymentType), Valid: totals.PaymentType != ""},
		payments,
		totals.ComputedAt,
	)
	if err != nil {
		log.Error().Err(err).Int64("orderId", orderID).Msg("❌ SaveInvoiceTotals: failed")
		return fmt.Errorf("failed to save invoice totals: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	log.Info().
		Int64("orderId", orderID).
		Str("grandTotal", totals.GrandTotal.String()).
		Str("balance", totals.Balance.String()).
		Msg("💰 SaveInvoiceTotals: saved")
	return nil
}
