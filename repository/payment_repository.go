package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"embroidery-backoffice/db"
	"embroidery-backoffice/models"
)

// PaymentRepository handles database operations for order payments
type PaymentRepository struct{}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Ensure PaymentRepository implements PaymentRepositoryInterface
var _ PaymentRepositoryInterface = (*PaymentRepository)(nil)

const paymentColumns = `id, order_id, type, amount, mode, processed_by, reference, verified, verified_by, verified_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create appends a payment to an order. ID and Timestamp must already be set.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	log.Info().
		Int64("orderId", payment.OrderID).
		Str("type", string(payment.Type)).
		Str("amount", payment.Amount.String()).
		Msg("💰 CreatePayment")

	createdAt := time.Now().UTC()
	if payment.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, payment.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp format, use RFC3339 (e.g., 2006-01-02T15:04:05Z07:00): %w", err)
		}
		createdAt = parsed
	}

	query := `
		INSERT INTO order_payments (id, order_id, type, amount, mode, processed_by, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns

	created, err := scanPayment(db.DB.QueryRowContext(ctx, query,
		payment.ID,
		payment.OrderID,
		string(payment.Type),
		payment.Amount,
		payment.Mode,
		nullString(payment.ProcessedBy),
		nullString(payment.Reference),
		createdAt,
	))
	if err != nil {
		log.Error().Err(err).Int64("orderId", payment.OrderID).Msg("❌ CreatePayment: insert failed")
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	log.Info().Str("paymentId", created.ID).Msg("✅ CreatePayment: created")
	return created, nil
}

// ListByOrder returns the payments of an order in the order they were recorded
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM order_payments WHERE order_id = $1 ORDER BY seq`

	rows, err := db.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// Verify marks a payment as verified. Verifying twice keeps the first verification.
func (r *PaymentRepository) Verify(ctx context.Context, orderID int64, paymentID, verifiedBy string, at time.Time) (*models.Payment, error) {
	query := `
		UPDATE order_payments
		SET verified = TRUE,
		    verified_by = COALESCE(verified_by, $3),
		    verified_at = COALESCE(verified_at, $4)
		WHERE order_id = $1 AND id = $2
		RETURNING ` + paymentColumns

	p, err := scanPayment(db.DB.QueryRowContext(ctx, query, orderID, paymentID, verifiedBy, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("paymentId", paymentID).Msg("❌ VerifyPayment: update failed")
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	log.Info().Str("paymentId", paymentID).Str("verifiedBy", p.VerifiedBy).Msg("✅ VerifyPayment: verified")
	return p, nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	var paymentType string
	var processedBy, reference, verifiedBy sql.NullString
	var verifiedAt sql.NullTime
	var createdAt time.Time

	if err := row.Scan(
		&p.ID,
		&p.OrderID,
		&paymentType,
		&p.Amount,
		&p.Mode,
		&processedBy,
		&reference,
		&p.Verified,
		&verifiedBy,
		&verifiedAt,
		&createdAt,
	); err != nil {
		return nil, err
	}

	p.Type = models.PaymentType(paymentType)
	p.ProcessedBy = processedBy.String
	p.Reference = reference.String
	p.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid {
		p.VerifiedAt = verifiedAt.Time.UTC().Format(time.RFC3339)
	}
	p.Timestamp = createdAt.UTC().Format(time.RFC3339)
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
