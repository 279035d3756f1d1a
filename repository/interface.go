package repository

import (
	"context"
	"errors"
	"time"

	"embroidery-backoffice/models"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = errors.New("not found")

// PricingDocumentRepositoryInterface defines the contract for pricing catalog document storage
type PricingDocumentRepositoryInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Upsert(ctx context.Context, key string, document []byte) error
}

// OrderRepositoryInterface defines the contract for invoice session and totals storage on order records
type OrderRepositoryInterface interface {
	GetSession(ctx context.Context, orderID int64) (*models.InvoiceSession, error)
	SaveSession(ctx context.Context, session *models.InvoiceSession) error
	SaveTotals(ctx context.Context, orderID int64, totals models.InvoiceTotals) error
}

// PaymentRepositoryInterface defines the contract for the append-only payment list of an order
type PaymentRepositoryInterface interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]models.Payment, error)
	Verify(ctx context.Context, orderID int64, paymentID, verifiedBy string, at time.Time) (*models.Payment, error)
}
