package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/models"
	"embroidery-backoffice/pricing"
	"embroidery-backoffice/repository"
)

// InvoiceResult pairs a stored invoice session with its freshly computed invoice
type InvoiceResult struct {
	Session *models.InvoiceSession `json:"session"`
	Invoice *pricing.Invoice       `json:"invoice"`
}

// PaymentResult is returned after a payment is recorded or verified
type PaymentResult struct {
	Payment *models.Payment  `json:"payment"`
	Invoice *pricing.Invoice `json:"invoice"`
}

// InvoiceService computes invoices and keeps order totals in sync with sessions and payments
type InvoiceService struct {
	catalog  CatalogProvider
	orders   repository.OrderRepositoryInterface
	payments repository.PaymentRepositoryInterface
	now      func() time.Time
	newID    func() string
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	catalog CatalogProvider,
	orders repository.OrderRepositoryInterface,
	payments repository.PaymentRepositoryInterface,
) *InvoiceService {
	return &InvoiceService{
		catalog:  catalog,
		orders:   orders,
		payments: payments,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Compute prices a full session without touching storage
func (s *InvoiceService) Compute(ctx context.Context, session *models.InvoiceSession) (*pricing.Invoice, error) {
	engine, err := s.catalog.Engine(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePayments(session.OrderType, session.Payments); err != nil {
		return nil, err
	}
	return engine.Compute(pricing.InputFromSession(session))
}

// Quote prices the staged order lines of a quotation; payments are ignored
func (s *InvoiceService) Quote(ctx context.Context, session *models.InvoiceSession) (*pricing.Invoice, error) {
	engine, err := s.catalog.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Quote(pricing.InputFromSession(session))
}

// GetInvoice loads an order's session with its payments and computes the invoice
func (s *InvoiceService) GetInvoice(ctx context.Context, orderID int64) (*InvoiceResult, error) {
	session, err := s.loadSession(ctx, orderID)
	if err != nil {
		return nil, err
	}

	engine, err := s.catalog.Engine(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := engine.Compute(pricing.InputFromSession(session))
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Session: session, Invoice: invoice}, nil
}

// SaveSession stores an edited session and writes the recomputed totals back onto the order.
// Per-group edits for groups that no longer exist are dropped before saving.
// Payments in the request are ignored; the recorded payment list is authoritative.
func (s *InvoiceService) SaveSession(ctx context.Context, session *models.InvoiceSession) (*InvoiceResult, error) {
	engine, err := s.catalog.Engine(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByOrder(ctx, session.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	if err := validatePayments(session.OrderType, payments); err != nil {
		return nil, err
	}
	session.Payments = payments

	if dropped := pricing.PruneStaleGroupState(session, engine.Config()); len(dropped) > 0 {
		log.Info().Int64("orderId", session.OrderID).Strs("keys", dropped).Msg("Invoice: dropped edits for groups no longer in the order")
	}

	invoice, err := engine.Compute(pricing.InputFromSession(session))
	if err != nil {
		return nil, err
	}

	if err := s.orders.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	if err := s.saveTotals(ctx, session.OrderID, invoice); err != nil {
		return nil, err
	}

	log.Info().
		Int64("orderId", session.OrderID).
		Str("grandTotal", invoice.GrandTotal.String()).
		Str("balance", invoice.Balance.String()).
		Msg("✅ Invoice: session saved")
	return &InvoiceResult{Session: session, Invoice: invoice}, nil
}

// RecordPayment appends a payment to an order and refreshes its totals
func (s *InvoiceService) RecordPayment(ctx context.Context, orderID int64, req models.RecordPaymentRequest) (*PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, validationError("amount must be greater than 0")
	}

	session, err := s.loadSession(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:          s.newID(),
		OrderID:     orderID,
		Type:        req.Type,
		Amount:      req.Amount,
		Mode:        strings.TrimSpace(req.Mode),
		ProcessedBy: strings.TrimSpace(req.ProcessedBy),
		Reference:   strings.TrimSpace(req.Reference),
		Timestamp:   s.now().UTC().Format(time.RFC3339),
	}
	if err := models.ValidatePaymentForOrder(session.OrderType, *payment); err != nil {
		log.Warn().Err(err).Int64("orderId", orderID).Msg("❌ Invoice: payment rejected")
		return nil, err
	}

	created, err := s.payments.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	invoice, err := s.refreshTotals(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: created, Invoice: invoice}, nil
}

// VerifyPayment marks a recorded payment as verified
func (s *InvoiceService) VerifyPayment(ctx context.Context, orderID int64, paymentID string, req models.VerifyPaymentRequest) (*PaymentResult, error) {
	verifiedBy := strings.TrimSpace(req.VerifiedBy)
	if verifiedBy == "" {
		return nil, validationError("verifiedBy is required")
	}

	payment, err := s.payments.Verify(ctx, orderID, paymentID, verifiedBy, s.now().UTC())
	if err != nil {
		return nil, err
	}

	invoice, err := s.refreshTotals(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: payment, Invoice: invoice}, nil
}

func (s *InvoiceService) loadSession(ctx context.Context, orderID int64) (*models.InvoiceSession, error) {
	session, err := s.orders.GetSession(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice session: %w", err)
	}
	payments, err := s.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	session.Payments = payments
	return session, nil
}

func (s *InvoiceService) refreshTotals(ctx context.Context, orderID int64) (*pricing.Invoice, error) {
	result, err := s.GetInvoice(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.saveTotals(ctx, orderID, result.Invoice); err != nil {
		return nil, err
	}
	return result.Invoice, nil
}

func (s *InvoiceService) saveTotals(ctx context.Context, orderID int64, invoice *pricing.Invoice) error {
	totals := invoice.Totals()
	totals.ComputedAt = s.now().UTC()
	return s.orders.SaveTotals(ctx, orderID, totals)
}

func validatePayments(orderType models.OrderType, payments []models.Payment) error {
	for _, p := range payments {
		if err := models.ValidatePaymentForOrder(orderType, p); err != nil {
			return err
		}
	}
	return nil
}
