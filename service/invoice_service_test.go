package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embroidery-backoffice/models"
	"embroidery-backoffice/pricing"
	"embroidery-backoffice/repository"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type invoiceFixture struct {
	svc      *InvoiceService
	orders   *fakeOrders
	payments *fakePayments
}

func newInvoiceFixture() *invoiceFixture {
	orders := newFakeOrders()
	payments := newFakePayments()
	svc := NewInvoiceService(staticCatalog{config: pricing.DefaultConfig()}, orders, payments)
	svc.now = func() time.Time { return fixedNow }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("pay-%d", seq)
	}
	return &invoiceFixture{svc: svc, orders: orders, payments: payments}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func jacketSession(orderID int64) *models.InvoiceSession {
	key := models.GroupKey("Executive Jacket 1", models.EmbroideryLogo)
	return &models.InvoiceSession{
		OrderID:   orderID,
		OrderType: models.OrderTypeRegular,
		Orders: []models.OrderLine{
			{ProductType: "Executive Jacket 1", Color: "Navy", Size: "M", Quantity: 5, Embroidery: models.EmbroideryLogo},
			{ProductType: "Executive Jacket 1", Color: "Navy", Size: "L", Quantity: 7, Embroidery: models.EmbroideryLogo},
		},
		AddOns:    map[string]models.AddOns{key: {BackLogo: 2}},
		Discounts: map[string]models.Discount{key: {Type: models.DiscountTypeFixed, Value: dec("100")}},
	}
}

func TestSaveSessionPersistsTotalsAndPrunesStaleEdits(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	session := jacketSession(42)
	session.RemovedFees = map[string]models.RemovedFees{"Cap-logo": {Logo: true}}
	session.Payments = []models.Payment{{Type: models.PaymentTypeFull, Amount: dec("99999")}}

	result, err := f.svc.SaveSession(ctx, session)
	require.NoError(t, err)

	assert.True(t, dec("10300").Equal(result.Invoice.GrandTotal))
	assert.True(t, dec("10300").Equal(result.Invoice.Balance))
	assert.Empty(t, result.Session.RemovedFees)
	assert.Empty(t, result.Session.Payments)

	totals := f.orders.totals[42]
	assert.True(t, dec("10300").Equal(totals.GrandTotal))
	assert.Equal(t, fixedNow, totals.ComputedAt)
	assert.NotNil(t, totals.Payments)
	assert.Contains(t, f.orders.sessions, int64(42))
}

func TestRecordPaymentUpdatesBalance(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	_, err := f.svc.SaveSession(ctx, jacketSession(42))
	require.NoError(t, err)

	result, err := f.svc.RecordPayment(ctx, 42, models.RecordPaymentRequest{
		Type:        models.PaymentTypeDown,
		Amount:      dec("5000"),
		Mode:        " GCash ",
		ProcessedBy: "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "pay-1", result.Payment.ID)
	assert.Equal(t, "GCash", result.Payment.Mode)
	assert.Equal(t, fixedNow.Format(time.RFC3339), result.Payment.Timestamp)
	assert.True(t, dec("5300").Equal(result.Invoice.Balance))

	totals := f.orders.totals[42]
	assert.Equal(t, models.PaymentTypeDown, totals.PaymentType)
	assert.True(t, dec("5000").Equal(totals.PaidAmount))
	assert.True(t, dec("5300").Equal(totals.Balance))
	require.Len(t, totals.Payments, 1)
}

func TestRecordPaymentItemSampleRules(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	session := jacketSession(7)
	session.OrderType = models.OrderTypeItemSample
	session.Discounts = nil
	_, err := f.svc.SaveSession(ctx, session)
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, 7, models.RecordPaymentRequest{Type: models.PaymentTypeDown, Amount: dec("500"), Mode: "Cash"})
	var notAllowed *models.ErrPaymentNotAllowed
	require.ErrorAs(t, err, &notAllowed)
	assert.Empty(t, f.payments.byOrder[7])

	result, err := f.svc.RecordPayment(ctx, 7, models.RecordPaymentRequest{Type: models.PaymentTypeSecurityDeposit, Amount: dec("1500"), Mode: "Cash"})
	require.NoError(t, err)
	assert.True(t, result.Invoice.GrandTotal.IsZero())
	assert.True(t, result.Invoice.Balance.IsZero())
	assert.Equal(t, models.PaymentTypeSecurityDeposit, f.orders.totals[7].PaymentType)
}

func TestRecordPaymentValidation(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()

	_, err := f.svc.RecordPayment(ctx, 42, models.RecordPaymentRequest{Type: models.PaymentTypeDown, Amount: dec("0"), Mode: "Cash"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.RecordPayment(ctx, 404, models.RecordPaymentRequest{Type: models.PaymentTypeDown, Amount: dec("10"), Mode: "Cash"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	_, err := f.svc.SaveSession(ctx, jacketSession(42))
	require.NoError(t, err)
	recorded, err := f.svc.RecordPayment(ctx, 42, models.RecordPaymentRequest{Type: models.PaymentTypeFull, Amount: dec("10300"), Mode: "Bank Transfer"})
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, 42, recorded.Payment.ID, models.VerifyPaymentRequest{VerifiedBy: "  "})
	require.ErrorIs(t, err, ErrValidation)

	verified, err := f.svc.VerifyPayment(ctx, 42, recorded.Payment.ID, models.VerifyPaymentRequest{VerifiedBy: "Marco"})
	require.NoError(t, err)
	assert.True(t, verified.Payment.Verified)
	assert.Equal(t, "Marco", verified.Payment.VerifiedBy)
	assert.True(t, verified.Invoice.Balance.IsZero())
	assert.True(t, f.orders.totals[42].Payments[0].Verified)

	_, err = f.svc.VerifyPayment(ctx, 42, "missing", models.VerifyPaymentRequest{VerifiedBy: "Marco"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveSessionRejectsOrderTypeConflictingWithPayments(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	_, err := f.svc.SaveSession(ctx, jacketSession(42))
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, 42, models.RecordPaymentRequest{Type: models.PaymentTypeDown, Amount: dec("100"), Mode: "Cash"})
	require.NoError(t, err)

	session := jacketSession(42)
	session.OrderType = models.OrderTypeItemSample
	_, err = f.svc.SaveSession(ctx, session)
	var notAllowed *models.ErrPaymentNotAllowed
	require.ErrorAs(t, err, &notAllowed)
}

func TestComputeAndQuote(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	session := jacketSession(0)
	session.Payments = []models.Payment{{Type: models.PaymentTypeDown, Amount: dec("5000"), Mode: "Cash"}}

	invoice, err := f.svc.Compute(ctx, session)
	require.NoError(t, err)
	assert.True(t, dec("5300").Equal(invoice.Balance))

	quote, err := f.svc.Quote(ctx, session)
	require.NoError(t, err)
	assert.True(t, dec("10300").Equal(quote.Balance))

	session.Orders[0].Quantity = 0
	session.Orders = session.Orders[:1]
	_, err = f.svc.Compute(ctx, session)
	require.Error(t, err)
	assert.True(t, pricing.IsLookupError(err))
	assert.Empty(t, f.orders.totals)
}
