package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"embroidery-backoffice/models"
	"embroidery-backoffice/pricing"
	"embroidery-backoffice/repository"
)

type fakeDocuments struct {
	mu      sync.Mutex
	docs    map[string][]byte
	getErr  error
	upserts int
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[string][]byte{}}
}

func (f *fakeDocuments) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocuments) Upsert(ctx context.Context, key string, document []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[key] = document
	f.upserts++
	return nil
}

type fakeSource struct {
	name   string
	config *pricing.PricingConfig
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(ctx context.Context) (*pricing.PricingConfig, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.config, nil
}

type fakeDrive struct {
	files    map[string][]byte
	uploaded map[string][]byte
}

func (f *fakeDrive) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("drive: file not found")
	}
	return data, nil
}

func (f *fakeDrive) UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[folderID+"/"+name] = data
	return "drive-" + name, nil
}

type staticCatalog struct {
	config *pricing.PricingConfig
}

func (s staticCatalog) Engine(ctx context.Context) (*pricing.Engine, error) {
	return pricing.NewEngine(s.config)
}

type fakeOrders struct {
	sessions map[int64]*models.InvoiceSession
	totals   map[int64]models.InvoiceTotals
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{sessions: map[int64]*models.InvoiceSession{}, totals: map[int64]models.InvoiceTotals{}}
}

func (f *fakeOrders) GetSession(ctx context.Context, orderID int64) (*models.InvoiceSession, error) {
	session, ok := f.sessions[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	copied.Payments = nil
	return &copied, nil
}

func (f *fakeOrders) SaveSession(ctx context.Context, session *models.InvoiceSession) error {
	copied := *session
	f.sessions[session.OrderID] = &copied
	return nil
}

func (f *fakeOrders) SaveTotals(ctx context.Context, orderID int64, totals models.InvoiceTotals) error {
	if _, ok := f.sessions[orderID]; !ok {
		return repository.ErrNotFound
	}
	f.totals[orderID] = totals
	return nil
}

type fakePayments struct {
	byOrder map[int64][]models.Payment
}

func newFakePayments() *fakePayments {
	return &fakePayments{byOrder: map[int64][]models.Payment{}}
}

func (f *fakePayments) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	f.byOrder[payment.OrderID] = append(f.byOrder[payment.OrderID], *payment)
	created := *payment
	return &created, nil
}

func (f *fakePayments) ListByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	return append([]models.Payment{}, f.byOrder[orderID]...), nil
}

func (f *fakePayments) Verify(ctx context.Context, orderID int64, paymentID, verifiedBy string, at time.Time) (*models.Payment, error) {
	payments := f.byOrder[orderID]
	for i := range payments {
		if payments[i].ID == paymentID {
			payments[i].Verified = true
			payments[i].VerifiedBy = verifiedBy
			payments[i].VerifiedAt = at.Format(time.RFC3339)
			verified := payments[i]
			return &verified, nil
		}
	}
	return nil, repository.ErrNotFound
}
