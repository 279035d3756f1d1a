package service

import (
	"context"

	"embroidery-backoffice/models"
	"embroidery-backoffice/pricing"
)

// InvoiceServiceInterface defines the contract for invoice computation and order totals
type InvoiceServiceInterface interface {
	Compute(ctx context.Context, session *models.InvoiceSession) (*pricing.Invoice, error)
	Quote(ctx context.Context, session *models.InvoiceSession) (*pricing.Invoice, error)
	GetInvoice(ctx context.Context, orderID int64) (*InvoiceResult, error)
	SaveSession(ctx context.Context, session *models.InvoiceSession) (*InvoiceResult, error)
	RecordPayment(ctx context.Context, orderID int64, req models.RecordPaymentRequest) (*PaymentResult, error)
	VerifyPayment(ctx context.Context, orderID int64, paymentID string, req models.VerifyPaymentRequest) (*PaymentResult, error)
}

// InvoiceDocumentServiceInterface defines the contract for invoice HTML and PDF documents
type InvoiceDocumentServiceInterface interface {
	RenderHTML(ctx context.Context, orderID int64) (string, error)
	GeneratePDF(ctx context.Context, orderID int64) ([]byte, error)
	ArchivePDF(ctx context.Context, orderID int64, pdf []byte) (string, error)
}

// PricingCatalogServiceInterface defines the contract for reading and replacing the pricing catalog
type PricingCatalogServiceInterface interface {
	Current(ctx context.Context) (*pricing.PricingConfig, string)
	Save(ctx context.Context, raw []byte) (*pricing.PricingConfig, error)
}

// Ensure the services implement their interfaces
var (
	_ InvoiceServiceInterface         = (*InvoiceService)(nil)
	_ InvoiceDocumentServiceInterface = (*InvoiceDocumentService)(nil)
	_ PricingCatalogServiceInterface  = (*PricingCatalogService)(nil)
)
