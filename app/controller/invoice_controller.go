package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/models"
	"embroidery-backoffice/service"
)

// InvoiceController handles HTTP requests for invoice computation, sessions and documents
type InvoiceController struct {
	invoices  service.InvoiceServiceInterface
	documents service.InvoiceDocumentServiceInterface
	validate  *validator.Validate
}

// NewInvoiceController creates a new InvoiceController
func NewInvoiceController(
	invoices service.InvoiceServiceInterface,
	documents service.InvoiceDocumentServiceInterface,
	validate *validator.Validate,
) *InvoiceController {
	return &InvoiceController{
		invoices:  invoices,
		documents: documents,
		validate:  validate,
	}
}

// Compute handles POST /admin/invoices/compute
// Example request:
// POST /admin/invoices/compute
//
//	{
//	  "orderType": "Regular Order",
//	  "orders": [{"productType": "Executive Jacket 1", "quantity": 12, "embroidery": "logo"}],
//	  "addOns": {"Executive Jacket 1-logo": {"backLogo": 2}},
//	  "discounts": {"Executive Jacket 1-logo": {"type": "fixed", "value": 100}},
//	  "payments": [{"type": "down", "amount": 5000, "mode": "GCash"}]
//	}
//
// Example response:
//
//	{"currency": "PHP", "groups": [...], "grandTotal": 10300, "totalPaid": 5000, "balance": 5300}
func (c *InvoiceController) Compute(w http.ResponseWriter, r *http.Request) {
	var session models.InvoiceSession
	if !decodeJSON(w, r, &session) || !validateRequest(w, c.validate, &session) {
		return
	}

	invoice, err := c.invoices.Compute(r.Context(), &session)
	if err != nil {
		writeServiceError(w, "ComputeInvoice", err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// Quote handles POST /admin/quotations/compute
// Same body as Compute; payments are ignored and the balance equals the grand total.
func (c *InvoiceController) Quote(w http.ResponseWriter, r *http.Request) {
	var session models.InvoiceSession
	if !decodeJSON(w, r, &session) || !validateRequest(w, c.validate, &session) {
		return
	}

	quote, err := c.invoices.Quote(r.Context(), &session)
	if err != nil {
		writeServiceError(w, "ComputeQuotation", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// GetInvoice handles GET /admin/orders/{orderId}/invoice
// Example response:
//
//	{"session": {"orderId": 42, "orderType": "Regular Order", ...}, "invoice": {"grandTotal": 10300, ...}}
func (c *InvoiceController) GetInvoice(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	result, err := c.invoices.GetInvoice(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "GetInvoice", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SaveInvoice handles PUT /admin/orders/{orderId}/invoice
// The body is the full editing session. Totals are recomputed and written back onto the order.
func (c *InvoiceController) SaveInvoice(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var session models.InvoiceSession
	if !decodeJSON(w, r, &session) {
		return
	}
	session.OrderID = orderID
	session.Payments = nil
	if !validateRequest(w, c.validate, &session) {
		return
	}

	log.Info().Int64("orderId", orderID).Int("lines", len(session.Orders)).Msg("📥 SaveInvoice")
	result, err := c.invoices.SaveSession(r.Context(), &session)
	if err != nil {
		writeServiceError(w, "SaveInvoice", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RenderInvoice handles GET /admin/orders/{orderId}/invoice/render
// Returns the printable HTML page the PDF is generated from.
func (c *InvoiceController) RenderInvoice(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	html, err := c.documents.RenderHTML(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "RenderInvoice", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Error().Err(err).Msg("❌ RenderInvoice: error writing response")
	}
}

// DownloadInvoicePDF handles GET /admin/orders/{orderId}/invoice/pdf
// With ?archive=true the PDF is also uploaded to Drive and the file ID returned in X-Drive-File-Id.
func (c *InvoiceController) DownloadInvoicePDF(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	pdf, err := c.documents.GeneratePDF(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "DownloadInvoicePDF", err)
		return
	}

	if archive, _ := strconv.ParseBool(r.URL.Query().Get("archive")); archive {
		fileID, err := c.documents.ArchivePDF(r.Context(), orderID, pdf)
		if err != nil {
			log.Warn().Err(err).Int64("orderId", orderID).Msg("⚠️ DownloadInvoicePDF: archive failed")
		} else if fileID != "" {
			w.Header().Set("X-Drive-File-Id", fileID)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", orderID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Error().Err(err).Msg("❌ DownloadInvoicePDF: error writing response")
	}
}
