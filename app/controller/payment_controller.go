package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/models"
	"embroidery-backoffice/service"
)

// PaymentController handles HTTP requests for order payments
type PaymentController struct {
	invoices service.InvoiceServiceInterface
	validate *validator.Validate
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(invoices service.InvoiceServiceInterface, validate *validator.Validate) *PaymentController {
	return &PaymentController{
		invoices: invoices,
		validate: validate,
	}
}

// RecordPayment handles POST /admin/orders/{orderId}/payments
// Example request:
//
//	{"type": "down", "amount": 5000, "mode": "Bank Transfer", "processedBy": "Ana", "reference": "BT-1029"}
//
// Example response:
//
//	{"payment": {"id": "6f1c...", "type": "down", "amount": 5000, ...}, "invoice": {"balance": 5300, ...}}
func (c *PaymentController) RecordPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req models.RecordPaymentRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, c.validate, &req) {
		return
	}

	log.Info().Int64("orderId", orderID).Str("type", string(req.Type)).Str("amount", req.Amount.String()).Msg("📥 RecordPayment")
	result, err := c.invoices.RecordPayment(r.Context(), orderID, req)
	if err != nil {
		writeServiceError(w, "RecordPayment", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// VerifyPayment handles POST /admin/orders/{orderId}/payments/{paymentId}/verify
// Example request:
//
//	{"verifiedBy": "Marco"}
func (c *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	paymentID := chi.URLParam(r, "paymentId")

	var req models.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, c.validate, &req) {
		return
	}

	result, err := c.invoices.VerifyPayment(r.Context(), orderID, paymentID, req)
	if err != nil {
		writeServiceError(w, "VerifyPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
