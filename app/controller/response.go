package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/models"
	"embroidery-backoffice/pricing"
	"embroidery-backoffice/repository"
	"embroidery-backoffice/service"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// ErrorBody represents the error payload returned by the API
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("❌ Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, map[string]any{
		"error": ErrorBody{Code: code, Message: message, Details: details},
	})
}

// writeServiceError maps domain errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var notAllowed *models.ErrPaymentNotAllowed
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.As(err, &notAllowed):
		writeError(w, http.StatusUnprocessableEntity, "payment_not_allowed", err.Error(), nil)
	case pricing.IsLookupError(err):
		writeError(w, http.StatusUnprocessableEntity, "pricing_lookup_failed", err.Error(), nil)
	case pricing.IsConfigError(err):
		writeError(w, http.StatusUnprocessableEntity, "invalid_pricing_config", err.Error(), nil)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	default:
		log.Error().Err(err).Str("op", op).Msg("❌ Request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
		return
	}
	log.Warn().Err(err).Str("op", op).Msg("⚠️ Request rejected")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error(), nil)
		return false
	}
	return true
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "orderId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_order_id", "orderId must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
