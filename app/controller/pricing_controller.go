package controller

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"embroidery-backoffice/pricing"
	"embroidery-backoffice/service"
)

// PricingController handles HTTP requests for the pricing catalog
type PricingController struct {
	catalog service.PricingCatalogServiceInterface
}

// NewPricingController creates a new PricingController
func NewPricingController(catalog service.PricingCatalogServiceInterface) *PricingController {
	return &PricingController{catalog: catalog}
}

// PricingResponse is the active catalog and where it was loaded from
type PricingResponse struct {
	Source string                 `json:"source"`
	Config *pricing.PricingConfig `json:"config"`
}

// GetPricing handles GET /admin/pricing
// Example response:
//
//	{"source": "document", "config": {"currency": "PHP", "products": {...}, "addOns": {...}}}
func (c *PricingController) GetPricing(w http.ResponseWriter, r *http.Request) {
	config, source := c.catalog.Current(r.Context())
	writeJSON(w, http.StatusOK, PricingResponse{Source: source, Config: config})
}

// UpdatePricing handles PUT /admin/pricing
// The body is a complete catalog document; it is validated before it replaces the stored one.
func (c *PricingController) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error(), nil)
		return
	}

	config, err := c.catalog.Save(r.Context(), raw)
	if err != nil {
		writeServiceError(w, "UpdatePricing", err)
		return
	}

	log.Info().Int("products", len(config.Products)).Msg("✅ UpdatePricing: catalog replaced")
	writeJSON(w, http.StatusOK, PricingResponse{Source: service.SourceDocument, Config: config})
}
