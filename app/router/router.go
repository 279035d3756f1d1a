package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/app/controller"
)

// Controllers groups the HTTP handlers wired into the router
type Controllers struct {
	Invoice *controller.InvoiceController
	Payment *controller.PaymentController
	Pricing *controller.PricingController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Error().Err(err).Msg("❌ Ping: error writing response")
	}
}

// requestLogger records one structured log line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		log.Info().
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http_request")
	})
}

// NewRouter builds the HTTP handler with every route registered
func NewRouter(controllers *Controllers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/admin", func(r chi.Router) {
		// Pricing catalog
		r.Get("/pricing", controllers.Pricing.GetPricing)
		r.Put("/pricing", controllers.Pricing.UpdatePricing)

		// Stateless computation
		r.Post("/quotations/compute", controllers.Invoice.Quote)
		r.Post("/invoices/compute", controllers.Invoice.Compute)

		// Order invoices
		r.Route("/orders/{orderId}", func(r chi.Router) {
			r.Get("/invoice", controllers.Invoice.GetInvoice)
			r.Put("/invoice", controllers.Invoice.SaveInvoice)
			r.Get("/invoice/render", controllers.Invoice.RenderInvoice)
			r.Get("/invoice/pdf", controllers.Invoice.DownloadInvoicePDF)

			r.Post("/payments", controllers.Payment.RecordPayment)
			r.Post("/payments/{paymentId}/verify", controllers.Payment.VerifyPayment)
		})
	})

	return r
}
