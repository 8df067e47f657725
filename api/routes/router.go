package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/clinic-checkout/api/controllers"
	"github.com/angelmondragon/clinic-checkout/api/controllers/quotes"
	"github.com/angelmondragon/clinic-checkout/api/middleware"
	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	"github.com/angelmondragon/clinic-checkout/pkg/config"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
)

// NewRouter wires the quote API. metricsHandler is mounted at /metrics when
// non-nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cat *catalog.Catalog,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, cat, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	engine := upsell.NewEngine(cfg.Checkout.UpsellLimit)
	r.Route("/api/v1/quotes", func(r chi.Router) {
		r.Post("/bundles/{bundleID}", quotes.QuoteBundle(cat, logg))
		r.Post("/discounts", quotes.QuoteDiscounts(cat, logg))
		r.Post("/payment-schedule", quotes.QuotePaymentSchedule(cat, logg))
		r.Post("/upsells", quotes.QuoteUpsells(cat, engine, logg))
		r.Post("/downsells", quotes.QuoteDownsells(cat, logg))
	})

	return r
}
