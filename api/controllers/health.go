package controllers

import (
	"net/http"

	"github.com/angelmondragon/clinic-checkout/api/responses"
	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/config"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
)

const envHeader = "X-Clinic-Checkout-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once a catalog snapshot is loaded.
func HealthReady(cfg *config.Config, cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog not loaded"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status":         "ready",
			"services":       len(cat.Services),
			"products":       len(cat.Products),
			"upsell_rules":   len(cat.UpsellRules),
			"downsell_rules": len(cat.DownsellRules),
		})
	}
}
