package checkout

import (
	"time"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	"github.com/angelmondragon/clinic-checkout/pkg/config"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
	"github.com/angelmondragon/clinic-checkout/pkg/metrics"
)

// DefaultHesitationDelay is how long a cart may sit idle before the
// hesitation trigger fires.
const DefaultHesitationDelay = 15 * time.Second

// Options tunes a session. Zero values fall back to the defaults.
type Options struct {
	HesitationDelay time.Duration
	UpsellLimit     int
}

func OptionsFromConfig(cfg config.CheckoutConfig) Options {
	return Options{
		HesitationDelay: cfg.HesitationDelay,
		UpsellLimit:     cfg.UpsellLimit,
	}
}

func (o Options) withDefaults() Options {
	if o.HesitationDelay <= 0 {
		o.HesitationDelay = DefaultHesitationDelay
	}
	if o.UpsellLimit <= 0 {
		o.UpsellLimit = upsell.DefaultLimit
	}
	return o
}

// SessionParams wires a session. Catalog and PatientName are required;
// Logger and Metrics may be nil.
type SessionParams struct {
	Catalog     *catalog.Catalog
	PatientName string
	Options     Options
	Logger      *logger.Logger
	Metrics     *metrics.CheckoutMetrics
	Clock       Clock
}
