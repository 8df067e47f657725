package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CLINIC_CHECKOUT"

	EnvAppEnv          = "CLINIC_CHECKOUT_APP_ENV"
	EnvPort            = "CLINIC_CHECKOUT_APP_PORT"
	EnvLogLevel        = "CLINIC_CHECKOUT_LOG_LEVEL"
	EnvLogWarnStack    = "CLINIC_CHECKOUT_LOG_WARN_STACK"
	EnvLogFormat       = "CLINIC_CHECKOUT_LOG_FORMAT"
	EnvCatalogPath     = "CLINIC_CHECKOUT_CATALOG_PATH"
	EnvHesitationDelay = "CLINIC_CHECKOUT_HESITATION_DELAY"
	EnvUpsellLimit     = "CLINIC_CHECKOUT_UPSELL_LIMIT"
	EnvMetricsEnabled  = "CLINIC_CHECKOUT_METRICS_ENABLED"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Checkout CheckoutConfig
	Metrics  MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CLINIC_CHECKOUT_APP_ENV" required:"true"`
	Port         string `envconfig:"CLINIC_CHECKOUT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CLINIC_CHECKOUT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLINIC_CHECKOUT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"CLINIC_CHECKOUT_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"CLINIC_CHECKOUT_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"CLINIC_CHECKOUT_HTTP_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"CLINIC_CHECKOUT_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"CLINIC_CHECKOUT_HTTP_CORS_ORIGINS" default:"http://localhost:3000"`
}

// CheckoutConfig tunes the checkout engines.
type CheckoutConfig struct {
	CatalogPath     string        `envconfig:"CLINIC_CHECKOUT_CATALOG_PATH" required:"true"`
	HesitationDelay time.Duration `envconfig:"CLINIC_CHECKOUT_HESITATION_DELAY" default:"15s"`
	UpsellLimit     int           `envconfig:"CLINIC_CHECKOUT_UPSELL_LIMIT" default:"2"`
}

func (c CheckoutConfig) validate() error {
	if c.HesitationDelay <= 0 {
		return fmt.Errorf("%s must be positive, got %s", EnvHesitationDelay, c.HesitationDelay)
	}
	if c.UpsellLimit < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvUpsellLimit, c.UpsellLimit)
	}
	return nil
}

type MetricsConfig struct {
	Enabled bool `envconfig:"CLINIC_CHECKOUT_METRICS_ENABLED" default:"true"`
}
