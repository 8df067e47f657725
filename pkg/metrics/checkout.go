package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	EngineUpsell   = "upsell"
	EngineDownsell = "downsell"

	OutcomeShown    = "shown"
	OutcomeAccepted = "accepted"
	OutcomeDeclined = "declined"
)

// CheckoutMetrics records suggestion and booking activity for checkout sessions.
type CheckoutMetrics struct {
	suggestions  *prometheus.CounterVec
	bookings     prometheus.Counter
	bookingValue prometheus.Histogram
	hesitation   prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	suggestions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_suggestions_total",
		Help: "Upsell and downsell suggestions by outcome.",
	}, []string{"engine", "outcome"})
	bookings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_bookings_total",
		Help: "Committed checkout bookings.",
	})
	bookingValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_booking_value",
		Help:    "Final total of committed bookings.",
		Buckets: []float64{25, 50, 100, 200, 400, 800, 1600},
	})
	hesitation := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_hesitation_fired_total",
		Help: "Hesitation timers that fired during checkout.",
	})
	reg.MustRegister(suggestions, bookings, bookingValue, hesitation)
	return &CheckoutMetrics{
		suggestions:  suggestions,
		bookings:     bookings,
		bookingValue: bookingValue,
		hesitation:   hesitation,
	}
}

// IncSuggestion counts an upsell or downsell outcome.
func (c *CheckoutMetrics) IncSuggestion(engine, outcome string) {
	c.AddSuggestions(engine, outcome, 1)
}

// AddSuggestions counts several suggestions with the same outcome.
func (c *CheckoutMetrics) AddSuggestions(engine, outcome string, n int) {
	if c == nil || c.suggestions == nil || n <= 0 {
		return
	}
	c.suggestions.WithLabelValues(normalizeLabel(engine), normalizeLabel(outcome)).Add(float64(n))
}

// ObserveBooking records a committed booking and its final total.
func (c *CheckoutMetrics) ObserveBooking(finalTotal float64) {
	if c == nil || c.bookings == nil {
		return
	}
	c.bookings.Inc()
	c.bookingValue.Observe(finalTotal)
}

// IncHesitationFired counts a fired hesitation timer.
func (c *CheckoutMetrics) IncHesitationFired() {
	if c == nil || c.hesitation == nil {
		return
	}
	c.hesitation.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
