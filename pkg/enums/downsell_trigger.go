package enums

import "fmt"

// DownsellTrigger is the event that fires a downsell evaluation.
type DownsellTrigger string

const (
	DownsellTriggerUpsellDeclined     DownsellTrigger = "upsell_declined"
	DownsellTriggerCheckoutHesitation DownsellTrigger = "checkout_hesitation"
	DownsellTriggerCartValueThreshold DownsellTrigger = "cart_value_threshold"
)

var validDownsellTriggers = []DownsellTrigger{
	DownsellTriggerUpsellDeclined,
	DownsellTriggerCheckoutHesitation,
	DownsellTriggerCartValueThreshold,
}

// String implements fmt.Stringer.
func (d DownsellTrigger) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DownsellTrigger.
func (d DownsellTrigger) IsValid() bool {
	for _, candidate := range validDownsellTriggers {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDownsellTrigger converts raw input into a DownsellTrigger.
func ParseDownsellTrigger(value string) (DownsellTrigger, error) {
	for _, candidate := range validDownsellTriggers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid downsell trigger %q", value)
}
