package enums

import "fmt"

// CheckoutState tracks where a checkout session sits in the booking flow.
type CheckoutState string

const (
	CheckoutStateBrowsing                 CheckoutState = "browsing"
	CheckoutStateAwaitingUpsellResponse   CheckoutState = "awaiting_upsell_response"
	CheckoutStateAwaitingDownsellResponse CheckoutState = "awaiting_downsell_response"
	CheckoutStateBooked                   CheckoutState = "booked"
	CheckoutStateAbandoned                CheckoutState = "abandoned"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateBrowsing,
	CheckoutStateAwaitingUpsellResponse,
	CheckoutStateAwaitingDownsellResponse,
	CheckoutStateBooked,
	CheckoutStateAbandoned,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
