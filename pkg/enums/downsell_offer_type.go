package enums

import "fmt"

// DownsellOfferType is the kind of retention offer a downsell rule makes.
type DownsellOfferType string

const (
	DownsellOfferTypePaymentPlan DownsellOfferType = "payment_plan"
	DownsellOfferTypeScaledOffer DownsellOfferType = "scaled_offer"
	DownsellOfferTypeTrialCredit DownsellOfferType = "trial_credit"
)

var validDownsellOfferTypes = []DownsellOfferType{
	DownsellOfferTypePaymentPlan,
	DownsellOfferTypeScaledOffer,
	DownsellOfferTypeTrialCredit,
}

// String implements fmt.Stringer.
func (d DownsellOfferType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DownsellOfferType.
func (d DownsellOfferType) IsValid() bool {
	for _, candidate := range validDownsellOfferTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDownsellOfferType converts raw input into a DownsellOfferType.
func ParseDownsellOfferType(value string) (DownsellOfferType, error) {
	for _, candidate := range validDownsellOfferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid downsell offer type %q", value)
}
