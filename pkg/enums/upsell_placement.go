package enums

import "fmt"

// UpsellPlacement is the point in the booking flow an upsell may appear.
type UpsellPlacement string

const (
	UpsellPlacementAfterService UpsellPlacement = "after_service"
	UpsellPlacementPrePayment   UpsellPlacement = "pre_payment"
	UpsellPlacementPOSCheckout  UpsellPlacement = "pos_checkout"
)

var validUpsellPlacements = []UpsellPlacement{
	UpsellPlacementAfterService,
	UpsellPlacementPrePayment,
	UpsellPlacementPOSCheckout,
}

// String implements fmt.Stringer.
func (u UpsellPlacement) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UpsellPlacement.
func (u UpsellPlacement) IsValid() bool {
	for _, candidate := range validUpsellPlacements {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUpsellPlacement converts raw input into a UpsellPlacement.
func ParseUpsellPlacement(value string) (UpsellPlacement, error) {
	for _, candidate := range validUpsellPlacements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upsell placement %q", value)
}
