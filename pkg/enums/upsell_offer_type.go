package enums

import "fmt"

// UpsellOfferType is the kind of upsell offer a rule makes.
type UpsellOfferType string

const (
	UpsellOfferTypeUpgrade      UpsellOfferType = "upgrade"
	UpsellOfferTypeAddon        UpsellOfferType = "addon"
	UpsellOfferTypeQuantityBump UpsellOfferType = "quantity_bump"
	UpsellOfferTypeBundleUpsell UpsellOfferType = "bundle_upsell"
)

var validUpsellOfferTypes = []UpsellOfferType{
	UpsellOfferTypeUpgrade,
	UpsellOfferTypeAddon,
	UpsellOfferTypeQuantityBump,
	UpsellOfferTypeBundleUpsell,
}

// String implements fmt.Stringer.
func (u UpsellOfferType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UpsellOfferType.
func (u UpsellOfferType) IsValid() bool {
	for _, candidate := range validUpsellOfferTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUpsellOfferType converts raw input into a UpsellOfferType.
func ParseUpsellOfferType(value string) (UpsellOfferType, error) {
	for _, candidate := range validUpsellOfferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upsell offer type %q", value)
}
