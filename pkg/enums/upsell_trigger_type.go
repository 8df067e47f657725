package enums

import "fmt"

// UpsellTriggerType is the cart signal an upsell condition matches on.
type UpsellTriggerType string

const (
	UpsellTriggerTypeServiceSelected  UpsellTriggerType = "service_selected"
	UpsellTriggerTypeProductSelected  UpsellTriggerType = "product_selected"
	UpsellTriggerTypeBundleSelected   UpsellTriggerType = "bundle_selected"
	UpsellTriggerTypeCartValue        UpsellTriggerType = "cart_value"
	UpsellTriggerTypeCategorySelected UpsellTriggerType = "category_selected"
)

var validUpsellTriggerTypes = []UpsellTriggerType{
	UpsellTriggerTypeServiceSelected,
	UpsellTriggerTypeProductSelected,
	UpsellTriggerTypeBundleSelected,
	UpsellTriggerTypeCartValue,
	UpsellTriggerTypeCategorySelected,
}

// String implements fmt.Stringer.
func (u UpsellTriggerType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UpsellTriggerType.
func (u UpsellTriggerType) IsValid() bool {
	for _, candidate := range validUpsellTriggerTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUpsellTriggerType converts raw input into a UpsellTriggerType.
func ParseUpsellTriggerType(value string) (UpsellTriggerType, error) {
	for _, candidate := range validUpsellTriggerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upsell trigger type %q", value)
}
