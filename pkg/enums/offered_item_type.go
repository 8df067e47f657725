package enums

import "fmt"

// OfferedItemType is the kind of item an upsell offers.
type OfferedItemType string

const (
	OfferedItemTypeService OfferedItemType = "service"
	OfferedItemTypeProduct OfferedItemType = "product"
	OfferedItemTypeBundle  OfferedItemType = "bundle"
)

var validOfferedItemTypes = []OfferedItemType{
	OfferedItemTypeService,
	OfferedItemTypeProduct,
	OfferedItemTypeBundle,
}

// String implements fmt.Stringer.
func (o OfferedItemType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferedItemType.
func (o OfferedItemType) IsValid() bool {
	for _, candidate := range validOfferedItemTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferedItemType converts raw input into a OfferedItemType.
func ParseOfferedItemType(value string) (OfferedItemType, error) {
	for _, candidate := range validOfferedItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offered item type %q", value)
}
