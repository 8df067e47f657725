package enums

import "fmt"

// ScaledItemType is the kind of item a scaled offer substitutes.
type ScaledItemType string

const (
	ScaledItemTypeService ScaledItemType = "service"
	ScaledItemTypeBundle  ScaledItemType = "bundle"
)

var validScaledItemTypes = []ScaledItemType{
	ScaledItemTypeService,
	ScaledItemTypeBundle,
}

// String implements fmt.Stringer.
func (s ScaledItemType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScaledItemType.
func (s ScaledItemType) IsValid() bool {
	for _, candidate := range validScaledItemTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScaledItemType converts raw input into a ScaledItemType.
func ParseScaledItemType(value string) (ScaledItemType, error) {
	for _, candidate := range validScaledItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scaled item type %q", value)
}
