package enums

import "fmt"

// BXGYTargetType selects the pool of cart lines a BXGY rule discounts.
type BXGYTargetType string

const (
	BXGYTargetTypeSameItem     BXGYTargetType = "same_item"
	BXGYTargetTypeSpecificItem BXGYTargetType = "specific_item"
	BXGYTargetTypeCategory     BXGYTargetType = "category"
)

var validBXGYTargetTypes = []BXGYTargetType{
	BXGYTargetTypeSameItem,
	BXGYTargetTypeSpecificItem,
	BXGYTargetTypeCategory,
}

// String implements fmt.Stringer.
func (b BXGYTargetType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BXGYTargetType.
func (b BXGYTargetType) IsValid() bool {
	for _, candidate := range validBXGYTargetTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBXGYTargetType converts raw input into a BXGYTargetType.
func ParseBXGYTargetType(value string) (BXGYTargetType, error) {
	for _, candidate := range validBXGYTargetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bxgy target type %q", value)
}
