package enums

import "fmt"

// BXGYRuleType is the effect a BXGY rule has on its target units.
type BXGYRuleType string

const (
	BXGYRuleTypeFreeItem           BXGYRuleType = "free_item"
	BXGYRuleTypePercentageDiscount BXGYRuleType = "percentage_discount"
	BXGYRuleTypeFixedDiscount      BXGYRuleType = "fixed_discount"
)

var validBXGYRuleTypes = []BXGYRuleType{
	BXGYRuleTypeFreeItem,
	BXGYRuleTypePercentageDiscount,
	BXGYRuleTypeFixedDiscount,
}

// String implements fmt.Stringer.
func (b BXGYRuleType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BXGYRuleType.
func (b BXGYRuleType) IsValid() bool {
	for _, candidate := range validBXGYRuleTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBXGYRuleType converts raw input into a BXGYRuleType.
func ParseBXGYRuleType(value string) (BXGYRuleType, error) {
	for _, candidate := range validBXGYRuleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bxgy rule type %q", value)
}
