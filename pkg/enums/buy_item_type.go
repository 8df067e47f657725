package enums

import "fmt"

// BuyItemType narrows which cart lines count toward a BXGY buy condition.
type BuyItemType string

const (
	BuyItemTypeProduct BuyItemType = "product"
	BuyItemTypeService BuyItemType = "service"
	BuyItemTypeAny     BuyItemType = "any"
)

var validBuyItemTypes = []BuyItemType{
	BuyItemTypeProduct,
	BuyItemTypeService,
	BuyItemTypeAny,
}

// String implements fmt.Stringer.
func (b BuyItemType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BuyItemType.
func (b BuyItemType) IsValid() bool {
	for _, candidate := range validBuyItemTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBuyItemType converts raw input into a BuyItemType.
func ParseBuyItemType(value string) (BuyItemType, error) {
	for _, candidate := range validBuyItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid buy item type %q", value)
}
