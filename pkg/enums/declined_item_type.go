package enums

import "fmt"

// DeclinedItemType names what the patient declined before a downsell fires.
type DeclinedItemType string

const (
	DeclinedItemTypeService DeclinedItemType = "service"
	DeclinedItemTypeProduct DeclinedItemType = "product"
	DeclinedItemTypeBundle  DeclinedItemType = "bundle"
	DeclinedItemTypeUpsell  DeclinedItemType = "upsell"
)

var validDeclinedItemTypes = []DeclinedItemType{
	DeclinedItemTypeService,
	DeclinedItemTypeProduct,
	DeclinedItemTypeBundle,
	DeclinedItemTypeUpsell,
}

// String implements fmt.Stringer.
func (d DeclinedItemType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeclinedItemType.
func (d DeclinedItemType) IsValid() bool {
	for _, candidate := range validDeclinedItemTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeclinedItemType converts raw input into a DeclinedItemType.
func ParseDeclinedItemType(value string) (DeclinedItemType, error) {
	for _, candidate := range validDeclinedItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid declined item type %q", value)
}
