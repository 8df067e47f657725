package enums

import "fmt"

// BundleDiscountType selects how a bundle discount value is interpreted.
type BundleDiscountType string

const (
	BundleDiscountTypePercentage BundleDiscountType = "percentage"
	BundleDiscountTypeFixed      BundleDiscountType = "fixed"
)

var validBundleDiscountTypes = []BundleDiscountType{
	BundleDiscountTypePercentage,
	BundleDiscountTypeFixed,
}

// String implements fmt.Stringer.
func (b BundleDiscountType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BundleDiscountType.
func (b BundleDiscountType) IsValid() bool {
	for _, candidate := range validBundleDiscountTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBundleDiscountType converts raw input into a BundleDiscountType.
func ParseBundleDiscountType(value string) (BundleDiscountType, error) {
	for _, candidate := range validBundleDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bundle discount type %q", value)
}
