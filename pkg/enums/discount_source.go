package enums

import "fmt"

// DiscountSource identifies which mechanism produced an applied discount.
type DiscountSource string

const (
	DiscountSourceBundle DiscountSource = "bundle"
	DiscountSourceBXGY   DiscountSource = "bxgy"
)

var validDiscountSources = []DiscountSource{
	DiscountSourceBundle,
	DiscountSourceBXGY,
}

// String implements fmt.Stringer.
func (d DiscountSource) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountSource.
func (d DiscountSource) IsValid() bool {
	for _, candidate := range validDiscountSources {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountSource converts raw input into a DiscountSource.
func ParseDiscountSource(value string) (DiscountSource, error) {
	for _, candidate := range validDiscountSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount source %q", value)
}
