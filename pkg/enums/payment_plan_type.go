package enums

import "fmt"

// PaymentPlanType describes how a payment plan splits the total.
type PaymentPlanType string

const (
	PaymentPlanTypeHalfNowHalfLater PaymentPlanType = "half_now_half_later"
	PaymentPlanTypeThreePay         PaymentPlanType = "three_pay"
	PaymentPlanTypeSixPay           PaymentPlanType = "six_pay"
	PaymentPlanTypeCustom           PaymentPlanType = "custom"
)

var validPaymentPlanTypes = []PaymentPlanType{
	PaymentPlanTypeHalfNowHalfLater,
	PaymentPlanTypeThreePay,
	PaymentPlanTypeSixPay,
	PaymentPlanTypeCustom,
}

// String implements fmt.Stringer.
func (p PaymentPlanType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentPlanType.
func (p PaymentPlanType) IsValid() bool {
	for _, candidate := range validPaymentPlanTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentPlanType converts raw input into a PaymentPlanType.
func ParsePaymentPlanType(value string) (PaymentPlanType, error) {
	for _, candidate := range validPaymentPlanTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment plan type %q", value)
}
