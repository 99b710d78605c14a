package enums

import "fmt"

// PaymentMethod identifies the wallet or card network a customer pays with.
type PaymentMethod string

const (
	PaymentMethodMPU      PaymentMethod = "mpu"
	PaymentMethodKBZPay   PaymentMethod = "kbz_pay"
	PaymentMethodAYAPay   PaymentMethod = "aya_pay"
	PaymentMethodOKDollar PaymentMethod = "ok_dollar"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodMPU,
	PaymentMethodKBZPay,
	PaymentMethodAYAPay,
	PaymentMethodOKDollar,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
