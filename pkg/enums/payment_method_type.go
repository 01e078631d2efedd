package enums

import (
	"fmt"
	"strings"
)

// PaymentMethodType is the payment descriptor shape sent with an order.
type PaymentMethodType string

const (
	PaymentMethodTypePayPal         PaymentMethodType = "paypal"
	PaymentMethodTypeCard           PaymentMethodType = "card"
	PaymentMethodTypeStripe         PaymentMethodType = "stripe"
	PaymentMethodTypeCashOnDelivery PaymentMethodType = "cash_on_delivery"
)

var validPaymentMethodTypes = []PaymentMethodType{
	PaymentMethodTypePayPal,
	PaymentMethodTypeCard,
	PaymentMethodTypeStripe,
	PaymentMethodTypeCashOnDelivery,
}

// String implements fmt.Stringer.
func (p PaymentMethodType) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentMethodType) IsValid() bool {
	for _, candidate := range validPaymentMethodTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethodType converts raw input into a PaymentMethodType.
func ParsePaymentMethodType(value string) (PaymentMethodType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentMethodTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method type %q", value)
}
