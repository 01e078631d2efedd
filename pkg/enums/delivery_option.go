package enums

import "fmt"

// DeliveryOption is the delivery speed picked at checkout.
type DeliveryOption string

const (
	DeliveryOptionPriority DeliveryOption = "priority"
	DeliveryOptionStandard DeliveryOption = "standard"
)

var validDeliveryOptions = []DeliveryOption{
	DeliveryOptionPriority,
	DeliveryOptionStandard,
}

// String implements fmt.Stringer.
func (d DeliveryOption) String() string {
	return string(d)
}

// IsValid reports whether the value is known. Checkout only requires that an
// option was picked; membership is informational.
func (d DeliveryOption) IsValid() bool {
	for _, candidate := range validDeliveryOptions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryOption converts raw input into a DeliveryOption.
func ParseDeliveryOption(value string) (DeliveryOption, error) {
	for _, candidate := range validDeliveryOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery option %q", value)
}
