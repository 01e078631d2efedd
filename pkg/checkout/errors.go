package checkout

import (
	"bytes"
	"encoding/json"
)

// Field keys used in ValidationErrors.
const (
	FieldCustomerEmail   = "customer_email"
	FieldCustomerPhone   = "customer_phone"
	FieldEmail           = "email"
	FieldDeliveryAddress = "delivery_address"
	FieldDeliveryOption  = "delivery_option"
	FieldDeliverySlots   = "delivery_slots"
	FieldStoreProximity  = "store_proximity"
	FieldPaymentMethod   = "payment_method"

	deliverySlotPrefix = "delivery_slot_"
)

// DeliverySlotField is the key for a single store's missing slot.
func DeliverySlotField(storeID string) string {
	return deliverySlotPrefix + storeID
}

type fieldError struct {
	Field   string
	Message string
}

// ValidationErrors maps field keys to messages, keeping insertion order so the
// first problem can be surfaced.
type ValidationErrors struct {
	entries []fieldError
}

// Add records msg for field. A second message for the same field replaces the first.
func (v *ValidationErrors) Add(field, msg string) {
	for i := range v.entries {
		if v.entries[i].Field == field {
			v.entries[i].Message = msg
			return
		}
	}
	v.entries = append(v.entries, fieldError{Field: field, Message: msg})
}

func (v *ValidationErrors) Has(field string) bool {
	_, ok := v.Get(field)
	return ok
}

func (v *ValidationErrors) Get(field string) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, e := range v.entries {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

// First returns the earliest recorded error.
func (v *ValidationErrors) First() (field, msg string, ok bool) {
	if v == nil || len(v.entries) == 0 {
		return "", "", false
	}
	return v.entries[0].Field, v.entries[0].Message, true
}

func (v *ValidationErrors) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Fields lists keys in insertion order.
func (v *ValidationErrors) Fields() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		out = append(out, e.Field)
	}
	return out
}

// Map returns an unordered copy.
func (v *ValidationErrors) Map() map[string]string {
	out := make(map[string]string, v.Len())
	if v == nil {
		return out
	}
	for _, e := range v.entries {
		out[e.Field] = e.Message
	}
	return out
}

// MarshalJSON writes an object whose keys follow insertion order.
func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range v.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
