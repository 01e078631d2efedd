package checkout

import (
	"encoding/json"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.com", "first.last@shop.co.uk", " pad@x.io "}
	invalid := []string{"", "a@b", "@b.com", "a b@c.com", "a@@b.com", "plain"}
	for _, v := range valid {
		if !IsValidEmail(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	for _, v := range invalid {
		if IsValidEmail(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"1234567890":        true,
		"+1 (555) 123-4567": true,
		"555-1234":          false,
		"12345abc90":        false,
		"":                  false,
		"(((((((((()":       false,
	}
	for phone, want := range cases {
		if got := IsValidPhone(phone); got != want {
			t.Fatalf("phone %q: expected %v got %v", phone, want, got)
		}
	}
}

func TestResolveEmail(t *testing.T) {
	t.Parallel()

	if got := ResolveEmail(" ", "saved@x.com", "account@x.com"); got != "saved@x.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := ResolveEmail("", ""); got != "" {
		t.Fatalf("expected blank, got %q", got)
	}
}

func TestValidationErrorsOrderAndJSON(t *testing.T) {
	t.Parallel()

	var errs ValidationErrors
	errs.Add(FieldCustomerEmail, "email required")
	errs.Add(DeliverySlotField("s1"), "pick a slot")
	errs.Add(FieldPaymentMethod, "pick a payment method")
	errs.Add(FieldCustomerEmail, "email invalid")

	if errs.Len() != 3 {
		t.Fatalf("expected 3 errors got %d", errs.Len())
	}
	field, msg, ok := errs.First()
	if !ok || field != FieldCustomerEmail || msg != "email invalid" {
		t.Fatalf("unexpected first error %s=%s", field, msg)
	}
	if !errs.Has("delivery_slot_s1") {
		t.Fatalf("expected per-store slot key")
	}

	raw, err := json.Marshal(errs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"customer_email":"email invalid","delivery_slot_s1":"pick a slot","payment_method":"pick a payment method"}`
	if string(raw) != want {
		t.Fatalf("unexpected json %s", raw)
	}

	var empty ValidationErrors
	raw, _ = json.Marshal(empty)
	if string(raw) != "{}" {
		t.Fatalf("expected empty object, got %s", raw)
	}
}
