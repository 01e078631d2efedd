package checkout

import (
	"fmt"
	"strings"

	"github.com/shery7378/multifront/internal/checkout/helpers"
	"github.com/shery7378/multifront/internal/stores"
	checkoutrules "github.com/shery7378/multifront/pkg/checkout"
)

// GuestInfo is the contact data collected from shoppers who are not signed in.
type GuestInfo struct {
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

// Contact describes who is checking out.
type Contact struct {
	Authenticated bool
	// AccountEmail comes from the verified token.
	AccountEmail string
	// CheckoutEmail is the email saved on a previous checkout.
	CheckoutEmail string
	// EmailInput is whatever the shopper typed on this checkout.
	EmailInput string
	Guest      GuestInfo
}

// ResolvedEmail applies the email precedence for the contact.
func (c Contact) ResolvedEmail() string {
	if !c.Authenticated {
		return strings.TrimSpace(c.Guest.CustomerEmail)
	}
	return checkoutrules.ResolveEmail(c.EmailInput, c.CheckoutEmail, c.AccountEmail)
}

// ValidationInput is everything the validator looks at.
type ValidationInput struct {
	Contact              Contact
	DeliveryAddress      string
	DeliveryOption       string
	Groups               helpers.StoreGroups
	DeliverySlots        map[string]helpers.DeliverySlot
	PaymentMethodID      string
	PaymentMethodType    string
	ProximityThresholdKm float64
}

// ValidationResult is the validator's verdict.
type ValidationResult struct {
	Errors checkoutrules.ValidationErrors `json:"errors"`
	Valid  bool                           `json:"is_valid"`
}

// Validate runs every checkout rule and collects all failures. It has no side effects.
func Validate(in ValidationInput) ValidationResult {
	var errs checkoutrules.ValidationErrors

	validateContact(&errs, in.Contact)

	if strings.TrimSpace(in.DeliveryAddress) == "" {
		errs.Add(checkoutrules.FieldDeliveryAddress, "Please enter a delivery address")
	}
	if strings.TrimSpace(in.DeliveryOption) == "" {
		errs.Add(checkoutrules.FieldDeliveryOption, "Please select a delivery option")
	}

	for _, group := range in.Groups {
		slot, ok := in.DeliverySlots[group.StoreID]
		if ok && slot.Complete() {
			continue
		}
		errs.Add(
			checkoutrules.DeliverySlotField(group.StoreID),
			fmt.Sprintf("Please select a delivery slot for %s", storeLabel(group)),
		)
	}

	if len(in.Groups) > 1 {
		if !helpers.CheckDeliverySlotsMatch(in.DeliverySlots, in.Groups.StoreIDs()).Matches {
			errs.Add(checkoutrules.FieldDeliverySlots, "All stores must share the same delivery date and time")
		}
		if !helpers.AreStoresNearby(in.Groups.Stores(), in.ProximityThresholdKm) {
			errs.Add(checkoutrules.FieldStoreProximity, "Stores in your cart are too far apart to deliver together")
		}
	}

	if strings.TrimSpace(in.PaymentMethodID) == "" && strings.TrimSpace(in.PaymentMethodType) == "" {
		errs.Add(checkoutrules.FieldPaymentMethod, "Please select a payment method")
	}

	return ValidationResult{Errors: errs, Valid: errs.Len() == 0}
}

func validateContact(errs *checkoutrules.ValidationErrors, contact Contact) {
	if contact.Authenticated {
		email := contact.ResolvedEmail()
		switch {
		case email == "":
			errs.Add(checkoutrules.FieldEmail, "Email is required")
		case !checkoutrules.IsValidEmail(email):
			errs.Add(checkoutrules.FieldEmail, "Please enter a valid email address")
		}
		return
	}

	email := strings.TrimSpace(contact.Guest.CustomerEmail)
	switch {
	case email == "":
		errs.Add(checkoutrules.FieldCustomerEmail, "Email is required")
	case !checkoutrules.IsValidEmail(email):
		errs.Add(checkoutrules.FieldCustomerEmail, "Please enter a valid email address")
	}

	phone := strings.TrimSpace(contact.Guest.CustomerPhone)
	switch {
	case phone == "":
		errs.Add(checkoutrules.FieldCustomerPhone, "Phone number is required")
	case !checkoutrules.IsValidPhone(phone):
		errs.Add(checkoutrules.FieldCustomerPhone, fmt.Sprintf("Please enter a valid phone number with at least %d digits", checkoutrules.MinPhoneDigits))
	}
}

func storeLabel(group helpers.StoreGroup) string {
	if group.StoreID == stores.UnknownStoreID {
		return "your items"
	}
	return group.Store.DisplayName("this store")
}
