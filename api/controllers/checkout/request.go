package checkout

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/api/middleware"
	"github.com/shery7378/multifront/api/validators"
	checkoutsvc "github.com/shery7378/multifront/internal/checkout"
	"github.com/shery7378/multifront/internal/checkout/helpers"
	"github.com/shery7378/multifront/pkg/orderapi"
)

const maxFieldLen = 255

type guestInfoRequest struct {
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type subscriptionRequest struct {
	Frequency string `json:"frequency" validate:"required"`
	Interval  int    `json:"interval" validate:"gte=0"`
}

// checkoutRequest mirrors the checkout form. Field presence is judged by the
// checkout validator so every problem is reported at once.
type checkoutRequest struct {
	Email             string                          `json:"email"`
	CheckoutEmail     string                          `json:"checkout_email"`
	GuestInfo         guestInfoRequest                `json:"guest_info"`
	DeliveryAddress   string                          `json:"delivery_address"`
	DeliveryOption    string                          `json:"delivery_option"`
	DeliverySlots     map[string]helpers.DeliverySlot `json:"delivery_slots"`
	PaymentMethodID   string                          `json:"payment_method_id"`
	PaymentMethodType string                          `json:"payment_method_type"`
	LoyaltyDiscount   *decimal.Decimal                `json:"loyalty_discount"`
	Subscriptions     map[string]subscriptionRequest  `json:"subscriptions" validate:"omitempty,dive"`
}

func (r checkoutRequest) toInput(reqCtx requestIdentity) checkoutsvc.CheckoutInput {
	input := checkoutsvc.CheckoutInput{
		UserID: reqCtx.userID,
		Contact: checkoutsvc.Contact{
			Authenticated: reqCtx.userID != "",
			AccountEmail:  reqCtx.email,
			CheckoutEmail: validators.SanitizeString(r.CheckoutEmail, maxFieldLen),
			EmailInput:    validators.SanitizeString(r.Email, maxFieldLen),
			Guest: checkoutsvc.GuestInfo{
				CustomerEmail: validators.SanitizeString(r.GuestInfo.CustomerEmail, maxFieldLen),
				CustomerPhone: validators.SanitizeString(r.GuestInfo.CustomerPhone, maxFieldLen),
			},
		},
		DeliveryAddress:   validators.SanitizeString(r.DeliveryAddress, maxFieldLen),
		DeliveryOption:    strings.ToLower(validators.SanitizeString(r.DeliveryOption, maxFieldLen)),
		DeliverySlots:     r.DeliverySlots,
		PaymentMethodID:   validators.SanitizeString(r.PaymentMethodID, maxFieldLen),
		PaymentMethodType: validators.SanitizeString(r.PaymentMethodType, maxFieldLen),
		LoyaltyDiscount:   decimal.Zero,
	}
	if input.DeliverySlots == nil {
		input.DeliverySlots = map[string]helpers.DeliverySlot{}
	}
	if r.LoyaltyDiscount != nil {
		input.LoyaltyDiscount = *r.LoyaltyDiscount
	}
	if len(r.Subscriptions) > 0 {
		input.Subscriptions = make(map[string]orderapi.SubscriptionTerms, len(r.Subscriptions))
		for productID, sub := range r.Subscriptions {
			input.Subscriptions[productID] = orderapi.SubscriptionTerms{
				Frequency: strings.TrimSpace(sub.Frequency),
				Interval:  sub.Interval,
			}
		}
	}
	return input
}

type requestIdentity struct {
	sessionID string
	userID    string
	email     string
}

func identityFrom(ctx context.Context) requestIdentity {
	return requestIdentity{
		sessionID: middleware.SessionIDFromContext(ctx),
		userID:    middleware.UserIDFromContext(ctx),
		email:     middleware.EmailFromContext(ctx),
	}
}
