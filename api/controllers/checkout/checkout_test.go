package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/api/middleware"
	checkoutsvc "github.com/shery7378/multifront/internal/checkout"
	"github.com/shery7378/multifront/internal/checkout/helpers"
	checkoutrules "github.com/shery7378/multifront/pkg/checkout"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

type stubCheckout struct {
	outcome *checkoutsvc.SubmitOutcome
	err     error
	input   checkoutsvc.CheckoutInput
	session string
}

func (s *stubCheckout) Groups(context.Context, string) (helpers.StoreGroups, error) {
	return helpers.StoreGroups{}, nil
}

func (s *stubCheckout) Validate(_ context.Context, sessionID string, input checkoutsvc.CheckoutInput) (*checkoutsvc.ValidationResult, error) {
	s.session, s.input = sessionID, input
	result := checkoutsvc.Validate(checkoutsvc.ValidationInput{Contact: input.Contact})
	return &result, nil
}

func (s *stubCheckout) Submit(_ context.Context, sessionID string, input checkoutsvc.CheckoutInput) (*checkoutsvc.SubmitOutcome, error) {
	s.session, s.input = sessionID, input
	return s.outcome, s.err
}

const submitBody = `{
	"guest_info": {"customer_email": "a@b.com", "customer_phone": "1234567890"},
	"delivery_address": "1 Main St",
	"delivery_option": "Standard",
	"delivery_slots": {"s1": {"date": "2024-01-01", "time": "10:00-11:00"}},
	"payment_method_id": "pm_123",
	"loyalty_discount": "5.00",
	"subscriptions": {"p1": {"frequency": "weekly", "interval": 1}}
}`

func submitRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func TestCheckoutSubmitCreated(t *testing.T) {
	id := "101"
	stub := &stubCheckout{outcome: &checkoutsvc.SubmitOutcome{
		CheckoutID:      uuid.New(),
		Success:         true,
		OrderIDs:        []string{id},
		NavigateOrderID: id,
		Submissions:     []checkoutsvc.StoreSubmission{{StoreID: "s1", StatusCode: 201, OrderID: &id}},
	}}

	resp := httptest.NewRecorder()
	CheckoutSubmit(stub, nil).ServeHTTP(resp, submitRequest(submitBody))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var env struct {
		Data submitResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.NavigateOrderID != "101" {
		t.Fatalf("unexpected response %+v", env.Data)
	}
	if stub.session != "sess-1" {
		t.Fatalf("expected session to be forwarded")
	}
	if stub.input.DeliveryOption != "standard" {
		t.Fatalf("unexpected input %+v", stub.input)
	}
	if !stub.input.LoyaltyDiscount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected loyalty discount 5, got %s", stub.input.LoyaltyDiscount)
	}
	if stub.input.Subscriptions["p1"].Frequency != "weekly" {
		t.Fatalf("expected subscription terms forwarded")
	}
	if stub.input.Contact.Authenticated {
		t.Fatalf("expected guest contact")
	}
}

func TestCheckoutSubmitFailureMapsToBadGateway(t *testing.T) {
	stub := &stubCheckout{outcome: &checkoutsvc.SubmitOutcome{
		CheckoutID:  uuid.New(),
		Message:     "We couldn't place your order. Please try again.",
		Submissions: []checkoutsvc.StoreSubmission{{StoreID: "s1", StatusCode: 500}},
	}}

	resp := httptest.NewRecorder()
	CheckoutSubmit(stub, nil).ServeHTTP(resp, submitRequest(submitBody))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeSubmissionFailed)) {
		t.Fatalf("expected submission failed code, got %s", resp.Body.String())
	}
}

func TestCheckoutSubmitValidationDetails(t *testing.T) {
	var errs checkoutrules.ValidationErrors
	errs.Add(checkoutrules.FieldCustomerEmail, "Email is required")
	errs.Add(checkoutrules.FieldPaymentMethod, "Please select a payment method")
	stub := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeValidation, "Email is required").WithDetails(errs)}

	resp := httptest.NewRecorder()
	CheckoutSubmit(stub, nil).ServeHTTP(resp, submitRequest(`{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var env struct {
		Error struct {
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "Email is required" {
		t.Fatalf("unexpected message %q", env.Error.Message)
	}
	if len(env.Error.Details) != 2 {
		t.Fatalf("expected both field errors, got %v", env.Error.Details)
	}
}

func TestCheckoutValidateUsesTokenIdentity(t *testing.T) {
	stub := &stubCheckout{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(`{}`))
	ctx := middleware.WithSessionID(req.Context(), "sess-2")
	ctx = middleware.WithUserID(ctx, "u-1")
	ctx = middleware.WithEmail(ctx, "member@example.com")

	resp := httptest.NewRecorder()
	CheckoutValidate(stub, nil).ServeHTTP(resp, req.WithContext(ctx))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !stub.input.Contact.Authenticated || stub.input.Contact.ResolvedEmail() != "member@example.com" {
		t.Fatalf("expected authenticated contact, got %+v", stub.input.Contact)
	}
	if stub.input.UserID != "u-1" {
		t.Fatalf("expected user id forwarded")
	}
}
