package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/shery7378/multifront/internal/cart"
	"github.com/shery7378/multifront/internal/checkout/helpers"
	"github.com/shery7378/multifront/internal/stores"
	"github.com/shery7378/multifront/internal/submissions"
	checkoutrules "github.com/shery7378/multifront/pkg/checkout"
	"github.com/shery7378/multifront/pkg/enums"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/events"
	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/metrics"
	"github.com/shery7378/multifront/pkg/orderapi"
)

const (
	defaultSubmitTimeout    = 20 * time.Second
	defaultEnrichStoreLimit = 20

	submitFailedMessage = "We couldn't place your order. Please try again."
)

type cartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	ConsumeItems(ctx context.Context, sessionID string, submitted []cart.Item) error
}

type orderCreator interface {
	CreateOrder(ctx context.Context, req orderapi.CreateOrderRequest) (*orderapi.CreateOrderResult, error)
}

type storeResolver interface {
	Resolve(ctx context.Context, storeID string, known *stores.Metadata) *stores.Metadata
}

type conversionNotifier interface {
	NotifyConverted(ctx context.Context, sessionID, orderID string) error
}

type submissionRecorder interface {
	Record(ctx context.Context, attempt submissions.Attempt) error
}

// Service validates checkouts and places one order per store.
type Service interface {
	Groups(ctx context.Context, sessionID string) (helpers.StoreGroups, error)
	Validate(ctx context.Context, sessionID string, input CheckoutInput) (*ValidationResult, error)
	Submit(ctx context.Context, sessionID string, input CheckoutInput) (*SubmitOutcome, error)
}

// CheckoutInput is the checkout form as submitted by the shopper.
type CheckoutInput struct {
	UserID            string
	Contact           Contact
	DeliveryAddress   string
	DeliveryOption    string
	DeliverySlots     map[string]helpers.DeliverySlot
	PaymentMethodID   string
	PaymentMethodType string
	// LoyaltyDiscount applies to the whole order and is spread across stores.
	LoyaltyDiscount decimal.Decimal
	// Subscriptions maps product ids to recurring delivery terms.
	Subscriptions map[string]orderapi.SubscriptionTerms
}

// StoreSubmission is the outcome of one store's order request.
type StoreSubmission struct {
	StoreID     string  `json:"store_id"`
	StatusCode  int     `json:"status_code"`
	OrderID     *string `json:"order_id,omitempty"`
	RedirectURL string  `json:"redirect_url,omitempty"`
	Err         error   `json:"-"`
	total       decimal.Decimal
}

// Created reports whether the order API accepted this store's order.
func (s StoreSubmission) Created() bool {
	return s.Err == nil && s.StatusCode == 201
}

// SubmitOutcome aggregates every store submission of a checkout.
type SubmitOutcome struct {
	CheckoutID      uuid.UUID         `json:"checkout_id"`
	Success         bool              `json:"success"`
	OrderIDs        []string          `json:"order_ids"`
	RedirectURL     string            `json:"redirect_url,omitempty"`
	NavigateOrderID string            `json:"navigate_order_id,omitempty"`
	Submissions     []StoreSubmission `json:"submissions"`
	Message         string            `json:"message,omitempty"`
}

// ServiceParams bundles the checkout dependencies. Recovery and Metrics are optional.
type ServiceParams struct {
	Carts     cartReader
	Stores    storeResolver
	Orders    orderCreator
	Ledger    submissionRecorder
	Publisher events.Publisher
	Recovery  conversionNotifier
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger

	NearbyRadiusKm   float64
	SubmitTimeout    time.Duration
	EnrichStoreLimit int
}

type service struct {
	carts     cartReader
	stores    storeResolver
	orders    orderCreator
	ledger    submissionRecorder
	publisher events.Publisher
	recovery  conversionNotifier
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger

	nearbyRadiusKm   float64
	submitTimeout    time.Duration
	enrichStoreLimit int
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store resolver required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order client required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("submission ledger required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := params.SubmitTimeout
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	limit := params.EnrichStoreLimit
	if limit <= 0 {
		limit = defaultEnrichStoreLimit
	}
	return &service{
		carts:            params.Carts,
		stores:           params.Stores,
		orders:           params.Orders,
		ledger:           params.Ledger,
		publisher:        params.Publisher,
		recovery:         params.Recovery,
		metrics:          params.Metrics,
		logg:             params.Logger,
		nearbyRadiusKm:   params.NearbyRadiusKm,
		submitTimeout:    timeout,
		enrichStoreLimit: limit,
	}, nil
}

// Groups returns the session cart split by store, with store details filled in.
func (s *service) Groups(ctx context.Context, sessionID string) (helpers.StoreGroups, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.groupAndEnrich(ctx, c), nil
}

func (s *service) Validate(ctx context.Context, sessionID string, input CheckoutInput) (*ValidationResult, error) {
	prepared, err := s.prepare(ctx, sessionID, input)
	if err != nil {
		return nil, err
	}
	return &prepared.result, nil
}

// Submit places one order per store. Validation failures come back as a
// CodeValidation error carrying the field map. Submission failures come back
// as an unsuccessful outcome with a nil error; the cart is kept in that case.
func (s *service) Submit(ctx context.Context, sessionID string, input CheckoutInput) (*SubmitOutcome, error) {
	start := time.Now()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	prepared, err := s.prepare(ctx, sessionID, input)
	if err != nil {
		return nil, err
	}
	if !prepared.result.Valid {
		s.metrics.ObserveSubmit(metrics.OutcomeInvalid, time.Since(start))
		return nil, validationError(prepared.result.Errors)
	}

	discount := input.LoyaltyDiscount
	if prepared.cart.Coupon != nil {
		discount = discount.Add(prepared.cart.Coupon.Discount)
	}
	shares := helpers.AllocateDiscount(prepared.groups, discount)

	requests := buildOrderRequests(prepared.groups, shares, orderContext{
		email:           input.Contact.ResolvedEmail(),
		phone:           guestPhone(input.Contact),
		deliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		deliveryOption:  strings.TrimSpace(input.DeliveryOption),
		payment:         PaymentDescriptor(input.PaymentMethodType, input.PaymentMethodID),
		slots:           input.DeliverySlots,
		subscriptions:   input.Subscriptions,
	})

	checkoutID := uuid.New()
	ctx = s.logg.WithField(ctx, "checkout_id", checkoutID.String())

	// Once orders are on the wire a dropped connection must not skip the
	// ledger, the cart update or the event.
	detached := context.WithoutCancel(ctx)
	results := s.submitAll(detached, requests)
	outcome := aggregate(checkoutID, results)
	s.record(detached, sessionID, input.UserID, outcome)

	if !outcome.Success {
		s.reportFailure(detached, outcome)
		s.metrics.ObserveSubmit(failureOutcome(outcome), time.Since(start))
		return outcome, nil
	}

	s.afterSuccess(detached, sessionID, input.UserID, outcome, prepared)
	s.metrics.ObserveSubmit(metrics.OutcomeSuccess, time.Since(start))
	return outcome, nil
}

type preparedCheckout struct {
	cart   *cart.Cart
	groups helpers.StoreGroups
	result ValidationResult
}

func (s *service) prepare(ctx context.Context, sessionID string, input CheckoutInput) (*preparedCheckout, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	groups := s.groupAndEnrich(ctx, c)
	result := Validate(ValidationInput{
		Contact:              input.Contact,
		DeliveryAddress:      input.DeliveryAddress,
		DeliveryOption:       input.DeliveryOption,
		Groups:               groups,
		DeliverySlots:        input.DeliverySlots,
		PaymentMethodID:      input.PaymentMethodID,
		PaymentMethodType:    input.PaymentMethodType,
		ProximityThresholdKm: s.nearbyRadiusKm,
	})
	return &preparedCheckout{cart: c, groups: groups, result: result}, nil
}

func (s *service) groupAndEnrich(ctx context.Context, c *cart.Cart) helpers.StoreGroups {
	if c.IsEmpty() {
		return helpers.StoreGroups{}
	}
	groups := helpers.GroupItemsByStore(c.Items)
	for i := range groups {
		if i >= s.enrichStoreLimit {
			break
		}
		groups[i].Store = s.stores.Resolve(ctx, groups[i].StoreID, groups[i].Store)
	}
	return groups
}

// submitAll issues every request concurrently and waits for all of them.
// ctx must already be detached from the caller.
func (s *service) submitAll(ctx context.Context, requests []orderapi.CreateOrderRequest) []StoreSubmission {
	results := make([]StoreSubmission, len(requests))

	var g errgroup.Group
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
			defer cancel()

			sub := StoreSubmission{StoreID: req.StoreID, total: req.Total}
			res, err := s.orders.CreateOrder(reqCtx, req)
			if err != nil {
				sub.Err = err
			} else {
				sub.StatusCode = res.StatusCode
				sub.OrderID = res.OrderID
				sub.RedirectURL = res.RedirectURL
			}
			s.metrics.IncOrderRequest(sub.StatusCode)
			results[i] = sub
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func aggregate(checkoutID uuid.UUID, results []StoreSubmission) *SubmitOutcome {
	outcome := &SubmitOutcome{
		CheckoutID:  checkoutID,
		Success:     len(results) > 0,
		OrderIDs:    []string{},
		Submissions: results,
	}
	for _, r := range results {
		if !r.Created() {
			outcome.Success = false
		}
	}
	if !outcome.Success {
		outcome.Message = submitFailedMessage
		return outcome
	}

	for _, r := range results {
		if r.OrderID != nil {
			outcome.OrderIDs = append(outcome.OrderIDs, *r.OrderID)
		}
		if outcome.RedirectURL == "" && r.RedirectURL != "" {
			outcome.RedirectURL = r.RedirectURL
		}
	}
	if outcome.RedirectURL == "" && len(outcome.OrderIDs) > 0 {
		outcome.NavigateOrderID = outcome.OrderIDs[0]
	}
	return outcome
}

func (s *service) record(ctx context.Context, sessionID, userID string, outcome *SubmitOutcome) {
	entries := make([]submissions.Entry, 0, len(outcome.Submissions))
	for _, sub := range outcome.Submissions {
		entries = append(entries, submissions.Entry{
			StoreID:     sub.StoreID,
			HTTPStatus:  sub.StatusCode,
			OrderID:     sub.OrderID,
			RedirectURL: sub.RedirectURL,
			Err:         sub.Err,
			Total:       sub.total,
		})
	}
	err := s.ledger.Record(ctx, submissions.Attempt{
		CheckoutID: outcome.CheckoutID,
		SessionID:  sessionID,
		UserID:     userID,
		Entries:    entries,
	})
	if err != nil {
		s.logg.Error(ctx, "failed to record order submissions", err)
	}
}

func (s *service) reportFailure(ctx context.Context, outcome *SubmitOutcome) {
	var errs error
	created := make([]string, 0)
	for _, sub := range outcome.Submissions {
		switch {
		case sub.Err != nil:
			errs = multierr.Append(errs, fmt.Errorf("store %s: %w", sub.StoreID, sub.Err))
		case !sub.Created():
			errs = multierr.Append(errs, fmt.Errorf("store %s: order api returned status %d", sub.StoreID, sub.StatusCode))
		case sub.OrderID != nil:
			created = append(created, *sub.OrderID)
		}
	}
	s.logg.Error(ctx, "checkout submission failed", errs)
	if len(created) > 0 {
		// no compensation is attempted; the ledger flags these for reconciliation
		s.logg.Warn(s.logg.WithField(ctx, "order_ids", created), "orders created without the rest of the checkout")
	}
}

func (s *service) afterSuccess(ctx context.Context, sessionID, userID string, outcome *SubmitOutcome, prepared *preparedCheckout) {
	// only the submitted lines go; anything added while orders were in flight stays
	if err := s.carts.ConsumeItems(ctx, sessionID, prepared.cart.Items); err != nil {
		s.logg.Error(ctx, "failed to clear checked out items", err)
	}

	if s.recovery != nil && len(outcome.OrderIDs) > 0 {
		if err := s.recovery.NotifyConverted(ctx, sessionID, outcome.OrderIDs[0]); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to mark recovered cart converted")
		}
	}

	event := events.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateCheckout,
		AggregateID:   outcome.CheckoutID.String(),
		Data: events.OrderPlaced{
			CheckoutID: outcome.CheckoutID.String(),
			SessionID:  sessionID,
			UserID:     userID,
			OrderIDs:   outcome.OrderIDs,
			StoreIDs:   prepared.groups.StoreIDs(),
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logg.Error(ctx, "failed to publish order placed event", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "order_ids", outcome.OrderIDs), "checkout completed")
}

func failureOutcome(outcome *SubmitOutcome) string {
	for _, sub := range outcome.Submissions {
		if sub.Created() {
			return metrics.OutcomePartial
		}
	}
	return metrics.OutcomeFailed
}

func guestPhone(contact Contact) string {
	if contact.Authenticated {
		return ""
	}
	return strings.TrimSpace(contact.Guest.CustomerPhone)
}

func validationError(errs checkoutrules.ValidationErrors) error {
	_, msg, ok := errs.First()
	if !ok {
		msg = "checkout is invalid"
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(errs)
}
