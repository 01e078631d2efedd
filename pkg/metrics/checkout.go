package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

// CheckoutMetrics records checkout submissions and the order API traffic they cause.
type CheckoutMetrics struct {
	duration      *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
	orderRequests *prometheus.CounterVec
	breakerState  *prometheus.GaugeVec
	cartOps       *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	orderRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_api_requests_total",
		Help: "Per-store order creation requests by response status.",
	}, []string{"status"})
	breakerState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "order_api_breaker_state",
		Help: "Order API circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"breaker"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(duration, outcomes, orderRequests, breakerState, cartOps)
	return &CheckoutMetrics{
		duration:      duration,
		outcomes:      outcomes,
		orderRequests: orderRequests,
		breakerState:  breakerState,
		cartOps:       cartOps,
	}
}

// ObserveSubmit records one checkout submission.
func (c *CheckoutMetrics) ObserveSubmit(outcome string, duration time.Duration) {
	if c == nil || c.outcomes == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.outcomes.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncOrderRequest counts one per-store request. A zero status means no response.
func (c *CheckoutMetrics) IncOrderRequest(status int) {
	if c == nil || c.orderRequests == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.orderRequests.WithLabelValues(label).Inc()
}

// SetBreakerState exports the breaker state as a number.
func (c *CheckoutMetrics) SetBreakerState(name string, state int) {
	if c == nil || c.breakerState == nil {
		return
	}
	c.breakerState.WithLabelValues(normalizeLabel(name)).Set(float64(state))
}

// IncCartOp counts a cart mutation.
func (c *CheckoutMetrics) IncCartOp(op string) {
	if c == nil || c.cartOps == nil {
		return
	}
	c.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
