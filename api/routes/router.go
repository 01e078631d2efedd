package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shery7378/multifront/api/controllers"
	cartcontrollers "github.com/shery7378/multifront/api/controllers/cart"
	checkoutcontrollers "github.com/shery7378/multifront/api/controllers/checkout"
	"github.com/shery7378/multifront/api/middleware"
	"github.com/shery7378/multifront/internal/cart"
	checkoutsvc "github.com/shery7378/multifront/internal/checkout"
	"github.com/shery7378/multifront/internal/recovery"
	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/metrics"
	pkgredis "github.com/shery7378/multifront/pkg/redis"
)

// SessionStore is the redis surface the HTTP layer needs.
type SessionStore interface {
	pkgredis.IdempotencyStore
	pkgredis.RateLimiter
	controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	store SessionStore,
	gatherer prometheus.Gatherer,
	checkoutMetrics *metrics.CheckoutMetrics,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	recoveryService recovery.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if store != nil {
		deps["redis"] = store
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	var (
		idempotencyStore pkgredis.IdempotencyStore
		limiter          pkgredis.RateLimiter
	)
	if store != nil {
		idempotencyStore = store
		limiter = store
	}
	submitPolicy := middleware.NewRateLimitPolicy("checkout", cfg.Checkout.SubmitWindow, cfg.Checkout.SubmitLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.CartSession(logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL, logg))

		r.Get("/cart", cartcontrollers.CartFetch(cartService, logg))
		r.Delete("/cart", cartcontrollers.CartClear(cartService, checkoutMetrics, logg))
		r.Post("/cart/items", cartcontrollers.CartAddItem(cartService, checkoutMetrics, logg))
		r.Patch("/cart/items", cartcontrollers.CartUpdateQuantity(cartService, checkoutMetrics, logg))
		r.Delete("/cart/items", cartcontrollers.CartRemoveItem(cartService, checkoutMetrics, logg))
		r.Post("/cart/coupon", cartcontrollers.CartApplyCoupon(cartService, checkoutMetrics, logg))
		r.Get("/cart/stores", checkoutcontrollers.CheckoutStoreGroups(checkoutService, logg))
		r.Put("/cart/recovery-token", cartcontrollers.CartSaveRecoveryToken(recoveryService, logg))

		r.Post("/checkout/validate", checkoutcontrollers.CheckoutValidate(checkoutService, logg))
		r.With(middleware.RateLimit(submitPolicy, limiter, logg)).
			Post("/checkout", checkoutcontrollers.CheckoutSubmit(checkoutService, logg))
	})

	return r
}
