package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sony/gobreaker/v2"

	"github.com/shery7378/multifront/api/routes"
	"github.com/shery7378/multifront/internal/cart"
	"github.com/shery7378/multifront/internal/checkout"
	"github.com/shery7378/multifront/internal/recovery"
	"github.com/shery7378/multifront/internal/stores"
	"github.com/shery7378/multifront/internal/submissions"
	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/db"
	"github.com/shery7378/multifront/pkg/events"
	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/metrics"
	"github.com/shery7378/multifront/pkg/migrate"
	"github.com/shery7378/multifront/pkg/orderapi"
	"github.com/shery7378/multifront/pkg/pubsub"
	"github.com/shery7378/multifront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	orderClient, err := orderapi.NewClient(cfg.OrderAPI.BaseURL,
		orderapi.WithToken(cfg.OrderAPI.Token),
		orderapi.WithTimeout(cfg.OrderAPI.Timeout),
		orderapi.WithBreaker(cfg.OrderAPI.BreakerTrips, cfg.OrderAPI.BreakerTimeout),
		orderapi.WithStateChangeHook(func(name string, from, to gobreaker.State) {
			checkoutMetrics.SetBreakerState(name, int(to))
			logg.Warn(logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}), "order api breaker state changed")
		}),
	)
	if err != nil {
		return err
	}

	storeService, err := stores.NewService(orderClient, stores.NewCacheRepository(redisClient, cfg.Checkout.StoreCacheTTL), logg)
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cart.NewRedisRepository(redisClient, cfg.Cart.SessionTTL))
	if err != nil {
		return err
	}

	recoveryService, err := newRecoveryService(cfg, redisClient, logg)
	if err != nil {
		return err
	}

	ledger, err := submissions.NewLedger(submissions.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closePublisher()

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:            cartService,
		Stores:           storeService,
		Orders:           orderClient,
		Ledger:           ledger,
		Publisher:        publisher,
		Recovery:         recoveryService,
		Metrics:          checkoutMetrics,
		Logger:           logg,
		NearbyRadiusKm:   cfg.Checkout.NearbyRadiusKm,
		SubmitTimeout:    cfg.Checkout.SubmitTimeout,
		EnrichStoreLimit: cfg.Checkout.EnrichStoreLimit,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			checkoutMetrics,
			cartService,
			checkoutService,
			recoveryService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRecoveryService(cfg *config.Config, redisClient *redis.Client, logg *logger.Logger) (recovery.Service, error) {
	tokens := recovery.NewTokenStore(redisClient, cfg.Cart.SessionTTL)
	if !cfg.Recovery.Enabled() {
		logg.Info(context.Background(), "abandoned cart service not configured, recovery tokens kept locally")
		return recovery.NewService(tokens, nil, logg)
	}
	client, err := recovery.NewClient(cfg.Recovery.BaseURL, cfg.Recovery.Timeout)
	if err != nil {
		return nil, err
	}
	return recovery.NewService(tokens, client, logg)
}

func newPublisher(ctx context.Context, cfg *config.Config, logg *logger.Logger) (events.Publisher, func(), error) {
	if !cfg.PubSub.Enabled(cfg.GCP) {
		logg.Info(ctx, "pubsub not configured, order events logged only")
		return events.NewLogPublisher(logg), func() {}, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return nil, nil, err
	}
	sender := client.OrdersSender()
	publisher, err := events.NewPubSubPublisher(sender, logg)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return publisher, func() {
		sender.Stop()
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}, nil
}
