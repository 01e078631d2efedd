package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/shery7378/multifront/api/middleware"
	"github.com/shery7378/multifront/internal/cart"
	"github.com/shery7378/multifront/internal/checkout"
	"github.com/shery7378/multifront/internal/checkout/helpers"
	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	pingErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	}
	return true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	}
	return nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (m *memoryStore) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return true, 1, nil
}

func (m *memoryStore) Ping(context.Context) error {
	return m.pingErr
}

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

func (m *memoryCarts) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[sessionID], nil
}

func (m *memoryCarts) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = c
	return nil
}

func (m *memoryCarts) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type stubCheckout struct {
	submits int
}

func (s *stubCheckout) Groups(context.Context, string) (helpers.StoreGroups, error) {
	return helpers.StoreGroups{}, nil
}

func (s *stubCheckout) Validate(context.Context, string, checkout.CheckoutInput) (*checkout.ValidationResult, error) {
	return &checkout.ValidationResult{}, nil
}

func (s *stubCheckout) Submit(context.Context, string, checkout.CheckoutInput) (*checkout.SubmitOutcome, error) {
	s.submits++
	return &checkout.SubmitOutcome{Success: true, OrderIDs: []string{"101"}, NavigateOrderID: "101"}, nil
}

type stubRecovery struct{}

func (stubRecovery) SaveToken(context.Context, string, string) error { return nil }

func (stubRecovery) NotifyConverted(context.Context, string, string) error { return nil }

type routerHarness struct {
	handler  http.Handler
	store    *memoryStore
	checkout *stubCheckout
}

func newRouterHarness(t *testing.T, dbErr error) *routerHarness {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "multifront"},
		Checkout: config.CheckoutConfig{
			IdempotencyTTL: time.Minute,
			SubmitLimit:    5,
			SubmitWindow:   time.Minute,
		},
	}
	cartService, err := cart.NewService(&memoryCarts{carts: map[string]*cart.Cart{}})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	registry := prometheus.NewRegistry()
	h := &routerHarness{store: newMemoryStore(), checkout: &stubCheckout{}}
	h.handler = NewRouter(
		cfg,
		logger.Nop(),
		stubPinger{err: dbErr},
		h.store,
		registry,
		metrics.NewCheckoutMetrics(registry),
		cartService,
		h.checkout,
		stubRecovery{},
	)
	return h
}

func (h *routerHarness) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)
	return resp
}

func TestHealthLive(t *testing.T) {
	h := newRouterHarness(t, nil)
	resp := h.do(http.MethodGet, "/health/live", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestHealthReady(t *testing.T) {
	h := newRouterHarness(t, nil)
	if resp := h.do(http.MethodGet, "/health/ready", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	failing := newRouterHarness(t, errors.New("db down"))
	if resp := failing.do(http.MethodGet, "/health/ready", "", nil); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newRouterHarness(t, nil)
	h.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1","price":"5","quantity":1}`,
		map[string]string{middleware.CartSessionHeader: "sess-metrics"})

	resp := h.do(http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "cart_operations_total") {
		t.Fatalf("expected cart metrics in exposition")
	}
}

func TestCartRoundTripKeepsSession(t *testing.T) {
	h := newRouterHarness(t, nil)

	resp := h.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1","price":"5","quantity":2}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	session := resp.Header().Get(middleware.CartSessionHeader)
	if session == "" {
		t.Fatalf("expected cart session header")
	}

	resp = h.do(http.MethodGet, "/api/v1/cart", "", map[string]string{middleware.CartSessionHeader: session})
	if resp.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			ItemCount int `json:"item_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("expected 2 items, got %d", envelope.Data.ItemCount)
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	h := newRouterHarness(t, nil)
	body := `{"delivery_address":"1 Main St"}`

	resp := h.do(http.MethodPost, "/api/v1/checkout", body, map[string]string{middleware.CartSessionHeader: "sess-1"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key, got %d", resp.Code)
	}
	if h.checkout.submits != 0 {
		t.Fatalf("expected no submission")
	}
}

func TestCheckoutReplaysDuplicateSubmit(t *testing.T) {
	h := newRouterHarness(t, nil)
	body := `{"delivery_address":"1 Main St"}`
	headers := map[string]string{
		middleware.CartSessionHeader: "sess-1",
		"Idempotency-Key":            "key-1",
	}

	first := h.do(http.MethodPost, "/api/v1/checkout", body, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	second := h.do(http.MethodPost, "/api/v1/checkout", body, headers)
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected identical replay")
	}
	if h.checkout.submits != 1 {
		t.Fatalf("expected one submission, got %d", h.checkout.submits)
	}
}

func TestRejectsInvalidBearerToken(t *testing.T) {
	h := newRouterHarness(t, nil)
	resp := h.do(http.MethodGet, "/api/v1/cart", "", map[string]string{"Authorization": "Bearer nope"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
