package orderapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	client, err := NewClient("http://orders.test/api/", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for blank base url")
	}
}

func TestCreateOrderRequest(t *testing.T) {
	var capturedURL, capturedAuth, capturedMethod string
	var payload map[string]any

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		capturedMethod = req.Method
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"status":"success","message":"created","data":{"id":101}}`), nil
	}, WithToken("secret"))

	result, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		StoreID:       "s1",
		CustomerEmail: "a@b.com",
		PaymentMethod: PaymentMethod{Type: "card", PaymentMethodID: "pm_123"},
		Items: []OrderItem{{
			ProductID: "p1",
			Quantity:  2,
			Price:     decimal.RequireFromString("20.00"),
		}},
		Total:  decimal.RequireFromString("20.00"),
		Status: OrderStatusPending,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if capturedMethod != http.MethodPost || capturedURL != "http://orders.test/api/orders" {
		t.Fatalf("unexpected request %s %s", capturedMethod, capturedURL)
	}
	if capturedAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", capturedAuth)
	}
	if payload["status"] != "pending" || payload["store_id"] != "s1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if !result.Created() || result.OrderID == nil || *result.OrderID != "101" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCreateOrderNonCreatedStatus(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnprocessableEntity, `{"message":"out of stock","data":{"id":5}}`), nil
	})

	result, err := client.CreateOrder(context.Background(), CreateOrderRequest{StoreID: "s1"})
	if err != nil {
		t.Fatalf("expected status to be data, got error %v", err)
	}
	if result.Created() {
		t.Fatalf("422 must not count as created")
	}
	if result.OrderID != nil {
		t.Fatalf("order id should only be extracted from created responses")
	}
}

func TestCreateOrderServerErrorReturnsStatus(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	})

	result, err := client.CreateOrder(context.Background(), CreateOrderRequest{StoreID: "s1"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if result.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", result.StatusCode)
	}
}

func TestCreateOrderTransportError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{StoreID: "s1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	var transitions []gobreaker.State
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("timeout")
	}, WithBreaker(2, 0), WithStateChangeHook(func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}))

	for i := 0; i < 3; i++ {
		_, _ = client.CreateOrder(context.Background(), CreateOrderRequest{StoreID: "s1"})
	}
	if calls != 2 {
		t.Fatalf("expected breaker to short-circuit the third call, transport saw %d", calls)
	}
	if len(transitions) != 1 || transitions[0] != gobreaker.StateOpen {
		t.Fatalf("expected single transition to open, got %v", transitions)
	}
}

func TestGetStoreAcceptsWrappedAndBareBodies(t *testing.T) {
	bodies := map[string]string{
		"wrapped": `{"data":{"id":7,"name":"Corner Shop","latitude":51.5,"longitude":-0.12,"address":"1 High St"}}`,
		"bare":    `{"id":"7","name":"Corner Shop","latitude":51.5,"longitude":-0.12,"address":"1 High St"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			var capturedURL string
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				capturedURL = req.URL.String()
				return jsonResponse(http.StatusOK, body), nil
			})
			store, err := client.GetStore(context.Background(), "7")
			if err != nil {
				t.Fatalf("get store: %v", err)
			}
			if capturedURL != "http://orders.test/api/stores/7" {
				t.Fatalf("unexpected url %s", capturedURL)
			}
			if store.ID.String() != "7" || store.Name != "Corner Shop" {
				t.Fatalf("unexpected store %+v", store)
			}
			if store.Latitude == nil || *store.Latitude != 51.5 {
				t.Fatalf("latitude not decoded")
			}
		})
	}
}

func TestGetStoreNotFound(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"missing"}`), nil
	})
	_, err := client.GetStore(context.Background(), "9")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
