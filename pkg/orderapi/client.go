package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

const (
	defaultTimeout              = 15 * time.Second
	defaultBreakerTimeout       = 30 * time.Second
	defaultBreakerTrips         = 5
	responseBodyReadLimit int64 = 1 << 20
	errorBodyReadLimit    int64 = 1024
)

var (
	errBaseURLRequired = errors.New("order api base url is required")
	errServerStatus    = errors.New("order api server error")
)

// response is the raw outcome of one HTTP exchange.
type response struct {
	StatusCode int
	Body       []byte
}

// Client talks to the backend order service.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	breakerTimeout time.Duration
	breakerTrips   uint32
	onStateChange  func(name string, from, to gobreaker.State)
	breaker        *gobreaker.CircuitBreaker[*response]
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBreaker tunes the circuit breaker: it opens after trips consecutive
// failures and probes again once timeout has elapsed.
func WithBreaker(trips uint32, timeout time.Duration) Option {
	return func(c *Client) {
		if trips > 0 {
			c.breakerTrips = trips
		}
		if timeout > 0 {
			c.breakerTimeout = timeout
		}
	}
}

// WithStateChangeHook is called whenever the breaker changes state.
func WithStateChangeHook(fn func(name string, from, to gobreaker.State)) Option {
	return func(c *Client) {
		c.onStateChange = fn
	}
}

// NewClient builds the order API client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:        trimmed,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		breakerTimeout: defaultBreakerTimeout,
		breakerTrips:   defaultBreakerTrips,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	trips := client.breakerTrips
	client.breaker = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:    "order-api",
		Timeout: client.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
		OnStateChange: client.onStateChange,
	})

	return client, nil
}

// do runs one request through the breaker. Responses with a 5xx status count
// as breaker failures but are still handed back to the caller.
func (c *Client) do(ctx context.Context, method, path string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal order api request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order api request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = httpResp.Body.Close() }()

		raw, err := io.ReadAll(io.LimitReader(httpResp.Body, responseBodyReadLimit))
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		out := &response{StatusCode: httpResp.StatusCode, Body: raw}
		if httpResp.StatusCode >= http.StatusInternalServerError {
			return out, errServerStatus
		}
		return out, nil
	})
	if errors.Is(err, errServerStatus) && resp != nil {
		return resp, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute order api request")
	}
	return resp, nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}

func statusError(resp *response) error {
	msg := resp.Body
	if int64(len(msg)) > errorBodyReadLimit {
		msg = msg[:errorBodyReadLimit]
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}
