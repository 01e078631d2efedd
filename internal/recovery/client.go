package recovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("recovery api base url is required")

// Client calls the abandoned-cart service.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// NewClient builds the abandoned-cart client.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// MarkConverted tells the abandoned-cart service that the cart behind token
// turned into orderID.
func (c *Client) MarkConverted(ctx context.Context, token, orderID string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recovery token is required")
	}

	payload, err := json.Marshal(map[string]string{"order_id": orderID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal recovery request")
	}
	endpoint := fmt.Sprintf("%s/abandoned-carts/%s/converted", c.baseURL, url.PathEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build recovery request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute recovery request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "recovery request failed")
	}
	return nil
}
