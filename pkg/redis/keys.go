package redis

import (
	"strconv"
	"strings"
)

const keyNamespace = "mf"

func (c *Client) CartKey(sessionID string) string {
	return key("cart", sessionID)
}

func (c *Client) RecoveryTokenKey(sessionID string) string {
	return key("cart_recovery_token", sessionID)
}

func (c *Client) StoreMetadataKey(storeID string) string {
	return key("store", storeID)
}

func (c *Client) IdempotencyKey(scope, id string) string {
	return key("idempotency", scope, id)
}

// RateLimitKey names the counter for scope during window number bucket.
func (c *Client) RateLimitKey(scope string, bucket int64) string {
	return key("rate_limit", scope, strconv.FormatInt(bucket, 10))
}

// key joins the non-blank parts under the service namespace.
func key(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteByte(':')
			b.WriteString(p)
		}
	}
	return b.String()
}
