package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IsMissing reports whether err signals an absent key.
func IsMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.cmd == nil {
		return "", errNotConnected
	}
	return c.cmd.Get(ctx, key).Result()
}

// Set writes value under key. A zero ttl keeps the key forever.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Set(ctx, key, value, ttl).Err()
}

// SetNX writes value only when key is absent and reports whether it did.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.cmd == nil {
		return false, errNotConnected
	}
	return c.cmd.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Del(ctx, keys...).Err()
}

// FixedWindowAllow counts a hit for scope in the current window and reports
// whether the count is still within limit. Windows are aligned to the epoch, so
// a counter that misses its expiry still stops counting once the window ends.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.cmd == nil {
		return false, 0, errNotConnected
	}
	if window <= 0 {
		window = time.Minute
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	counter := c.RateLimitKey(scope, now().UnixNano()/int64(window))

	count, err := c.cmd.Incr(ctx, counter).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := c.cmd.Expire(ctx, counter, window).Err(); err != nil {
			return count <= limit, count, err
		}
	}
	return count <= limit, count, nil
}
