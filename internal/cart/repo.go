package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shery7378/multifront/pkg/redis"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisRepository stores each session's cart as a JSON snapshot.
type RedisRepository struct {
	kv  keyValueStore
	ttl time.Duration
}

// NewRedisRepository returns a repository whose snapshots expire after ttl of inactivity.
func NewRedisRepository(kv keyValueStore, ttl time.Duration) *RedisRepository {
	return &RedisRepository{kv: kv, ttl: ttl}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := r.kv.Get(ctx, r.kv.CartKey(sessionID))
	if err != nil {
		if redis.IsMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, c *Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.kv.Set(ctx, r.kv.CartKey(sessionID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.kv.Del(ctx, r.kv.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
