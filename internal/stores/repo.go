package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shery7378/multifront/pkg/redis"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	StoreMetadataKey(storeID string) string
}

// CacheRepository keeps resolved store metadata in redis between checkouts.
type CacheRepository struct {
	kv  keyValueStore
	ttl time.Duration
}

// NewCacheRepository builds the redis-backed metadata cache.
func NewCacheRepository(kv keyValueStore, ttl time.Duration) *CacheRepository {
	return &CacheRepository{kv: kv, ttl: ttl}
}

// Find returns cached metadata or (nil, nil) on a miss.
func (r *CacheRepository) Find(ctx context.Context, storeID string) (*Metadata, error) {
	raw, err := r.kv.Get(ctx, r.kv.StoreMetadataKey(storeID))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store cache: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("decode store cache: %w", err)
	}
	return &meta, nil
}

// Save caches metadata for the configured TTL.
func (r *CacheRepository) Save(ctx context.Context, meta *Metadata) error {
	if meta == nil || meta.ID == "" {
		return nil
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode store cache: %w", err)
	}
	return r.kv.Set(ctx, r.kv.StoreMetadataKey(meta.ID), string(payload), r.ttl)
}
