package recovery

import (
	"context"
	"strings"
	"time"

	"github.com/shery7378/multifront/pkg/redis"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RecoveryTokenKey(sessionID string) string
}

// TokenStore keeps the cart_recovery_token a shopper arrived with.
type TokenStore struct {
	kv  keyValueStore
	ttl time.Duration
}

func NewTokenStore(kv keyValueStore, ttl time.Duration) *TokenStore {
	return &TokenStore{kv: kv, ttl: ttl}
}

func (s *TokenStore) Save(ctx context.Context, sessionID, token string) error {
	return s.kv.Set(ctx, s.kv.RecoveryTokenKey(sessionID), strings.TrimSpace(token), s.ttl)
}

// Get returns "" when the session has no token.
func (s *TokenStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.kv.Get(ctx, s.kv.RecoveryTokenKey(sessionID))
	if err != nil {
		if redis.IsMissing(err) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (s *TokenStore) Delete(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.kv.RecoveryTokenKey(sessionID))
}
