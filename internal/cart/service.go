package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

// Service is the session cart container. Every mutation is applied atomically
// per session: load, mutate, persist under one lock.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, key ItemKey) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, key ItemKey, qty int) (*Cart, error)
	ApplyCoupon(ctx context.Context, sessionID string, coupon Coupon) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
	// ConsumeItems removes checked-out lines, deleting the cart once nothing is left.
	ConsumeItems(ctx context.Context, sessionID string, submitted []Item) error
}

// lockStripes bounds the lock table; sessions hashing to the same stripe
// simply serialize.
const lockStripes = 256

type service struct {
	repo  Repository
	locks [lockStripes]sync.Mutex
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	unlock := s.lock(sessionID)
	defer unlock()
	return s.load(ctx, sessionID)
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.AddItem(input)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, key ItemKey) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.RemoveItem(key)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, key ItemKey, qty int) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.UpdateQuantity(key, qty)
	})
}

func (s *service) ApplyCoupon(ctx context.Context, sessionID string, coupon Coupon) (*Cart, error) {
	if strings.TrimSpace(coupon.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.ApplyCoupon(coupon)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	unlock := s.lock(sessionID)
	defer unlock()
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) ConsumeItems(ctx context.Context, sessionID string, submitted []Item) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.Consume(submitted)
	if c.IsEmpty() {
		err = s.repo.Delete(ctx, sessionID)
	} else {
		err = s.repo.Save(ctx, sessionID, c)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume cart items")
	}
	return nil
}

func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Cart)) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return c, nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if c == nil {
		return New(), nil
	}
	return c, nil
}

func (s *service) lock(sessionID string) func() {
	mu := &s.locks[xxhash.Sum64String(sessionID)%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}
