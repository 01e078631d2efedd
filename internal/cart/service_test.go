package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

type memoryRepo struct {
	mu      sync.Mutex
	carts   map[string]*Cart
	saveErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{carts: map[string]*Cart{}}
}

func (m *memoryRepo) Load(ctx context.Context, sessionID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	cpy := *stored
	cpy.Items = append([]Item{}, stored.Items...)
	return &cpy, nil
}

func (m *memoryRepo) Save(ctx context.Context, sessionID string, c *Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cpy := *c
	cpy.Items = append([]Item{}, c.Items...)
	m.carts[sessionID] = &cpy
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected error without repository")
	}
}

func TestServiceGetReturnsEmptyCartOnMiss(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())
	c, err := svc.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !c.IsEmpty() || !c.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestServiceRequiresSession(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())
	_, err := svc.AddItem(context.Background(), " ", AddItemInput{ProductID: "p1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.AddItem(context.Background(), "sess-1", AddItemInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected product validation error, got %v", err)
	}
}

func TestServicePersistsMutations(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	if _, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p1", Price: "3.00", Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "sess-1", NewItemKey("p1", nil, nil), 5); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := repo.Load(ctx, "sess-1")
	if stored.Items[0].Quantity != 5 || !stored.Total.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected persisted cart %+v", stored)
	}

	if err := svc.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if stored, _ := repo.Load(ctx, "sess-1"); stored != nil {
		t.Fatalf("expected snapshot to be deleted")
	}
}

func TestServiceWrapsPersistenceErrors(t *testing.T) {
	repo := newMemoryRepo()
	repo.saveErr = errors.New("redis down")
	svc := newTestService(t, repo)

	_, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{ProductID: "p1", Price: "1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceConcurrentMutationsAreAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)
	key := NewItemKey("p1", nil, nil)

	if _, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p1", Price: "0.10", Quantity: 1}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p1", Price: "0.10", Quantity: 1})
		}()
		go func(qty int) {
			defer wg.Done()
			_, _ = svc.UpdateQuantity(ctx, "sess-1", key, qty)
		}(i%7 + 1)
	}
	wg.Wait()

	c, err := svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertTotalMatchesLines(t, c)
}

func TestServiceConsumeItems(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	snapshot, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p1", Price: "4", Quantity: 2})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	submitted := append([]Item(nil), snapshot.Items...)
	if _, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p2", Price: "1", Quantity: 1}); err != nil {
		t.Fatalf("late add: %v", err)
	}

	if err := svc.ConsumeItems(ctx, "sess-1", submitted); err != nil {
		t.Fatalf("consume: %v", err)
	}
	left, err := svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(left.Items) != 1 || left.Items[0].ProductID != "p2" {
		t.Fatalf("expected late item kept, got %+v", left.Items)
	}

	if err := svc.ConsumeItems(ctx, "sess-1", left.Items); err != nil {
		t.Fatalf("consume rest: %v", err)
	}
	if _, ok := repo.carts["sess-1"]; ok {
		t.Fatalf("expected cart deleted once nothing is left")
	}
}

func TestServiceLockTableIsBounded(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemoryRepo())

	var wg sync.WaitGroup
	for i := 0; i < 4*lockStripes; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			session := fmt.Sprintf("sess-%d", n)
			if _, err := svc.AddItem(ctx, session, AddItemInput{ProductID: "p1", Price: "1", Quantity: 1}); err != nil {
				t.Errorf("add %s: %v", session, err)
			}
			_ = svc.Clear(ctx, session)
		}(i)
	}
	wg.Wait()

	if got := len(svc.(*service).locks); got != lockStripes {
		t.Fatalf("expected %d lock stripes, got %d", lockStripes, got)
	}
}
