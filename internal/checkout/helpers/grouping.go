package helpers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/internal/cart"
	"github.com/shery7378/multifront/internal/stores"
)

// StoreGroup is the slice of the cart fulfilled by one store.
type StoreGroup struct {
	StoreID  string
	Store    *stores.Metadata
	Items    []cart.Item
	Subtotal decimal.Decimal
}

// ItemCount sums quantities in the group.
func (g StoreGroup) ItemCount() int {
	count := 0
	for _, item := range g.Items {
		count += item.Quantity
	}
	return count
}

// StoreGroups keeps buckets in first-occurrence order.
type StoreGroups []StoreGroup

// Get returns the group for storeID.
func (gs StoreGroups) Get(storeID string) (StoreGroup, bool) {
	for _, g := range gs {
		if g.StoreID == storeID {
			return g, true
		}
	}
	return StoreGroup{}, false
}

// StoreIDs lists bucket keys in order.
func (gs StoreGroups) StoreIDs() []string {
	ids := make([]string, 0, len(gs))
	for _, g := range gs {
		ids = append(ids, g.StoreID)
	}
	return ids
}

// Stores lists the known metadata of every bucket, skipping buckets without any.
func (gs StoreGroups) Stores() []*stores.Metadata {
	out := make([]*stores.Metadata, 0, len(gs))
	for _, g := range gs {
		if g.Store != nil {
			out = append(out, g.Store)
		}
	}
	return out
}

// Subtotal sums every bucket.
func (gs StoreGroups) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, g := range gs {
		total = total.Add(g.Subtotal)
	}
	return total
}

// ResolveStoreID picks the store an item belongs to: the attached store object,
// then the item's store id, then the product snapshot's, then the unknown bucket.
func ResolveStoreID(item cart.Item) string {
	if item.Store != nil {
		if id := strings.TrimSpace(item.Store.ID); id != "" {
			return id
		}
	}
	if item.StoreID != nil {
		if id := strings.TrimSpace(*item.StoreID); id != "" {
			return id
		}
	}
	if item.Product.StoreID != nil {
		if id := strings.TrimSpace(*item.Product.StoreID); id != "" {
			return id
		}
	}
	return stores.UnknownStoreID
}

// GroupItemsByStore partitions items into store buckets. Every item lands in
// exactly one bucket; the first item carrying store metadata seeds the bucket's Store.
func GroupItemsByStore(items []cart.Item) StoreGroups {
	groups := make(StoreGroups, 0)
	index := make(map[string]int)
	for _, item := range items {
		storeID := ResolveStoreID(item)
		pos, ok := index[storeID]
		if !ok {
			pos = len(groups)
			index[storeID] = pos
			groups = append(groups, StoreGroup{StoreID: storeID, Subtotal: decimal.Zero})
		}
		group := &groups[pos]
		if group.Store == nil && item.Store != nil {
			group.Store = item.Store
		}
		group.Items = append(group.Items, item)
		group.Subtotal = group.Subtotal.Add(item.LineTotal())
	}
	return groups
}
