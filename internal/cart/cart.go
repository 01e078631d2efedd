package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Cart is the session cart. Mutate it only through its methods so Total stays
// in step with Items.
type Cart struct {
	Items  []Item          `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Coupon *Coupon         `json:"coupon,omitempty"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []Item{}, Total: decimal.Zero}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ItemCount sums quantities across lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Find returns the line matching key.
func (c *Cart) Find(key ItemKey) (Item, bool) {
	for _, item := range c.Items {
		if item.Key() == key {
			return item, true
		}
	}
	return Item{}, false
}

// AddItem merges into an existing line with the same key or appends a new one,
// then recomputes the total from scratch.
func (c *Cart) AddItem(input AddItemInput) Item {
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil {
		price = decimal.Zero
	}
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}

	key := NewItemKey(input.ProductID, input.Color, input.Size)
	var added Item
	merged := false
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items[i].Quantity += qty
			added = c.Items[i]
			merged = true
			break
		}
	}
	if !merged {
		added = Item{
			ProductID: key.ProductID,
			Product:   input.Product,
			UnitPrice: price,
			Quantity:  qty,
			StoreID:   input.StoreID,
			Store:     input.Store,
			VariantID: input.VariantID,
			Color:     input.Color,
			Size:      input.Size,
		}
		c.Items = append(c.Items, added)
	}

	c.Total = c.sum()
	return added
}

// RemoveItem drops the matching line. Missing keys are a no-op.
func (c *Cart) RemoveItem(key ItemKey) bool {
	kept := c.Items[:0]
	removed := false
	for _, item := range c.Items {
		if item.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	c.Total = c.sum()
	return removed
}

// UpdateQuantity sets a line's quantity, clamped to at least one, and adjusts
// the total by the delta. Removing a line is an explicit RemoveItem call.
func (c *Cart) UpdateQuantity(key ItemKey, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Items {
		if c.Items[i].Key() != key {
			continue
		}
		price := c.Items[i].UnitPrice
		old := decimal.NewFromInt(int64(c.Items[i].Quantity))
		c.Total = c.Total.Sub(price.Mul(old)).Add(price.Mul(decimal.NewFromInt(int64(qty))))
		c.Items[i].Quantity = qty
		return true
	}
	return false
}

// ApplyCoupon records the cart-level discount.
func (c *Cart) ApplyCoupon(coupon Coupon) {
	coupon.Code = strings.TrimSpace(coupon.Code)
	if coupon.Discount.IsNegative() {
		coupon.Discount = decimal.Zero
	}
	c.Coupon = &coupon
}

// Consume takes checked-out lines out of the cart: each line's quantity drops
// by the submitted quantity and spent lines go away. Lines added after the
// snapshot was taken survive. The coupon is spent with the checkout.
func (c *Cart) Consume(submitted []Item) {
	spent := make(map[ItemKey]int, len(submitted))
	for _, item := range submitted {
		spent[item.Key()] += item.Quantity
	}
	kept := c.Items[:0]
	for _, item := range c.Items {
		item.Quantity -= spent[item.Key()]
		delete(spent, item.Key())
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.Coupon = nil
	c.Total = c.sum()
}

// Clear empties the cart and drops any coupon.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.Total = decimal.Zero
	c.Coupon = nil
}

func (c *Cart) sum() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
