package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(v string) *string { return &v }

func TestAddItemMergesIdenticalKey(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "12.50", Quantity: 2, Color: strPtr("red"), Size: strPtr("M")})
	c.AddItem(AddItemInput{ProductID: "p1", Price: "12.50", Quantity: 3, Color: strPtr("red"), Size: strPtr("M")})

	if len(c.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", c.Items[0].Quantity)
	}
	if !c.Total.Equal(decimal.RequireFromString("62.50")) {
		t.Fatalf("expected total 62.50, got %s", c.Total)
	}
}

func TestAddItemDistinguishesVariants(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10", Color: strPtr("red")})
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10", Color: strPtr("blue")})
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10"})
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10"})

	if len(c.Items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(c.Items))
	}
	if item, ok := c.Find(NewItemKey("p1", nil, nil)); !ok || item.Quantity != 2 {
		t.Fatalf("attribute-less adds should merge, got %+v", item)
	}
}

func TestAddItemDefaults(t *testing.T) {
	t.Parallel()

	c := New()
	added := c.AddItem(AddItemInput{ProductID: "p1", Price: "not-a-price", Quantity: -4})
	if added.Quantity != 1 {
		t.Fatalf("expected non-positive quantity to default to 1, got %d", added.Quantity)
	}
	if !added.UnitPrice.IsZero() || !c.Total.IsZero() {
		t.Fatalf("malformed price should be zero, got %s", added.UnitPrice)
	}
}

func TestRemoveItemKeepsExactTotal(t *testing.T) {
	t.Parallel()

	c := New()
	prices := []string{"0.10", "0.20", "19.99", "3.33", "0.01", "7.07"}
	for i, price := range prices {
		c.AddItem(AddItemInput{ProductID: price, Price: price, Quantity: i + 1})
	}
	for i := 0; i < 200; i++ {
		price := prices[i%len(prices)]
		c.AddItem(AddItemInput{ProductID: price, Price: price, Quantity: 1})
		if i%3 == 0 {
			c.RemoveItem(NewItemKey(prices[(i+1)%len(prices)], nil, nil))
		}
		assertTotalMatchesLines(t, c)
	}

	for _, price := range prices {
		c.RemoveItem(NewItemKey(price, nil, nil))
		assertTotalMatchesLines(t, c)
	}
	if !c.Total.IsZero() || !c.IsEmpty() {
		t.Fatalf("expected empty cart with zero total, got %s", c.Total)
	}
}

func TestRemoveItemMissingKeyIsNoop(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "5", Quantity: 2})
	if c.RemoveItem(NewItemKey("p2", nil, nil)) {
		t.Fatalf("expected no removal")
	}
	if len(c.Items) != 1 || !c.Total.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("cart changed by missing removal: %+v", c)
	}
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	t.Parallel()

	c := New()
	key := NewItemKey("p1", strPtr("red"), nil)
	c.AddItem(AddItemInput{ProductID: "p1", Price: "4.25", Quantity: 3, Color: strPtr("red")})

	for _, qty := range []int{0, -1, -100} {
		if !c.UpdateQuantity(key, qty) {
			t.Fatalf("expected update to apply")
		}
		item, _ := c.Find(key)
		if item.Quantity != 1 {
			t.Fatalf("quantity %d stored as %d", qty, item.Quantity)
		}
		assertTotalMatchesLines(t, c)
	}
}

func TestUpdateQuantityAppliesDelta(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "2.50", Quantity: 2})
	c.AddItem(AddItemInput{ProductID: "p2", Price: "1.10", Quantity: 1})

	c.UpdateQuantity(NewItemKey("p1", nil, nil), 6)
	if !c.Total.Equal(decimal.RequireFromString("16.10")) {
		t.Fatalf("expected 16.10 got %s", c.Total)
	}
	if c.UpdateQuantity(NewItemKey("missing", nil, nil), 3) {
		t.Fatalf("missing key should be a no-op")
	}
}

func TestClearDropsCoupon(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "9"})
	c.ApplyCoupon(Coupon{Code: " SAVE5 ", Discount: decimal.NewFromInt(5)})
	if c.Coupon == nil || c.Coupon.Code != "SAVE5" {
		t.Fatalf("expected trimmed coupon, got %+v", c.Coupon)
	}

	c.Clear()
	if !c.IsEmpty() || !c.Total.IsZero() || c.Coupon != nil {
		t.Fatalf("expected fully cleared cart, got %+v", c)
	}
}

func assertTotalMatchesLines(t *testing.T, c *Cart) {
	t.Helper()
	want := decimal.Zero
	for _, item := range c.Items {
		want = want.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !c.Total.Equal(want) {
		t.Fatalf("total drifted: have %s want %s", c.Total, want)
	}
}

func TestConsumeKeepsLinesAddedAfterSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10", Quantity: 2})
	c.AddItem(AddItemInput{ProductID: "p2", Price: "5", Quantity: 1})
	c.ApplyCoupon(Coupon{Code: "SAVE", Discount: decimal.NewFromInt(3)})
	submitted := append([]Item(nil), c.Items...)

	// shopper keeps shopping while the orders are in flight
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10", Quantity: 1})
	c.AddItem(AddItemInput{ProductID: "p3", Price: "7", Quantity: 1})

	c.Consume(submitted)

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 remaining lines, got %+v", c.Items)
	}
	if c.Items[0].ProductID != "p1" || c.Items[0].Quantity != 1 {
		t.Fatalf("expected one extra p1 left, got %+v", c.Items[0])
	}
	if c.Items[1].ProductID != "p3" {
		t.Fatalf("expected p3 kept, got %+v", c.Items[1])
	}
	if c.Coupon != nil {
		t.Fatalf("coupon should be spent with the checkout")
	}
	if !c.Total.Equal(decimal.NewFromInt(17)) {
		t.Fatalf("expected total 17, got %s", c.Total)
	}
	assertTotalMatchesLines(t, c)
}

func TestConsumeEverythingEmptiesCart(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(AddItemInput{ProductID: "p1", Price: "10", Quantity: 2})
	c.Consume(append([]Item(nil), c.Items...))
	if !c.IsEmpty() || !c.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}
