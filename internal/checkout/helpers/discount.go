package helpers

import "github.com/shopspring/decimal"

// AllocateDiscount spreads an order-wide discount across store groups in
// proportion to their subtotals, rounded to cents. The rounding remainder goes
// to the last group. No group is discounted below zero and the discount never
// exceeds the cart subtotal.
func AllocateDiscount(groups StoreGroups, discount decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(groups))
	for i := range shares {
		shares[i] = decimal.Zero
	}
	total := groups.Subtotal()
	if len(groups) == 0 || !discount.IsPositive() || !total.IsPositive() {
		return shares
	}
	if discount.GreaterThan(total) {
		discount = total
	}

	remaining := discount
	last := len(groups) - 1
	for i := 0; i < last; i++ {
		share := discount.Mul(groups[i].Subtotal).Div(total).Round(2)
		shares[i] = share
		remaining = remaining.Sub(share)
	}
	shares[last] = clamp(remaining, decimal.Zero, groups[last].Subtotal)
	return shares
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
