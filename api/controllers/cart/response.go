package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/shery7378/multifront/internal/cart"
)

type cartResponse struct {
	Items     []cartsvc.Item  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Coupon    *cartsvc.Coupon `json:"coupon,omitempty"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	if c == nil {
		c = cartsvc.New()
	}
	items := c.Items
	if items == nil {
		items = []cartsvc.Item{}
	}
	return cartResponse{
		Items:     items,
		Total:     c.Total,
		ItemCount: c.ItemCount(),
		Coupon:    c.Coupon,
	}
}
