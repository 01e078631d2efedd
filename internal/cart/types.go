package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/internal/stores"
)

// ProductSnapshot is the product data captured when the item was added.
type ProductSnapshot struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Image       string            `json:"image,omitempty"`
	StoreID     *string           `json:"store_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Item is one cart line. Quantity is always >= 1.
type Item struct {
	ProductID string           `json:"product_id"`
	Product   ProductSnapshot  `json:"product"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Quantity  int              `json:"quantity"`
	StoreID   *string          `json:"store_id,omitempty"`
	Store     *stores.Metadata `json:"store,omitempty"`
	VariantID *string          `json:"variant_id,omitempty"`
	Color     *string          `json:"color,omitempty"`
	Size      *string          `json:"size,omitempty"`
}

// ItemKey identifies a cart line. A nil color or size is the same as an empty one.
type ItemKey struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// NewItemKey normalizes optional attributes into a comparable key.
func NewItemKey(productID string, color, size *string) ItemKey {
	return ItemKey{
		ProductID: strings.TrimSpace(productID),
		Color:     deref(color),
		Size:      deref(size),
	}
}

func (i Item) Key() ItemKey {
	return NewItemKey(i.ProductID, i.Color, i.Size)
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddItemInput describes an add-to-cart request. Price arrives as text and
// falls back to zero when it cannot be parsed.
type AddItemInput struct {
	ProductID string
	Product   ProductSnapshot
	Price     string
	Quantity  int
	StoreID   *string
	Store     *stores.Metadata
	VariantID *string
	Color     *string
	Size      *string
}

// Coupon is the discount applied to the whole cart.
type Coupon struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
