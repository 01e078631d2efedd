package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/api/validators"
	cartsvc "github.com/shery7378/multifront/internal/cart"
	"github.com/shery7378/multifront/internal/stores"
)

const maxAttributeLen = 120

type productRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	StoreID     *string           `json:"store_id"`
	Attributes  map[string]string `json:"attributes"`
}

type addItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Product   productRequest   `json:"product"`
	Price     string           `json:"price"`
	Quantity  int              `json:"quantity"`
	StoreID   *string          `json:"store_id"`
	Store     *stores.Metadata `json:"store"`
	VariantID *string          `json:"variant_id"`
	Color     *string          `json:"color"`
	Size      *string          `json:"size"`
}

type updateQuantityRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
	Quantity  int     `json:"quantity" validate:"gte=0"`
}

type applyCouponRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Discount string `json:"discount" validate:"required,money"`
}

type recoveryTokenRequest struct {
	Token string `json:"token" validate:"required,max=255"`
}

func (r addItemRequest) toInput() cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		ProductID: validators.SanitizeString(r.ProductID, maxAttributeLen),
		Product: cartsvc.ProductSnapshot{
			Name:        r.Product.Name,
			Description: r.Product.Description,
			Image:       r.Product.Image,
			StoreID:     validators.SanitizeOptional(r.Product.StoreID, maxAttributeLen),
			Attributes:  r.Product.Attributes,
		},
		Price:     r.Price,
		Quantity:  r.Quantity,
		StoreID:   validators.SanitizeOptional(r.StoreID, maxAttributeLen),
		Store:     r.Store,
		VariantID: validators.SanitizeOptional(r.VariantID, maxAttributeLen),
		Color:     validators.SanitizeOptional(r.Color, maxAttributeLen),
		Size:      validators.SanitizeOptional(r.Size, maxAttributeLen),
	}
}

func (r applyCouponRequest) toCoupon() (cartsvc.Coupon, error) {
	discount, err := decimal.NewFromString(r.Discount)
	if err != nil {
		return cartsvc.Coupon{}, err
	}
	return cartsvc.Coupon{Code: validators.SanitizeString(r.Code, 64), Discount: discount}, nil
}
