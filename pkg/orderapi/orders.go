package orderapi

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// OrderStatusPending marks a freshly submitted order.
const OrderStatusPending = "pending"

// CreateOrderRequest is the per-store order body sent to POST /orders.
type CreateOrderRequest struct {
	StoreID         string          `json:"store_id"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	DeliveryOption  string          `json:"delivery_option,omitempty"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
}

// PaymentMethod takes one of three shapes: paypal flag only, a card-like
// method carrying an id, or cash on delivery.
type PaymentMethod struct {
	Type            string `json:"type"`
	PayPal          bool   `json:"paypal,omitempty"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
}

type OrderItem struct {
	ProductID    string             `json:"product_id"`
	Quantity     int                `json:"quantity"`
	VariantID    *string            `json:"variant_id,omitempty"`
	Color        *string            `json:"color,omitempty"`
	Size         *string            `json:"size,omitempty"`
	Price        decimal.Decimal    `json:"price"`
	DeliveryDate string             `json:"delivery_date,omitempty"`
	DeliveryTime string             `json:"delivery_time,omitempty"`
	Subscription *SubscriptionTerms `json:"subscription,omitempty"`
}

// SubscriptionTerms describes an opted-in recurring delivery.
type SubscriptionTerms struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval,omitempty"`
}

// CreateOrderResult carries what the caller needs from one submission.
type CreateOrderResult struct {
	StatusCode  int
	OrderID     *string
	RedirectURL string
}

// Created reports whether the order API accepted the order.
func (r *CreateOrderResult) Created() bool {
	return r != nil && r.StatusCode == http.StatusCreated
}

// CreateOrder submits one store order. Any HTTP response, whatever its status,
// is returned as a result; only transport failures are errors.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "orders", req)
	if err != nil {
		return nil, err
	}
	result := &CreateOrderResult{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusCreated {
		result.OrderID = ExtractOrderID(resp.Body)
	}
	result.RedirectURL = ExtractRedirectURL(resp.Body)
	return result, nil
}
