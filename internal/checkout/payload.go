package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/internal/checkout/helpers"
	"github.com/shery7378/multifront/pkg/enums"
	"github.com/shery7378/multifront/pkg/orderapi"
)

// PaymentDescriptor builds the payment shape sent with every store order.
// An explicit type wins, then a bare method id (treated as a card), then cash on delivery.
func PaymentDescriptor(methodType, methodID string) orderapi.PaymentMethod {
	methodID = strings.TrimSpace(methodID)
	if parsed, err := enums.ParsePaymentMethodType(methodType); err == nil {
		switch parsed {
		case enums.PaymentMethodTypePayPal:
			return orderapi.PaymentMethod{Type: parsed.String(), PayPal: true}
		case enums.PaymentMethodTypeCard, enums.PaymentMethodTypeStripe:
			return orderapi.PaymentMethod{Type: parsed.String(), PaymentMethodID: methodID}
		case enums.PaymentMethodTypeCashOnDelivery:
			return orderapi.PaymentMethod{Type: parsed.String()}
		}
	}
	if methodID != "" {
		return orderapi.PaymentMethod{Type: enums.PaymentMethodTypeCard.String(), PaymentMethodID: methodID}
	}
	return orderapi.PaymentMethod{Type: enums.PaymentMethodTypeCashOnDelivery.String()}
}

type orderContext struct {
	email           string
	phone           string
	deliveryAddress string
	deliveryOption  string
	payment         orderapi.PaymentMethod
	slots           map[string]helpers.DeliverySlot
	subscriptions   map[string]orderapi.SubscriptionTerms
}

// buildOrderRequests emits one order per store group. shares holds the
// discount allocated to each group, index aligned with groups.
func buildOrderRequests(groups helpers.StoreGroups, shares []decimal.Decimal, oc orderContext) []orderapi.CreateOrderRequest {
	requests := make([]orderapi.CreateOrderRequest, 0, len(groups))
	for i, group := range groups {
		slot := oc.slots[group.StoreID]
		discount := decimal.Zero
		if i < len(shares) {
			discount = shares[i]
		}

		items := make([]orderapi.OrderItem, 0, len(group.Items))
		for _, item := range group.Items {
			line := orderapi.OrderItem{
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				VariantID:    item.VariantID,
				Color:        item.Color,
				Size:         item.Size,
				Price:        item.LineTotal(),
				DeliveryDate: slot.Date,
				DeliveryTime: slot.Time,
			}
			if terms, ok := oc.subscriptions[item.ProductID]; ok {
				t := terms
				line.Subscription = &t
			}
			items = append(items, line)
		}

		requests = append(requests, orderapi.CreateOrderRequest{
			StoreID:         group.StoreID,
			CustomerEmail:   oc.email,
			CustomerPhone:   oc.phone,
			DeliveryAddress: oc.deliveryAddress,
			DeliveryOption:  oc.deliveryOption,
			PaymentMethod:   oc.payment,
			Items:           items,
			Subtotal:        group.Subtotal,
			Discount:        discount,
			Total:           group.Subtotal.Sub(discount),
			Status:          orderapi.OrderStatusPending,
		})
	}
	return requests
}
