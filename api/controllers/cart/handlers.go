package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/shery7378/multifront/api/middleware"
	"github.com/shery7378/multifront/api/responses"
	"github.com/shery7378/multifront/api/validators"
	cartsvc "github.com/shery7378/multifront/internal/cart"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/metrics"
)

type tokenSaver interface {
	SaveToken(ctx context.Context, sessionID, token string) error
}

// CartFetch returns the session cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		record, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartAddItem adds a product or bumps the quantity of a matching line.
func CartAddItem(svc cartsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncCartOp("add")
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartUpdateQuantity sets a line's quantity. Zero removes the line.
func CartUpdateQuantity(svc cartsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		key := cartsvc.NewItemKey(payload.ProductID, payload.Color, payload.Size)

		var (
			record *cartsvc.Cart
			err    error
			op     = "update_quantity"
		)
		if payload.Quantity == 0 {
			op = "remove"
			record, err = svc.RemoveItem(r.Context(), sessionID, key)
		} else {
			record, err = svc.UpdateQuantity(r.Context(), sessionID, key, payload.Quantity)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncCartOp(op)
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartRemoveItem drops the line identified by the product_id, color and size query parameters.
func CartRemoveItem(svc cartsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		productID := strings.TrimSpace(q.Get("product_id"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required"))
			return
		}
		color, size := q.Get("color"), q.Get("size")
		key := cartsvc.NewItemKey(productID, &color, &size)

		record, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncCartOp("remove")
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

func CartApplyCoupon(svc cartsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coupon, err := payload.toCoupon()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "discount must be a decimal amount"))
			return
		}

		record, err := svc.ApplyCoupon(r.Context(), middleware.SessionIDFromContext(r.Context()), coupon)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncCartOp("apply_coupon")
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

func CartClear(svc cartsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncCartOp("clear")
		responses.WriteSuccess(w, newCartResponse(cartsvc.New()))
	}
}

// CartSaveRecoveryToken remembers the abandoned-cart token the shopper arrived with.
func CartSaveRecoveryToken(svc tokenSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recoveryTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SaveToken(r.Context(), middleware.SessionIDFromContext(r.Context()), strings.TrimSpace(payload.Token)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
