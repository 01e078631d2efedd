package checkout

import (
	"net/http"

	"github.com/shery7378/multifront/api/responses"
	"github.com/shery7378/multifront/api/validators"
	checkoutsvc "github.com/shery7378/multifront/internal/checkout"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

// CheckoutStoreGroups lists the cart split by store.
func CheckoutStoreGroups(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r.Context())
		groups, err := svc.Groups(r.Context(), id.sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStoreGroupsResponse(groups))
	}
}

// CheckoutValidate returns the full validation verdict without placing orders.
func CheckoutValidate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := identityFrom(r.Context())
		result, err := svc.Validate(r.Context(), id.sessionID, payload.toInput(id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckoutSubmit places one order per store in the cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := identityFrom(r.Context())
		outcome, err := svc.Submit(r.Context(), id.sessionID, payload.toInput(id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !outcome.Success {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeSubmissionFailed, outcome.Message).WithDetails(map[string]any{
					"checkout_id":   outcome.CheckoutID.String(),
					"failed_stores": failedStores(outcome),
				}))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSubmitResponse(outcome))
	}
}
