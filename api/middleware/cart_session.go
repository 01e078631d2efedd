package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shery7378/multifront/pkg/logger"
)

// CartSessionHeader carries the storefront's cart session id.
const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the cart session for the request. A client-supplied
// header wins; signed-in shoppers without one use a session bound to their
// user id; guests get a fresh id echoed back in the response header.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if sessionID == "" {
				if userID := UserIDFromContext(r.Context()); userID != "" {
					sessionID = "user:" + userID
				} else {
					sessionID = uuid.NewString()
				}
			}
			w.Header().Set(CartSessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
