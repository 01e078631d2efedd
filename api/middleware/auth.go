package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shery7378/multifront/api/responses"
	"github.com/shery7378/multifront/pkg/auth"
	"github.com/shery7378/multifront/pkg/config"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

// OptionalAuth lets guests through and binds signed-in shoppers to the
// request. A token that is presented but fails verification is a 401.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	verifier, verr := auth.NewVerifier(cfg)
	if verr != nil && logg != nil {
		logg.Warn(context.Background(), "jwt verification disabled, bearer tokens will be rejected")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.TrimSpace(header) == "" {
				next.ServeHTTP(w, r)
				return
			}
			if verifier == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, verr, "token verification unavailable"))
				return
			}

			id, err := verifier.Verify(header)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithEmail(WithUserID(r.Context(), id.UserID), id.Email)
			if logg != nil {
				ctx = logg.WithUserID(ctx, id.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
