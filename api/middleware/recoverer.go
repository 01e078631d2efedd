package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shery7378/multifront/api/responses"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				err := fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				ctx := r.Context()
				if logg != nil {
					logg.Error(ctx, "handler panicked", err)
				}
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected failure"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
