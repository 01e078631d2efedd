package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{"http://localhost:3000"}

// CORS applies the storefront origin policy.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", CartSessionHeader, "X-Requested-With"},
		ExposedHeaders:   []string{CartSessionHeader, requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
