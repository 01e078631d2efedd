package middleware

import (
	"net/http"
	"time"

	"github.com/shery7378/multifront/pkg/logger"
)

// Logging writes one access line per request. Failed requests log at warn;
// the error itself is logged where it is written.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if session := rec.Header().Get(CartSessionHeader); session != "" {
				ctx = logg.WithSessionID(ctx, session)
			}

			if rec.status >= http.StatusBadRequest {
				logg.Warn(ctx, "request failed")
				return
			}
			logg.Info(ctx, "request served")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}
