package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shery7378/multifront/api/responses"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy defines the throttling parameters for a traffic surface.
type RateLimitPolicy struct {
	name   string
	window time.Duration
	limit  int64
}

// NewRateLimitPolicy builds a policy with the supplied window and limit.
func NewRateLimitPolicy(name string, window time.Duration, limit int64) RateLimitPolicy {
	return RateLimitPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		window: window,
		limit:  limit,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p RateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "default"
	}
	return p.name
}

// RateLimit caps requests per cart session, falling back to client IP when
// no session is attached.
func RateLimit(policy RateLimitPolicy, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			subject := "session:" + SessionIDFromContext(ctx)
			if subject == "session:" {
				subject = "ip:" + clientIP(r)
			}
			scope := policy.normalizedName() + ":" + subject

			allowed, count, err := limiter.FixedWindowAllow(ctx, scope, policy.limit, policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"policy":         policy.normalizedName(),
						"subject":        subject,
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					}), "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
