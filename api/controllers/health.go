package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shery7378/multifront/api/responses"
	"github.com/shery7378/multifront/pkg/config"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency with a health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Multifront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports the first failure.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Multifront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(map[string]string{"dependency": name}))
				return
			}
			checks[name] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
