package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/productmgmt-backend/api/responses"
	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
)

const (
	envHeader    = "X-ProductMgmt-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is any dependency pinged by the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis. A nil pinger is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{}
		var failed *pkgerrors.Error
		for _, dep := range []struct {
			name   string
			pinger Pinger
		}{
			{"database", dbP},
			{"redis", redisP},
		} {
			if dep.pinger == nil {
				checks[dep.name] = "skipped"
				continue
			}
			if err := dep.pinger.Ping(ctx); err != nil {
				checks[dep.name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, dep.name+" unavailable")
				}
				continue
			}
			checks[dep.name] = "ok"
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed.WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
