package controllers

import (
	"context"
	"net/http"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/pkg/config"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const envHeader = "X-Storefront-Env"

// Pinger is implemented by kv backends that hold a live connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the kv backend when it has a connection to ping; the
// memory backend is always ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, store any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if pinger, ok := store.(Pinger); ok {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "kv store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
