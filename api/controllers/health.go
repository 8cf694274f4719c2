package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
)

// Pinger reports backing-store liveness for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pharmacos-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, pingers ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pharmacos-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		var unhealthy error
		for _, pinger := range pingers {
			if pinger == nil {
				continue
			}
			unhealthy = multierr.Append(unhealthy, pinger.Ping(ctx))
		}
		if unhealthy != nil {
			responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, unhealthy, "dependency unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
