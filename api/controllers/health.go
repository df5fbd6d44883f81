package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/responses"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/config"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Restaurant-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis so the probe fails before traffic
// hits a half-wired instance.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Restaurant-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
				return
			}
			checks["database"] = "ok"
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
