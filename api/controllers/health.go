package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/akushnir/contactbook-backend/api/responses"
	"github.com/akushnir/contactbook-backend/pkg/config"
	"github.com/akushnir/contactbook-backend/pkg/db"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/akushnir/contactbook-backend/pkg/logger"
	"github.com/akushnir/contactbook-backend/pkg/redis"
	"github.com/akushnir/contactbook-backend/pkg/storage/s3"
	"go.uber.org/multierr"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Contactbook-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports the aggregate.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, storageP s3.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Contactbook-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var err error
		if dbP != nil {
			err = multierr.Append(err, dbP.Ping(ctx))
		}
		if redisP != nil {
			err = multierr.Append(err, redisP.Ping(ctx))
		}
		if storageP != nil {
			err = multierr.Append(err, storageP.Ping(ctx))
		}

		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
