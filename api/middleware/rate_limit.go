package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akushnir/contactbook-backend/api/responses"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/akushnir/contactbook-backend/pkg/logger"
	"github.com/akushnir/contactbook-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy defines a fixed-window throttle applied per caller and
// per route.
type RateLimitPolicy struct {
	Window   time.Duration
	Requests int
}

func (p RateLimitPolicy) enabled() bool {
	return p.Window > 0 && p.Requests > 0
}

// RateLimit throttles authenticated traffic. Each user gets an independent
// counter per method and path, so hammering one endpoint does not lock the
// caller out of the rest of the API. Requires Auth to run first.
func RateLimit(policy RateLimitPolicy, store rateLimiterStore, httpMetrics *metrics.HTTPMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user := UserFromContext(ctx)
			if user == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			scope := fmt.Sprintf("user:%d:%s:%s", user.ID, r.Method, r.URL.Path)
			allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(policy.Requests), policy.Window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				httpMetrics.IncRateLimited(routeLabel(r))
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          policy.Requests,
						"window_seconds": int(policy.Window.Seconds()),
					})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, fmt.Sprintf("No more than %d requests per %d seconds", policy.Requests, int(policy.Window.Seconds()))))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
