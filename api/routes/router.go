package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akushnir/contactbook-backend/api/controllers"
	"github.com/akushnir/contactbook-backend/api/middleware"
	"github.com/akushnir/contactbook-backend/internal/auth"
	contactsvc "github.com/akushnir/contactbook-backend/internal/contacts"
	usersvc "github.com/akushnir/contactbook-backend/internal/users"
	"github.com/akushnir/contactbook-backend/pkg/config"
	"github.com/akushnir/contactbook-backend/pkg/db"
	"github.com/akushnir/contactbook-backend/pkg/logger"
	"github.com/akushnir/contactbook-backend/pkg/metrics"
	"github.com/akushnir/contactbook-backend/pkg/redis"
	"github.com/akushnir/contactbook-backend/pkg/storage/s3"
)

// RateLimiter is the store the per-caller throttle counts against.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Pingers carries the dependency health checks surfaced by /health/ready.
type Pingers struct {
	DB      db.Pinger
	Redis   redis.Pinger
	Storage s3.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers Pingers,
	limiter RateLimiter,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
	authService auth.Service,
	userService usersvc.Service,
	contactService contactsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	policy := middleware.RateLimitPolicy{
		Window:   cfg.RateLimit.Window,
		Requests: cfg.RateLimit.Requests,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers.DB, pingers.Redis, pingers.Storage))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", controllers.AuthSignup(authService, logg))
			r.Post("/login", controllers.AuthLogin(authService, logg))
			r.Get("/refresh_token", controllers.AuthRefresh(authService, logg))
			r.Get("/confirmed_email/{token}", controllers.AuthConfirmEmail(authService, logg))
			r.Post("/request_email", controllers.AuthRequestEmail(authService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me/", controllers.UsersMe(logg))
				r.Patch("/avatar", controllers.UsersUpdateAvatar(userService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimit(policy, limiter, httpMetrics, logg))
					r.Get("/", controllers.UsersList(userService, logg))
					r.Get("/user_name/", controllers.UsersFindByName(userService, logg))
					r.Get("/user_last_name/", controllers.UsersFindByLastName(userService, logg))
					r.Get("/user_email/", controllers.UsersFindByEmail(userService, logg))
					r.Get("/next_7_days_birthdays/", controllers.UsersUpcomingBirthdays(userService, logg))
					r.Get("/{userID}", controllers.UsersGet(userService, logg))
					r.Put("/{userID}", controllers.UsersUpdate(userService, logg))
					r.Delete("/{userID}", controllers.UsersDelete(userService, logg))
				})
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Use(middleware.RateLimit(policy, limiter, httpMetrics, logg))
				r.Get("/", controllers.ContactsList(contactService, logg))
				r.Post("/", controllers.ContactsCreate(contactService, logg))
				r.Get("/{contactID}", controllers.ContactsGet(contactService, logg))
				r.Put("/{contactID}", controllers.ContactsUpdate(contactService, logg))
				r.Delete("/{contactID}", controllers.ContactsDelete(contactService, logg))
			})
		})
	})

	return r
}
