package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/akushnir/contactbook-backend/internal/auth"
	contactsvc "github.com/akushnir/contactbook-backend/internal/contacts"
	usersvc "github.com/akushnir/contactbook-backend/internal/users"
	"github.com/akushnir/contactbook-backend/pkg/config"
	"github.com/akushnir/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/akushnir/contactbook-backend/pkg/logger"
	"github.com/akushnir/contactbook-backend/pkg/metrics"
)

const validAccessToken = "valid-access-token"

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubLimiter struct {
	counts map[string]int64
}

func (l *stubLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if l.counts == nil {
		l.counts = map[string]int64{}
	}
	l.counts[scope]++
	count := l.counts[scope]
	return count <= limit, count, nil
}

type routerAuthService struct {
	user *models.User
}

func (s *routerAuthService) Signup(context.Context, auth.SignupRequest, string) (*auth.SignupResponse, error) {
	return &auth.SignupResponse{
		User:   usersvc.FromModel(s.user),
		Detail: "User successfully created. Check your email for confirmation.",
	}, nil
}

func (s *routerAuthService) Login(context.Context, auth.LoginRequest) (*auth.TokenPair, error) {
	return &auth.TokenPair{AccessToken: validAccessToken, RefreshToken: "refresh", TokenType: "bearer"}, nil
}

func (s *routerAuthService) Refresh(context.Context, string) (*auth.TokenPair, error) {
	return &auth.TokenPair{AccessToken: validAccessToken, RefreshToken: "refresh", TokenType: "bearer"}, nil
}

func (s *routerAuthService) ConfirmEmail(context.Context, string) (*auth.MessageResponse, error) {
	return &auth.MessageResponse{Message: "Email confirmed"}, nil
}

func (s *routerAuthService) RequestEmail(context.Context, auth.RequestEmailRequest, string) (*auth.MessageResponse, error) {
	return &auth.MessageResponse{Message: "Check your email for confirmation"}, nil
}

func (s *routerAuthService) Identify(_ context.Context, accessToken string) (*models.User, error) {
	if accessToken != validAccessToken {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Could not validate credentials")
	}
	return s.user, nil
}

type routerUserService struct{}

func (routerUserService) List(context.Context, int, int) ([]usersvc.UserDTO, error) {
	return []usersvc.UserDTO{}, nil
}

func (routerUserService) GetByID(context.Context, uint) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: 1}, nil
}

func (routerUserService) GetByName(context.Context, string) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: 1}, nil
}

func (routerUserService) GetByLastName(context.Context, string) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: 1}, nil
}

func (routerUserService) GetByEmail(context.Context, string) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: 1}, nil
}

func (routerUserService) UpcomingBirthdays(context.Context, time.Time) ([]usersvc.UserDTO, error) {
	return []usersvc.UserDTO{}, nil
}

func (routerUserService) Update(context.Context, uint, uint, usersvc.UpdateUserDTO) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: 1}, nil
}

func (routerUserService) Delete(context.Context, uint, uint) error { return nil }

func (routerUserService) UpdateAvatar(context.Context, uint, io.Reader) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: 1}, nil
}

type routerContactService struct{}

func (routerContactService) List(context.Context, uint, int, int) ([]contactsvc.ContactDTO, error) {
	return []contactsvc.ContactDTO{}, nil
}

func (routerContactService) Get(context.Context, uint, uint) (*contactsvc.ContactDTO, error) {
	return &contactsvc.ContactDTO{ID: 1}, nil
}

func (routerContactService) Create(_ context.Context, userID uint, phoneNumber string) (*contactsvc.ContactDTO, error) {
	return &contactsvc.ContactDTO{ID: 1, UserID: userID, PhoneNumber: phoneNumber}, nil
}

func (routerContactService) Update(context.Context, uint, uint, string) (*contactsvc.ContactDTO, error) {
	return &contactsvc.ContactDTO{ID: 1}, nil
}

func (routerContactService) Delete(context.Context, uint, uint) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8000"},
		RateLimit: config.RateLimitConfig{
			Window:   5 * time.Second,
			Requests: 2,
		},
	}
}

func buildRouter(t *testing.T, cfg *config.Config, pingers Pingers, registry *prometheus.Registry) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	user := &models.User{ID: 7, Name: "Anna", Email: "anna@example.com", Confirmed: true}

	httpMetrics := metrics.NewHTTPMetrics(nil)
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	return NewRouter(
		cfg,
		logg,
		pingers,
		&stubLimiter{},
		httpMetrics,
		registry,
		&routerAuthService{user: user},
		routerUserService{},
		routerContactService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := buildRouter(t, testConfig(), Pingers{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
	if env := w.Header().Get("X-Contactbook-Env"); env != "test" {
		t.Fatalf("env header %q", env)
	}
}

func TestRouterHealthReadyReportsDependencyFailure(t *testing.T) {
	pingers := Pingers{
		DB:    stubPinger{},
		Redis: stubPinger{err: errors.New("redis: connection refused")},
	}
	router := buildRouter(t, testConfig(), pingers, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 but got %d", w.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	router := buildRouter(t, testConfig(), Pingers{}, registry)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
}

func TestRouterSignupReachable(t *testing.T) {
	router := buildRouter(t, testConfig(), Pingers{}, nil)

	body := `{"name":"Anna","last_name":"Koval","email":"anna@example.com","password":"sup3rsecret","birth_date":"1994-02-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	router := buildRouter(t, testConfig(), Pingers{}, nil)

	for _, path := range []string{"/api/users/me/", "/api/users/", "/api/contacts/"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status 401 but got %d", path, w.Code)
		}
	}
}

func TestRouterAuthorizedProfileRequest(t *testing.T) {
	router := buildRouter(t, testConfig(), Pingers{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/", nil)
	req.Header.Set("Authorization", "Bearer "+validAccessToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data usersvc.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ID != 7 || envelope.Data.Email != "anna@example.com" {
		t.Fatalf("unexpected profile: %+v", envelope.Data)
	}
}

func TestRouterThrottlesRepeatedContactReads(t *testing.T) {
	router := buildRouter(t, testConfig(), Pingers{}, nil)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts/", nil)
		req.Header.Set("Authorization", "Bearer "+validAccessToken)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("first two requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be throttled: %v", statuses)
	}
}

func TestRouterProfileExemptFromThrottle(t *testing.T) {
	router := buildRouter(t, testConfig(), Pingers{}, nil)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me/", nil)
		req.Header.Set("Authorization", "Bearer "+validAccessToken)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200 but got %d", i+1, w.Code)
		}
	}
}
