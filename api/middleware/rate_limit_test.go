package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
)

type fakeLimiterStore struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiterStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func rateLimitedHandler(store *fakeLimiterStore) http.Handler {
	policy := RateLimitPolicy{Window: 5 * time.Second, Requests: 2}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(policy, store, nil, nil)(next)
}

func TestRateLimitBlocksThirdRequest(t *testing.T) {
	store := &fakeLimiterStore{}
	handler := rateLimitedHandler(store)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts/", nil)
		req = req.WithContext(WithUser(req.Context(), &models.User{ID: 7}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: 7}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
}

func TestRateLimitCountsPerUserAndPath(t *testing.T) {
	store := &fakeLimiterStore{}
	handler := rateLimitedHandler(store)

	send := func(userID uint, path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(WithUser(req.Context(), &models.User{ID: userID}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Exhaust user 7's allowance on one path.
	send(7, "/api/contacts/")
	send(7, "/api/contacts/")
	if code := send(7, "/api/contacts/"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}

	// A different user and a different path each have their own counter.
	if code := send(8, "/api/contacts/"); code != http.StatusOK {
		t.Fatalf("other user blocked: %d", code)
	}
	if code := send(7, "/api/users/"); code != http.StatusOK {
		t.Fatalf("other path blocked: %d", code)
	}
}

func TestRateLimitRequiresAuthenticatedUser(t *testing.T) {
	handler := rateLimitedHandler(&fakeLimiterStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(RateLimitPolicy{}, &fakeLimiterStore{}, nil, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
