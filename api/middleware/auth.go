package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akushnir/contactbook-backend/api/responses"
	"github.com/akushnir/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/akushnir/contactbook-backend/pkg/logger"
)

// Identifier resolves an access token to the user it was minted for.
type Identifier interface {
	Identify(ctx context.Context, accessToken string) (*models.User, error)
}

// Auth validates a bearer access token and seeds the request context with
// the authenticated user.
func Auth(identifier Identifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			user, err := identifier.Identify(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header, with or
// without the bearer prefix.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
