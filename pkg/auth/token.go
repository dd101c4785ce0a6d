package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/akushnir/contactbook-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrScopeMismatch signals a structurally valid token presented for the
// wrong purpose, e.g. an access token on the refresh endpoint.
var ErrScopeMismatch = errors.New("token scope mismatch")

// TTLFor returns the configured lifetime for the given scope.
func TTLFor(cfg config.JWTConfig, scope Scope) time.Duration {
	switch scope {
	case ScopeRefresh:
		return cfg.RefreshTTL()
	case ScopeEmail:
		return cfg.EmailTokenTTL()
	default:
		return cfg.AccessTTL()
	}
}

// Mint issues a signed JWT for the given subject email, scoped to a single
// purpose, using the TTL configured for that scope.
func Mint(cfg config.JWTConfig, now time.Time, email string, scope Scope) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if email == "" {
		return "", fmt.Errorf("subject email is required")
	}
	if !scope.IsValid() {
		return "", fmt.Errorf("invalid token scope %q", scope)
	}

	ttl := TTLFor(cfg, scope)
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Parse validates the JWT string, enforces the expected scope, and returns
// typed claims.
func Parse(cfg config.JWTConfig, tokenString string, expected Scope) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	if claims.Scope != expected {
		return nil, ErrScopeMismatch
	}

	return claims, nil
}
