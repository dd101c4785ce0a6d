package auth

import "github.com/golang-jwt/jwt/v5"

// Scope discriminates what a signed token may be used for. A token minted
// for one scope is never accepted where another scope is expected.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
	ScopeEmail   Scope = "email_token"
)

func (s Scope) IsValid() bool {
	switch s {
	case ScopeAccess, ScopeRefresh, ScopeEmail:
		return true
	}
	return false
}

// Claims represents the typed JWT issued to clients. Subject carries the
// user's email address.
type Claims struct {
	Scope Scope `json:"scope"`
	jwt.RegisteredClaims
}
