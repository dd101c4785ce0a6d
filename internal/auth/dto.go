package auth

import (
	"time"

	"github.com/akushnir/contactbook-backend/internal/users"
)

// SignupRequest captures the profile and credentials sent to the signup
// endpoint.
type SignupRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	LastName    string    `json:"last_name" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=8,max=128"`
	BirthDate   time.Time `json:"birth_date" validate:"required"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
}

// SignupResponse returns the created user together with a human readable
// confirmation hint.
type SignupResponse struct {
	User   *users.UserDTO `json:"user"`
	Detail string         `json:"detail"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair contains the signed tokens produced by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RequestEmailRequest asks for the confirmation mail to be re-sent.
type RequestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MessageResponse wraps endpoints that only return a status message.
type MessageResponse struct {
	Message string `json:"message"`
}
