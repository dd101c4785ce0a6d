package users

import (
	"time"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	LastName    string    `json:"last_name"`
	BirthDate   time.Time `json:"birth_date"`
	Email       string    `json:"email"`
	Description *string   `json:"description,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Confirmed   bool      `json:"confirmed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	LastName     string
	BirthDate    time.Time
	Email        string
	PasswordHash string
	Description  *string
	AvatarURL    *string
}

// UpdateUserDTO carries the mutable profile fields. Nil fields are left
// untouched.
type UpdateUserDTO struct {
	Name        *string
	LastName    *string
	BirthDate   *time.Time
	Description *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		LastName:    u.LastName,
		BirthDate:   u.BirthDate,
		Email:       u.Email,
		Description: u.Description,
		AvatarURL:   u.AvatarURL,
		Confirmed:   u.Confirmed,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         c.Name,
		LastName:     c.LastName,
		BirthDate:    c.BirthDate,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Description:  c.Description,
		AvatarURL:    c.AvatarURL,
	}
}
