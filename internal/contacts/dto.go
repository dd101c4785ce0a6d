package contacts

import (
	"time"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
)

// ContactDTO is the transport shape for a phone record.
type ContactDTO struct {
	ID          uint      `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateContactDTO holds the data required to persist a new contact.
type CreateContactDTO struct {
	PhoneNumber string
	UserID      uint
}

func FromModel(c *models.Contact) *ContactDTO {
	if c == nil {
		return nil
	}
	return &ContactDTO{
		ID:          c.ID,
		PhoneNumber: c.PhoneNumber,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromModels(list []models.Contact) []ContactDTO {
	out := make([]ContactDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateContactDTO) ToModel() *models.Contact {
	return &models.Contact{
		PhoneNumber: c.PhoneNumber,
		UserID:      c.UserID,
	}
}
