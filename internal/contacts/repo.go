package contacts

import (
	"context"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes contact persistence operations. Every lookup and
// mutation is scoped to the owning user: a record owned by someone else
// behaves exactly like a missing record.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contacts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new contact attached to its owner.
func (r *Repository) Create(ctx context.Context, dto CreateContactDTO) (*models.Contact, error) {
	contact := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// ListByUser returns the user's contacts ordered by id, paged by offset/limit.
func (r *Repository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Contact, error) {
	var list []models.Contact
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID loads a contact owned by the given user.
func (r *Repository) FindByID(ctx context.Context, userID, id uint) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdatePhoneNumber changes the phone number of a contact owned by the
// given user and returns the fresh state.
func (r *Repository) UpdatePhoneNumber(ctx context.Context, userID, id uint, phoneNumber string) (*models.Contact, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("phone_number", phoneNumber)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, userID, id)
}

// Delete removes a contact owned by the given user.
func (r *Repository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
