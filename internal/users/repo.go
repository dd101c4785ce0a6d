package users

import (
	"context"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// List returns users ordered by id, paged by offset/limit.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	var list []models.User
	q := r.db.WithContext(ctx).Order("id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByName returns the first user with the given first name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLastName returns the first user with the given last name.
func (r *Repository) FindByLastName(ctx context.Context, lastName string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("last_name = ?", lastName).Order("id").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindWithUpcomingBirthdays returns users whose birthday (month and day)
// falls inside the provided window.
func (r *Repository) FindWithUpcomingBirthdays(ctx context.Context, window []MonthDay) ([]models.User, error) {
	if len(window) == 0 {
		return []models.User{}, nil
	}

	cond := r.db.Session(&gorm.Session{NewDB: true})
	for _, md := range window {
		cond = cond.Or(
			"EXTRACT(MONTH FROM birth_date) = ? AND EXTRACT(DAY FROM birth_date) = ?",
			int(md.Month), md.Day,
		)
	}

	var list []models.User
	if err := r.db.WithContext(ctx).Where(cond).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update applies the non-nil fields and returns the fresh state. A missing
// id surfaces as gorm.ErrRecordNotFound.
func (r *Repository) Update(ctx context.Context, id uint, dto UpdateUserDTO) (*models.User, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.LastName != nil {
		updates["last_name"] = *dto.LastName
	}
	if dto.BirthDate != nil {
		updates["birth_date"] = *dto.BirthDate
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// UpdateAvatarURL persists the avatar delivery URL.
func (r *Repository) UpdateAvatarURL(ctx context.Context, id uint, url string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("avatar_url", url)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// SetRefreshToken overwrites the stored refresh token. Passing nil clears it.
func (r *Repository) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("refresh_token", token).Error
}

// MarkConfirmed flips the confirmed flag. The flag never reverts.
func (r *Repository) MarkConfirmed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("confirmed", true).Error
}

// Delete removes the user. Owned contacts go with it via the FK cascade;
// sqlite test databases do not enforce it, so contacts are removed
// explicitly inside one transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
