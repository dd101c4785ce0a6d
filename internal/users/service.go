package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	userNotFoundMessage = "User not found"
	noBirthdaysMessage  = "No birthdays in next 7 days"
	birthdayWindowDays  = 7
	defaultListLimit    = 100
	maxListLimit        = 500
)

// Service exposes user profile operations to the controllers. All mutations
// are scoped to the authenticated caller; a record the caller does not own
// behaves like a missing record.
type Service interface {
	List(ctx context.Context, skip, limit int) ([]UserDTO, error)
	GetByID(ctx context.Context, id uint) (*UserDTO, error)
	GetByName(ctx context.Context, name string) (*UserDTO, error)
	GetByLastName(ctx context.Context, lastName string) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	UpcomingBirthdays(ctx context.Context, now time.Time) ([]UserDTO, error)
	Update(ctx context.Context, callerID, id uint, dto UpdateUserDTO) (*UserDTO, error)
	Delete(ctx context.Context, callerID, id uint) error
	UpdateAvatar(ctx context.Context, userID uint, file io.Reader) (*UserDTO, error)
}

type service struct {
	repo    userRepository
	avatars avatarStore
}

type userRepository interface {
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindByLastName(ctx context.Context, lastName string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindWithUpcomingBirthdays(ctx context.Context, window []MonthDay) ([]models.User, error)
	Update(ctx context.Context, id uint, dto UpdateUserDTO) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	UpdateAvatarURL(ctx context.Context, id uint, url string) (*models.User, error)
}

type avatarStore interface {
	Store(ctx context.Context, userID uint, file io.Reader) (string, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo    userRepository
	Avatars avatarStore
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Avatars == nil {
		return nil, fmt.Errorf("avatar store is required")
	}
	return &service{repo: params.Repo, avatars: params.Avatars}, nil
}

func (s *service) List(ctx context.Context, skip, limit int) ([]UserDTO, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*UserDTO, error) {
	return s.lookup(s.repo.FindByID(ctx, id))
}

func (s *service) GetByName(ctx context.Context, name string) (*UserDTO, error) {
	return s.lookup(s.repo.FindByName(ctx, name))
}

func (s *service) GetByLastName(ctx context.Context, lastName string) (*UserDTO, error) {
	return s.lookup(s.repo.FindByLastName(ctx, lastName))
}

func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	return s.lookup(s.repo.FindByEmail(ctx, email))
}

// UpcomingBirthdays returns users whose birthday falls inside the
// [tomorrow, tomorrow+7] window, handling month and year boundaries.
func (s *service) UpcomingBirthdays(ctx context.Context, now time.Time) ([]UserDTO, error) {
	window := UpcomingBirthdayWindow(now.AddDate(0, 0, 1), birthdayWindowDays)
	list, err := s.repo.FindWithUpcomingBirthdays(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find birthdays")
	}
	if len(list) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, noBirthdaysMessage)
	}
	return FromModels(list), nil
}

func (s *service) Update(ctx context.Context, callerID, id uint, dto UpdateUserDTO) (*UserDTO, error) {
	if callerID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	return s.lookup(s.repo.Update(ctx, id, dto))
}

func (s *service) Delete(ctx context.Context, callerID, id uint) error {
	if callerID != id {
		return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) UpdateAvatar(ctx context.Context, userID uint, file io.Reader) (*UserDTO, error) {
	url, err := s.avatars.Store(ctx, userID, file)
	if err != nil {
		return nil, err
	}
	return s.lookup(s.repo.UpdateAvatarURL(ctx, userID, url))
}

func (s *service) lookup(user *models.User, err error) (*UserDTO, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}
