package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	contactNotFoundMessage = "Contact not found"
	defaultListLimit       = 100
	maxListLimit           = 500
)

// Service exposes contact operations scoped to the authenticated caller.
// A contact owned by another user behaves like a missing record.
type Service interface {
	List(ctx context.Context, userID uint, skip, limit int) ([]ContactDTO, error)
	Get(ctx context.Context, userID, id uint) (*ContactDTO, error)
	Create(ctx context.Context, userID uint, phoneNumber string) (*ContactDTO, error)
	Update(ctx context.Context, userID, id uint, phoneNumber string) (*ContactDTO, error)
	Delete(ctx context.Context, userID, id uint) error
}

type service struct {
	repo contactRepository
}

type contactRepository interface {
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Contact, error)
	FindByID(ctx context.Context, userID, id uint) (*models.Contact, error)
	Create(ctx context.Context, dto CreateContactDTO) (*models.Contact, error)
	UpdatePhoneNumber(ctx context.Context, userID, id uint, phoneNumber string) (*models.Contact, error)
	Delete(ctx context.Context, userID, id uint) error
}

// ServiceParams bundles the dependencies required to build a contacts service.
type ServiceParams struct {
	Repo contactRepository
}

// NewService constructs a contacts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, userID uint, skip, limit int) ([]ContactDTO, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := s.repo.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contacts")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (*ContactDTO, error) {
	return s.lookup(s.repo.FindByID(ctx, userID, id))
}

func (s *service) Create(ctx context.Context, userID uint, phoneNumber string) (*ContactDTO, error) {
	contact, err := s.repo.Create(ctx, CreateContactDTO{
		PhoneNumber: phoneNumber,
		UserID:      userID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create contact")
	}
	return FromModel(contact), nil
}

func (s *service) Update(ctx context.Context, userID, id uint, phoneNumber string) (*ContactDTO, error) {
	return s.lookup(s.repo.UpdatePhoneNumber(ctx, userID, id, phoneNumber))
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, contactNotFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete contact")
	}
	return nil
}

func (s *service) lookup(contact *models.Contact, err error) (*ContactDTO, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, contactNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup contact")
	}
	return FromModel(contact), nil
}
