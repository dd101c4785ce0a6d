package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/akushnir/contactbook-backend/api/middleware"
	"github.com/akushnir/contactbook-backend/api/responses"
	"github.com/akushnir/contactbook-backend/api/validators"
	usersvc "github.com/akushnir/contactbook-backend/internal/users"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/akushnir/contactbook-backend/pkg/logger"
	"github.com/akushnir/contactbook-backend/pkg/types"
)

const maxAvatarMemory = 10 << 20

type updateUserRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=100"`
	LastName    *string    `json:"last_name,omitempty" validate:"omitempty,max=100"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UsersList returns a page of users ordered by id.
func UsersList(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), skip, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UsersMe returns the authenticated caller's profile.
func UsersMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteSuccess(w, usersvc.FromModel(user))
	}
}

// UsersGet returns a user by id.
func UsersGet(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUint(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UsersFindByName returns the first user with a matching first name.
func UsersFindByName(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return findUserHandler(svc, logg, "user_name", func(r *http.Request, svc usersvc.Service, value string) (*usersvc.UserDTO, error) {
		return svc.GetByName(r.Context(), value)
	})
}

// UsersFindByLastName returns the first user with a matching last name.
func UsersFindByLastName(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return findUserHandler(svc, logg, "user_last_name", func(r *http.Request, svc usersvc.Service, value string) (*usersvc.UserDTO, error) {
		return svc.GetByLastName(r.Context(), value)
	})
}

// UsersFindByEmail returns the user registered under the given address.
func UsersFindByEmail(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return findUserHandler(svc, logg, "user_email", func(r *http.Request, svc usersvc.Service, value string) (*usersvc.UserDTO, error) {
		return svc.GetByEmail(r.Context(), strings.ToLower(value))
	})
}

func findUserHandler(svc usersvc.Service, logg *logger.Logger, param string, find func(*http.Request, usersvc.Service, string) (*usersvc.UserDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(r.URL.Query().Get(param))
		if value == "" {
			err := pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": param})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := find(r, svc, value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UsersUpcomingBirthdays lists users whose birthday falls within the next
// seven days.
func UsersUpcomingBirthdays(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.UpcomingBirthdays(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UsersUpdate applies a partial profile update, scoped to the caller.
func UsersUpdate(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.UserFromContext(r.Context())
		if caller == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUint(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), caller.ID, id, usersvc.UpdateUserDTO{
			Name:        body.Name,
			LastName:    body.LastName,
			BirthDate:   body.BirthDate,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UsersDelete removes the caller's account and its contacts.
func UsersDelete(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.UserFromContext(r.Context())
		if caller == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUint(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), caller.ID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Detail{Detail: "User deleted"})
	}
}

// UsersUpdateAvatar accepts a multipart image, normalizes it to 250x250 and
// stores the hosted URL on the caller's profile.
func UsersUpdateAvatar(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.UserFromContext(r.Context())
		if caller == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := r.ParseMultipartForm(maxAvatarMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		user, err := svc.UpdateAvatar(r.Context(), caller.ID, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
