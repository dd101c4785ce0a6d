package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akushnir/contactbook-backend/internal/mail"
	"github.com/akushnir/contactbook-backend/internal/users"
	pkgauth "github.com/akushnir/contactbook-backend/pkg/auth"
	"github.com/akushnir/contactbook-backend/pkg/config"
	"github.com/akushnir/contactbook-backend/pkg/db"
	"github.com/akushnir/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
	"github.com/akushnir/contactbook-backend/pkg/gravatar"
	"github.com/akushnir/contactbook-backend/pkg/logger"
	"github.com/akushnir/contactbook-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	signupDetail            = "User successfully created. Check your email for confirmation."
	accountExistsMessage    = "Account already exists"
	invalidEmailMessage     = "Invalid email"
	emailNotConfirmedMsg    = "Email not confirmed"
	invalidPasswordMessage  = "Invalid password"
	invalidRefreshMessage   = "Invalid refresh token"
	verificationErrMessage  = "Verification error"
	alreadyConfirmedMessage = "Your email is already confirmed"
	emailConfirmedMessage   = "Email confirmed"
	checkEmailMessage       = "Check your email for confirmation"
	invalidTokenMessage     = "Could not validate credentials"

	gravatarSize = 250
	tokenType    = "bearer"
)

// Service defines the behavior needed by the auth controller and the
// authentication middleware.
type Service interface {
	Signup(ctx context.Context, req SignupRequest, host string) (*SignupResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ConfirmEmail(ctx context.Context, token string) (*MessageResponse, error)
	RequestEmail(ctx context.Context, req RequestEmailRequest, host string) (*MessageResponse, error)
	Identify(ctx context.Context, accessToken string) (*models.User, error)
}

type service struct {
	users  userRepository
	mail   mail.Sender
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
	now    func() time.Time
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id uint, token *string) error
	MarkConfirmed(ctx context.Context, id uint) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	MailSender     mail.Sender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.MailSender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:  params.UserRepo,
		mail:   params.MailSender,
		jwtCfg: params.JWTConfig,
		pwCfg:  params.PasswordConfig,
		logg:   params.Logger,
		now:    now,
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest, host string) (*SignupResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, accountExistsMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	avatarURL := gravatar.URL(email, gravatarSize)
	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         strings.TrimSpace(req.Name),
		LastName:     strings.TrimSpace(req.LastName),
		BirthDate:    req.BirthDate,
		Email:        email,
		PasswordHash: hash,
		Description:  req.Description,
		AvatarURL:    &avatarURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, accountExistsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.dispatchConfirmation(user, host)

	return &SignupResponse{
		User:   users.FromModel(user),
		Detail: signupDetail,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidEmailMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.Confirmed {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, emailNotConfirmedMsg)
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidPasswordMessage)
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.Parse(s.jwtCfg, refreshToken, pkgauth.ScopeRefresh)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidRefreshMessage)
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidRefreshMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	// The stored token is the only live one. Presenting any other token,
	// including a previously rotated one, revokes the stored token so the
	// whole session has to log in again.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.users.SetRefreshToken(ctx, user.ID, nil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear refresh token")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidRefreshMessage)
	}

	return s.issueTokens(ctx, user)
}

func (s *service) ConfirmEmail(ctx context.Context, token string) (*MessageResponse, error) {
	claims, err := pkgauth.Parse(s.jwtCfg, token, pkgauth.ScopeEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, verificationErrMessage)
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, verificationErrMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.Confirmed {
		return &MessageResponse{Message: alreadyConfirmedMessage}, nil
	}

	if err := s.users.MarkConfirmed(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm email")
	}
	return &MessageResponse{Message: emailConfirmedMessage}, nil
}

func (s *service) RequestEmail(ctx context.Context, req RequestEmailRequest, host string) (*MessageResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the account exists.
			return &MessageResponse{Message: checkEmailMessage}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.Confirmed {
		return &MessageResponse{Message: alreadyConfirmedMessage}, nil
	}

	s.dispatchConfirmation(user, host)
	return &MessageResponse{Message: checkEmailMessage}, nil
}

func (s *service) Identify(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := pkgauth.Parse(s.jwtCfg, accessToken, pkgauth.ScopeAccess)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage)
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now()
	accessToken, err := pkgauth.Mint(s.jwtCfg, now, user.Email, pkgauth.ScopeAccess)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refreshToken, err := pkgauth.Mint(s.jwtCfg, now, user.Email, pkgauth.ScopeRefresh)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
	}, nil
}

// dispatchConfirmation mints an email-scope token and sends the confirmation
// mail in the background. Failures are logged by the dispatcher and never
// abort the request.
func (s *service) dispatchConfirmation(user *models.User, host string) {
	token, err := pkgauth.Mint(s.jwtCfg, s.now(), user.Email, pkgauth.ScopeEmail)
	if err != nil {
		s.logg.Error(context.Background(), "mint email token failed", err)
		return
	}
	mail.Dispatch(s.logg, s.mail, user.Email, user.Name, host, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
