package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/vytor/lexiflash/internal/auth"
	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/learnapi"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
)

// SignInClient is the part of the learning API used to sign in.
type SignInClient interface {
	SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
}

// AuthService signs the user in and out of the learning API.
type AuthService interface {
	SignIn(ctx context.Context, creds models.Credentials) (*models.User, error)
	SignOut(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
}

type authService struct {
	api      SignInClient
	provider *auth.Provider
}

// NewAuthService creates a new AuthService
func NewAuthService(api SignInClient, provider *auth.Provider) AuthService {
	return &authService{api: api, provider: provider}
}

func (s *authService) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	creds.Email = strings.TrimSpace(creds.Email)
	if _, err := mail.ParseAddress(creds.Email); err != nil {
		return nil, apperrors.NewValidationError("email", "must be a valid address")
	}
	if creds.Password == "" {
		return nil, apperrors.NewValidationError("password", "is required")
	}

	res, err := s.api.SignIn(ctx, creds)
	if err != nil {
		var statusErr *learnapi.StatusError
		if errors.Is(err, learnapi.ErrUnauthorized) || (errors.As(err, &statusErr) && statusErr.Status == 400) {
			log.Info("sign-in rejected for %s", creds.Email)
			return nil, apperrors.NewUnauthorizedError(err)
		}
		log.Error("sign-in failed: %v", err)
		return nil, apperrors.NewUpstreamError("sign in", err)
	}

	if err := s.provider.Login(ctx, res.AccessToken, res.User); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := res.User
	return &user, nil
}

func (s *authService) SignOut(ctx context.Context) error {
	if err := s.provider.Logout(ctx); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	if !s.provider.Authenticated() {
		return nil, apperrors.NewUnauthorizedError(nil)
	}
	user := s.provider.User()
	if user == nil {
		return nil, apperrors.NewUnauthorizedError(nil)
	}
	return user, nil
}
