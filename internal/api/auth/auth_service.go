package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/rfcosta/notekeep/config"
	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/types"
)

// Ensure AuthServiceImpl implements the AuthService interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines registration and login. Both return a freshly issued
// identity token on success.
type AuthService interface {
	Register(ctx context.Context, username, password string, profile types.UpdateProfileParams) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	cfg    *config.Config
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

// Register validates the credentials, hashes the password with bcrypt and
// creates the profile and credential records.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string, profile types.UpdateProfileParams) (string, error) {
	if err := validateUsername(username); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUserWithProfile(ctx, username, string(hashed), profile)
	if err != nil {
		return "", err
	}

	token, err := IssueToken(user.ID.String(), s.cfg.JWT)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue token after registration", slog.Any("error", err))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Login verifies the credentials. Unknown usernames and wrong passwords yield
// the same error, so callers cannot enumerate accounts.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid username or password", api.ErrUnauthenticated)
		}
		return "", err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid username or password", api.ErrUnauthenticated)
	}

	token, err := IssueToken(user.ID.String(), s.cfg.JWT)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue token after login", slog.Any("error", err))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters long", api.ErrValidation)
	}
	for _, r := range username {
		if unicode.IsSpace(r) {
			return fmt.Errorf("%w: username must not contain whitespace", api.ErrValidation)
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", api.ErrValidation)
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return fmt.Errorf("%w: password must contain a lowercase letter, an uppercase letter and a digit", api.ErrValidation)
	}
	return nil
}
