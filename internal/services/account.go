package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crucial707/visco/internal/auth"
	"github.com/crucial707/visco/internal/metrics"
	"github.com/crucial707/visco/internal/models"
	"github.com/crucial707/visco/internal/repo"
	"github.com/crucial707/visco/internal/validate"
)

type AccountService struct {
	Users  UserStore
	Logger *slog.Logger
}

func NewAccountService(users UserStore, logger *slog.Logger) *AccountService {
	return &AccountService{Users: users, Logger: logger}
}

// Register validates input, checks that username and email are free, hashes the password
// and stores a client-role user. It returns *validate.FieldError, repo.ErrUsernameTaken,
// repo.ErrEmailTaken, or a wrapped store error.
func (s *AccountService) Register(ctx context.Context, in validate.Registration) (*models.User, error) {
	if err := in.Validate(); err != nil {
		metrics.IncRegistration("invalid")
		return nil, err
	}

	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		metrics.IncRegistration("conflict")
		return nil, repo.ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		metrics.IncRegistration("error")
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		metrics.IncRegistration("conflict")
		return nil, repo.ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		metrics.IncRegistration("error")
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		metrics.IncRegistration("error")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The lookups above are advisory; a concurrent registration is caught by the unique
	// constraints and comes back as ErrUsernameTaken or ErrEmailTaken.
	u, err := s.Users.Create(ctx, in.Username, in.Email, hash, models.RoleClient)
	switch {
	case errors.Is(err, repo.ErrUsernameTaken), errors.Is(err, repo.ErrEmailTaken):
		metrics.IncRegistration("conflict")
		return nil, err
	case err != nil:
		metrics.IncRegistration("error")
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.IncRegistration("success")
	s.Logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate checks a username and password. Missing input, unknown users and wrong
// passwords all return ErrInvalidCredentials; unknown users still pay one bcrypt compare.
func (s *AccountService) Authenticate(ctx context.Context, in validate.Login) (*models.User, error) {
	if err := in.Validate(); err != nil {
		metrics.IncLogin("invalid")
		return nil, ErrInvalidCredentials
	}

	u, err := s.Users.GetByUsername(ctx, in.Username)
	if errors.Is(err, repo.ErrNotFound) {
		auth.BurnVerify(in.Password)
		metrics.IncLogin("failure")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.IncLogin("error")
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.VerifyPassword(in.Password, u.PasswordHash) {
		metrics.IncLogin("failure")
		return nil, ErrInvalidCredentials
	}

	metrics.IncLogin("success")
	return u, nil
}

func (s *AccountService) GetByID(ctx context.Context, id int) (*models.User, error) {
	return s.Users.GetByID(ctx, id)
}
