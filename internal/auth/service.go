package auth

import (
	"context"
	"errors"

	"student-directory/internal/config"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// bcrypt cost for the bootstrap admin hash.
const bootstrapHashCost = 12

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Authenticate verifies a credential pair and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser resolves a credential record by email.
func (s *Service) GetUser(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// EnsureAdmin guarantees the bootstrap admin credential exists. It runs on
// every startup; the insert is keyed on the unique email, so repeated or
// concurrent calls never create a second record.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AuthConfig) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bootstrapHashCost)
	if err != nil {
		return err
	}

	return s.repo.CreateIfAbsent(ctx, &User{
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Name:     cfg.AdminName,
	})
}
