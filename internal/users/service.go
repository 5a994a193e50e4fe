package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sima/internal/auth"
)

var (
	ErrForbidden          = errors.New("only the account owner may modify this account")
	ErrInvalidDateOfBirth = errors.New("date_of_birth must be formatted as YYYY-MM-DD")
)

// Service is the user account use-case layer
type Service interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, error)
	Get(ctx context.Context, publicID string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, actorID, publicID string, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, actorID, publicID string) error
}

type service struct {
	repo *Repository
	hash func(password string) (string, error)
}

// NewService creates the users service
func NewService(repo *Repository) Service {
	return &service{repo: repo, hash: auth.HashPassword}
}

// Register creates an account with a fresh public id and a bcrypt hash of
// the password. The plaintext is not kept.
func (s *service) Register(ctx context.Context, req CreateUserRequest) (*User, error) {
	u := &User{
		PublicID:    uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		ContactOne:  req.ContactOne,
		ContactTwo:  req.ContactTwo,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse(DateLayout, req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateOfBirth
		}
		u.DateOfBirth = &dob
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	slog.Info("User registered", "public_id", created.PublicID)
	return created, nil
}

func (s *service) Get(ctx context.Context, publicID string) (*User, error) {
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Update changes the profile of publicID on behalf of actorID
func (s *service) Update(ctx context.Context, actorID, publicID string, req UpdateUserRequest) (*User, error) {
	if actorID != publicID {
		return nil, ErrForbidden
	}
	return s.repo.Update(ctx, publicID, req)
}

// Delete removes publicID on behalf of actorID
func (s *service) Delete(ctx context.Context, actorID, publicID string) error {
	if actorID != publicID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, publicID); err != nil {
		return err
	}

	slog.Info("User deleted", "public_id", publicID)
	return nil
}
