package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service manages user signup.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignupInput captures data for a new account.
type SignupInput struct {
	Name  string
	Email string
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, input SignupInput) (User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return User{}, errors.New("name and email are required")
	}
	if !strings.Contains(email, "@") {
		return User{}, errors.New("email is invalid")
	}

	// The lookup catches duplicates before the insert; Create still maps the
	// unique violation for concurrent signups.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}
