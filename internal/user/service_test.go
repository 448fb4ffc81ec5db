package user

import (
	"context"
	"errors"
	"testing"
)

func TestSignup(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "Ada@Example.com"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("email = %q, want lowercased", u.Email)
	}

	if _, err := svc.Signup(ctx, SignupInput{Name: "Ada again", Email: "ada@example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// createCountingRepo records how many inserts reach the repository.
type createCountingRepo struct {
	Repository
	creates int
}

func (r *createCountingRepo) Create(ctx context.Context, u User) error {
	r.creates++
	return r.Repository.Create(ctx, u)
}

func TestSignupDuplicateCaughtBeforeInsert(t *testing.T) {
	repo := &createCountingRepo{Repository: NewMemoryRepository()}
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Ada again", Email: "ADA@Example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for case-insensitive duplicate, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("inserts = %d, want 1 (duplicate caught by lookup)", repo.creates)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Name: "", Email: "a@b.c"}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: ""}); err == nil {
		t.Fatal("expected error for missing email")
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "not-an-email"}); err == nil {
		t.Fatal("expected error for invalid email")
	}
}
