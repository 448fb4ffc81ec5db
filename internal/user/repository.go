package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email already exists")

	// ErrNotFound indicates no account matches the lookup.
	ErrNotFound = errors.New("user not found")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, email string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user, mapping the unique-email violation to ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, u User) error {
	userID, err := uuid.Parse(u.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, name, email, created_at)
        VALUES ($1, $2, $3, $4)`, userID, u.Name, u.Email, u.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, email, created_at FROM users WHERE email = $1`, email)
	var (
		id        uuid.UUID
		createdAt time.Time
		u         User
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.ID = id.String()
	u.CreatedAt = createdAt.UTC()
	return u, nil
}
