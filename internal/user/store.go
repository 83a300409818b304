// Package user implements account storage for registration and login.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taskhive/taskhive/internal/sqlc"
)

// Postgres unique_violation, raised on a duplicate email.
const uniqueViolationCode = "23505"

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")
)

// User is an account. PasswordHash never crosses the API boundary.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Querier is the subset of generated queries the store needs.
type Querier interface {
	CreateUser(ctx context.Context, arg sqlc.CreateUserParams) (sqlc.User, error)
	GetUserByEmail(ctx context.Context, email string) (sqlc.User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (sqlc.User, error)
}

// Store persists user accounts in PostgreSQL.
type Store struct {
	querier Querier
	logger  *slog.Logger
}

// New creates a user store.
func New(querier Querier, logger *slog.Logger) *Store {
	return &Store{querier: querier, logger: logger}
}

// Create registers a new account. The email is lowercased so lookups
// are case-insensitive; passwordHash must already be a bcrypt hash.
func (s *Store) Create(ctx context.Context, email, name, passwordHash string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	row, err := s.querier.CreateUser(ctx, sqlc.CreateUserParams{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", fromPgUUID(row.ID))
	return fromRow(row), nil
}

// GetByEmail looks up an account for login.
func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row, err := s.querier.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return fromRow(row), nil
}

// GetByID looks up an account by its primary key.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row, err := s.querier.GetUserByID(ctx, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return fromRow(row), nil
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

func fromRow(row sqlc.User) User {
	return User{
		ID:           fromPgUUID(row.ID),
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
