package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taskhive/taskhive/internal/log"
	"github.com/taskhive/taskhive/internal/sqlc"
)

// mockQuerier implements Querier for testing.
type mockQuerier struct {
	createUserErr     error
	getByEmailErr     error
	getByIDErr        error
	createUserResult  sqlc.User
	getByEmailResult  sqlc.User
	getByIDResult     sqlc.User
	lastCreateParams  sqlc.CreateUserParams
	lastGetEmailValue string
}

func (m *mockQuerier) CreateUser(ctx context.Context, arg sqlc.CreateUserParams) (sqlc.User, error) {
	m.lastCreateParams = arg
	if m.createUserErr != nil {
		return sqlc.User{}, m.createUserErr
	}
	return m.createUserResult, nil
}

func (m *mockQuerier) GetUserByEmail(ctx context.Context, email string) (sqlc.User, error) {
	m.lastGetEmailValue = email
	if m.getByEmailErr != nil {
		return sqlc.User{}, m.getByEmailErr
	}
	return m.getByEmailResult, nil
}

func (m *mockQuerier) GetUserByID(ctx context.Context, id pgtype.UUID) (sqlc.User, error) {
	if m.getByIDErr != nil {
		return sqlc.User{}, m.getByIDErr
	}
	return m.getByIDResult, nil
}

func testUserRow(email string) sqlc.User {
	now := time.Now()
	return sqlc.User{
		ID:           pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		CreatedAt:    pgtype.Timestamptz{Time: now, Valid: true},
		UpdatedAt:    pgtype.Timestamptz{Time: now, Valid: true},
	}
}

func TestStoreCreate(t *testing.T) {
	t.Run("lowercases and trims email", func(t *testing.T) {
		mock := &mockQuerier{createUserResult: testUserRow("alice@example.com")}
		store := New(mock, log.NewNop())

		got, err := store.Create(context.Background(), "  Alice@Example.COM ", "Alice", "hash")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if mock.lastCreateParams.Email != "alice@example.com" {
			t.Errorf("stored email = %q, want alice@example.com", mock.lastCreateParams.Email)
		}
		if got.Email != "alice@example.com" {
			t.Errorf("Email = %q, want alice@example.com", got.Email)
		}
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		store := New(&mockQuerier{}, log.NewNop())

		for _, email := range []string{"", "not-an-email", "@example.com"} {
			_, err := store.Create(context.Background(), email, "x", "hash")
			if !errors.Is(err, ErrInvalidEmail) {
				t.Errorf("Create(%q) error = %v, want ErrInvalidEmail", email, err)
			}
		}
	})

	t.Run("unique violation becomes ErrEmailTaken", func(t *testing.T) {
		mock := &mockQuerier{createUserErr: &pgconn.PgError{Code: "23505"}}
		store := New(mock, log.NewNop())

		_, err := store.Create(context.Background(), "dup@example.com", "x", "hash")
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("Create() error = %v, want ErrEmailTaken", err)
		}
	})
}

func TestStoreGetByEmail(t *testing.T) {
	t.Run("normalizes lookup email", func(t *testing.T) {
		mock := &mockQuerier{getByEmailResult: testUserRow("bob@example.com")}
		store := New(mock, log.NewNop())

		if _, err := store.GetByEmail(context.Background(), " Bob@Example.com"); err != nil {
			t.Fatalf("GetByEmail() error = %v", err)
		}
		if mock.lastGetEmailValue != "bob@example.com" {
			t.Errorf("lookup email = %q, want bob@example.com", mock.lastGetEmailValue)
		}
	})

	t.Run("no rows becomes ErrNotFound", func(t *testing.T) {
		store := New(&mockQuerier{getByEmailErr: pgx.ErrNoRows}, log.NewNop())

		_, err := store.GetByEmail(context.Background(), "missing@example.com")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
		}
	})
}

func TestStoreGetByID(t *testing.T) {
	t.Run("no rows becomes ErrNotFound", func(t *testing.T) {
		store := New(&mockQuerier{getByIDErr: pgx.ErrNoRows}, log.NewNop())

		_, err := store.GetByID(context.Background(), uuid.New())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})
}
