package user

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaquinArno/api-star-wars/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresUserRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresUserRepo(mockPool, logger), mockPool
}

func userRow(id uuid.UUID, email, role string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "email", "role", "created_at", "updated_at"}).
		AddRow(id, email, role, now, now)
}

func TestPostgresUserRepo_GetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the matching user", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		id := uuid.New()

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, created_at, updated_at FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(userRow(id, "user@example.com", types.RoleUser))

		user, err := repo.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "user@example.com", user.Email)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("maps a missing row to ErrNotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		id := uuid.New()

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, created_at, updated_at FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "role", "created_at", "updated_at"}))

		_, err := repo.GetUserByID(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresUserRepo_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the matching user", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		id := uuid.New()

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, created_at, updated_at FROM users WHERE email = $1")).
			WithArgs("admin@example.com").
			WillReturnRows(userRow(id, "admin@example.com", types.RoleAdmin))

		user, err := repo.GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, types.RoleAdmin, user.Role)
	})

	t.Run("maps a missing row to ErrNotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, created_at, updated_at FROM users WHERE email = $1")).
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "role", "created_at", "updated_at"}))

		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresUserRepo_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts and returns the new user", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		id := uuid.New()

		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("new@example.com", types.RoleUser).
			WillReturnRows(userRow(id, "new@example.com", types.RoleUser))

		user, err := repo.CreateUser(ctx, "new@example.com", types.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("maps a unique violation to ErrConflict", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("taken@example.com", types.RoleUser).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.CreateUser(ctx, "taken@example.com", types.RoleUser)
		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestPostgresUserRepo_GetUsers(t *testing.T) {
	ctx := context.Background()

	repo, mockPool := newMockRepo(t)
	first := uuid.New()
	second := uuid.New()
	now := time.Now()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, created_at, updated_at FROM users ORDER BY created_at")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "role", "created_at", "updated_at"}).
			AddRow(first, "a@example.com", types.RoleUser, now, now).
			AddRow(second, "b@example.com", types.RoleAdmin, now, now))

	users, err := repo.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first, users[0].ID)
	assert.Equal(t, "b@example.com", users[1].Email)
}
