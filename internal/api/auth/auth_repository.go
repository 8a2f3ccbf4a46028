package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/JoaquinArno/api-star-wars/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// DBPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AuthRepo defines the contract for credential persistence.
type AuthRepo interface {
	// GetAuthByUserID retrieves the credential record for a user.
	// Returns types.ErrNotFound if the user has no credential.
	GetAuthByUserID(ctx context.Context, userID uuid.UUID) (*types.Auth, error)

	// CreateUserWithAuth creates the identity and its credential in a single
	// transaction so concurrent signups for the same email cannot leave a
	// user without a credential. A unique violation on the email maps to
	// types.ErrConflict.
	CreateUserWithAuth(ctx context.Context, email, role, passwordDigest string) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool DBPool
}

func NewPostgresAuthRepo(pgpool DBPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetAuthByUserID implements auth.AuthRepo.
func (r *PostgresAuthRepo) GetAuthByUserID(ctx context.Context, userID uuid.UUID) (*types.Auth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetAuthByUserID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "auths"),
	))
	defer span.End()

	var auth types.Auth
	query := `
        SELECT id, user_id, password, created_at, updated_at
        FROM auths
        WHERE user_id = $1`

	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&auth.ID,
		&auth.UserID,
		&auth.Password,
		&auth.CreatedAt,
		&auth.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Auth record not found")
			return nil, fmt.Errorf("auth record for user %s: %w", userID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query auth record", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching auth record: %w", err)
	}

	span.SetStatus(codes.Ok, "Auth record found")
	return &auth, nil
}

// CreateUserWithAuth implements auth.AuthRepo.
func (r *PostgresAuthRepo) CreateUserWithAuth(ctx context.Context, email, role, passwordDigest string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUserWithAuth", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUserWithAuth"), slog.String("email", email))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "BEGIN failed")
		return nil, fmt.Errorf("database error starting signup transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var user types.User
	err = tx.QueryRow(ctx, `
        INSERT INTO users (email, role)
        VALUES ($1, $2)
        RETURNING id, email, role, created_at, updated_at`,
		email, role,
	).Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			l.WarnContext(ctx, "Attempted to create user with duplicate email")
			span.SetStatus(codes.Error, "Duplicate email")
			return nil, fmt.Errorf("email already in use: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User INSERT failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO auths (user_id, password)
        VALUES ($1, $2)`,
		user.ID, passwordDigest,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "Duplicate auth record")
			return nil, fmt.Errorf("auth record already exists: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert auth record", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Auth INSERT failed")
		return nil, fmt.Errorf("database error creating auth record: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		l.ErrorContext(ctx, "Failed to commit signup transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "COMMIT failed")
		return nil, fmt.Errorf("database error committing signup transaction: %w", err)
	}

	l.InfoContext(ctx, "User and auth record created", slog.String("userID", user.ID.String()))
	span.SetAttributes(attribute.String("db.user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User created")
	return &user, nil
}
