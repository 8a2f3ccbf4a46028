package movie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/JoaquinArno/api-star-wars/app/observability/metrics"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

var _ MovieRepo = (*PostgresMovieRepo)(nil)

// DBPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MovieRepo defines the contract for movie persistence.
type MovieRepo interface {
	// GetMovieByID retrieves a movie by its unique ID.
	// Returns types.ErrNotFound if no such movie exists.
	GetMovieByID(ctx context.Context, id uuid.UUID) (*types.Movie, error)

	// GetMovies lists all movies ordered by creation time.
	GetMovies(ctx context.Context) ([]types.Movie, error)

	// CreateMovie inserts a manually created movie.
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*types.Movie, error)

	// CreateImportedMovie inserts a movie sourced from the external film API,
	// tagged with its external uid. A duplicate uid maps to types.ErrConflict.
	CreateImportedMovie(ctx context.Context, film SwapiFilm, genre string) (*types.Movie, error)

	// UpdateMovie applies the non-nil fields of params.
	UpdateMovie(ctx context.Context, id uuid.UUID, params UpdateMovieParams) (*types.Movie, error)

	// DeleteMovie removes a movie. Returns types.ErrNotFound if no row matched.
	DeleteMovie(ctx context.Context, id uuid.UUID) error

	// GetSwapiIDs returns the set of external uids already imported.
	GetSwapiIDs(ctx context.Context) (map[string]struct{}, error)
}

type PostgresMovieRepo struct {
	logger *slog.Logger
	pgpool DBPool
}

func NewPostgresMovieRepo(pgpool DBPool, logger *slog.Logger) *PostgresMovieRepo {
	return &PostgresMovieRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const movieColumns = "id, title, description, director, year, genre, swapi_id, created_at, updated_at"

func scanMovie(row pgx.Row) (*types.Movie, error) {
	var m types.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Director, &m.Year, &m.Genre,
		&m.SwapiID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMovieByID implements movie.MovieRepo.
func (r *PostgresMovieRepo) GetMovieByID(ctx context.Context, id uuid.UUID) (*types.Movie, error) {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "GetMovieByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "movies"),
		attribute.String("db.movie.id", id.String()),
	))
	defer span.End()

	movie, err := scanMovie(r.pgpool.QueryRow(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Movie not found")
			return nil, fmt.Errorf("movie %s: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query movie by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching movie: %w", err)
	}

	span.SetStatus(codes.Ok, "Movie found")
	return movie, nil
}

// GetMovies implements movie.MovieRepo.
func (r *PostgresMovieRepo) GetMovies(ctx context.Context) ([]types.Movie, error) {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "GetMovies", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "movies"),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY created_at")
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		r.logger.ErrorContext(ctx, "Failed to query movies", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing movies: %w", err)
	}
	defer rows.Close()

	var movies []types.Movie
	for rows.Next() {
		var m types.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Director, &m.Year, &m.Genre,
			&m.SwapiID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning movie row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating movies: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(movies)))
	span.SetStatus(codes.Ok, "Movies listed")
	return movies, nil
}

// CreateMovie implements movie.MovieRepo.
func (r *PostgresMovieRepo) CreateMovie(ctx context.Context, req CreateMovieRequest) (*types.Movie, error) {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "CreateMovie", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "movies"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateMovie"), slog.String("title", req.Title))

	movie, err := scanMovie(r.pgpool.QueryRow(ctx, `
        INSERT INTO movies (title, description, director, year, genre)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+movieColumns,
		req.Title, req.Description, req.Director, req.Year, req.Genre))
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating movie: %w", err)
	}

	l.InfoContext(ctx, "Movie created", slog.String("movieID", movie.ID.String()))
	span.SetAttributes(attribute.String("db.movie.id", movie.ID.String()))
	span.SetStatus(codes.Ok, "Movie created")
	return movie, nil
}

// CreateImportedMovie implements movie.MovieRepo.
func (r *PostgresMovieRepo) CreateImportedMovie(ctx context.Context, film SwapiFilm, genre string) (*types.Movie, error) {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "CreateImportedMovie", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "movies"),
		attribute.String("db.movie.swapi_id", film.UID),
	))
	defer span.End()

	movie, err := scanMovie(r.pgpool.QueryRow(ctx, `
        INSERT INTO movies (title, description, director, year, genre, swapi_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+movieColumns,
		film.Title, film.Description, film.Director, film.Year, genre, film.UID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			span.SetStatus(codes.Error, "Duplicate swapi_id")
			return nil, fmt.Errorf("film %s already imported: %w", film.UID, types.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to insert imported movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error importing movie: %w", err)
	}

	span.SetStatus(codes.Ok, "Movie imported")
	return movie, nil
}

// UpdateMovie implements movie.MovieRepo.
func (r *PostgresMovieRepo) UpdateMovie(ctx context.Context, id uuid.UUID, params UpdateMovieParams) (*types.Movie, error) {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "UpdateMovie", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "movies"),
		attribute.String("db.movie.id", id.String()),
	))
	defer span.End()

	movie, err := scanMovie(r.pgpool.QueryRow(ctx, `
        UPDATE movies
        SET title = COALESCE($2, title),
            description = COALESCE($3, description),
            director = COALESCE($4, director),
            year = COALESCE($5, year),
            genre = COALESCE($6, genre),
            updated_at = now()
        WHERE id = $1
        RETURNING `+movieColumns,
		id, params.Title, params.Description, params.Director, params.Year, params.Genre))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Movie not found")
			return nil, fmt.Errorf("movie %s: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to update movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating movie: %w", err)
	}

	span.SetStatus(codes.Ok, "Movie updated")
	return movie, nil
}

// DeleteMovie implements movie.MovieRepo.
func (r *PostgresMovieRepo) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "DeleteMovie", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "movies"),
		attribute.String("db.movie.id", id.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Movie not found")
		return fmt.Errorf("movie %s: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Movie deleted")
	return nil
}

// GetSwapiIDs implements movie.MovieRepo.
func (r *PostgresMovieRepo) GetSwapiIDs(ctx context.Context) (map[string]struct{}, error) {
	ctx, span := otel.Tracer("MovieRepo").Start(ctx, "GetSwapiIDs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "movies"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, "SELECT swapi_id FROM movies WHERE swapi_id IS NOT NULL")
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query imported film ids", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing imported films: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("database error scanning swapi_id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating swapi_ids: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(ids)))
	span.SetStatus(codes.Ok, "Imported film ids listed")
	return ids, nil
}
