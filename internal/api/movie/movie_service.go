package movie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/JoaquinArno/api-star-wars/app/observability/metrics"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

const (
	moviesCacheKey = "movies:all"
	moviesCacheTTL = 5 * time.Minute

	importedGenre = "Science Fiction"

	// concurrent detail fetches against the external film API
	syncFetchLimit = 4
)

var _ MovieService = (*MovieServiceImpl)(nil)

// MovieService defines the business contract for the movie catalog.
type MovieService interface {
	GetMovie(ctx context.Context, id uuid.UUID) (*types.Movie, error)
	GetMovies(ctx context.Context) ([]types.Movie, error)
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*types.Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, params UpdateMovieParams) (*types.Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error

	// Sync imports films from the external film API that are not yet present,
	// keyed by their external uid. Returns imported and skipped counts.
	Sync(ctx context.Context) (imported, skipped int, err error)
}

type MovieServiceImpl struct {
	logger *slog.Logger
	repo   MovieRepo
	swapi  SwapiClient
	cache  *cache.Cache
}

func NewMovieService(repo MovieRepo, swapi SwapiClient, logger *slog.Logger) *MovieServiceImpl {
	return &MovieServiceImpl{
		logger: logger,
		repo:   repo,
		swapi:  swapi,
		cache:  cache.New(moviesCacheTTL, 10*time.Minute),
	}
}

func (s *MovieServiceImpl) GetMovie(ctx context.Context, id uuid.UUID) (*types.Movie, error) {
	return s.repo.GetMovieByID(ctx, id)
}

func (s *MovieServiceImpl) GetMovies(ctx context.Context) ([]types.Movie, error) {
	if cached, found := s.cache.Get(moviesCacheKey); found {
		if movies, ok := cached.([]types.Movie); ok {
			return movies, nil
		}
	}

	movies, err := s.repo.GetMovies(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(moviesCacheKey, movies, cache.DefaultExpiration)
	return movies, nil
}

func (s *MovieServiceImpl) CreateMovie(ctx context.Context, req CreateMovieRequest) (*types.Movie, error) {
	movie, err := s.repo.CreateMovie(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(moviesCacheKey)
	return movie, nil
}

func (s *MovieServiceImpl) UpdateMovie(ctx context.Context, id uuid.UUID, params UpdateMovieParams) (*types.Movie, error) {
	movie, err := s.repo.UpdateMovie(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(moviesCacheKey)
	return movie, nil
}

func (s *MovieServiceImpl) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMovie(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(moviesCacheKey)
	return nil
}

// Sync implements movie.MovieService.
func (s *MovieServiceImpl) Sync(ctx context.Context) (int, int, error) {
	l := s.logger.With(slog.String("method", "Sync"))

	refs, err := s.swapi.ListFilms(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list films from external API", slog.Any("error", err))
		return 0, 0, fmt.Errorf("fetching film list: %w", err)
	}

	existing, err := s.repo.GetSwapiIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	var missing []SwapiFilmRef
	skipped := 0
	for _, ref := range refs {
		if _, ok := existing[ref.UID]; ok {
			skipped++
			continue
		}
		missing = append(missing, ref)
	}

	var (
		mu       sync.Mutex
		imported int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncFetchLimit)
	for _, ref := range missing {
		ref := ref
		g.Go(func() error {
			film, err := s.swapi.GetFilm(gctx, ref.UID)
			if err != nil {
				return err
			}
			if _, err := s.repo.CreateImportedMovie(gctx, *film, importedGenre); err != nil {
				// a concurrent sync may have imported the film first
				if errors.Is(err, types.ErrConflict) {
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}
				return err
			}
			mu.Lock()
			imported++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return imported, skipped, fmt.Errorf("importing films: %w", err)
	}

	if imported > 0 {
		s.cache.Delete(moviesCacheKey)
		metrics.Get().SwapiSyncImportsTotal.Add(ctx, int64(imported))
	}
	l.InfoContext(ctx, "Film sync complete",
		slog.Int("imported", imported), slog.Int("skipped", skipped))
	return imported, skipped, nil
}
