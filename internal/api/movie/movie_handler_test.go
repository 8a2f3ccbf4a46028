package movie

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoaquinArno/api-star-wars/internal/types"
)

// MockMovieService is a mock implementation of the MovieService interface.
type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) GetMovie(ctx context.Context, id uuid.UUID) (*types.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Movie), args.Error(1)
}

func (m *MockMovieService) GetMovies(ctx context.Context) ([]types.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Movie), args.Error(1)
}

func (m *MockMovieService) CreateMovie(ctx context.Context, req CreateMovieRequest) (*types.Movie, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id uuid.UUID, params UpdateMovieParams) (*types.Movie, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieService) Sync(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func newTestMovieRouter(svc MovieService) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandlerImpl(svc, logger)
	r := chi.NewRouter()
	r.Get("/movies", h.GetMovies)
	r.Get("/movies/{id}", h.GetMovie)
	r.Post("/movies", h.CreateMovie)
	r.Put("/movies/{id}", h.UpdateMovie)
	r.Delete("/movies/{id}", h.DeleteMovie)
	r.Post("/movies/sync", h.SyncMovies)
	return r
}

func TestMovieHandler_GetMovies(t *testing.T) {
	svc := new(MockMovieService)
	router := newTestMovieRouter(svc)

	svc.On("GetMovies", mock.Anything).Return([]types.Movie{
		{ID: uuid.New(), Title: "A New Hope"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []types.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "A New Hope", resp[0].Title)
}

func TestMovieHandler_GetMovie(t *testing.T) {
	t.Run("returns 404 for an unknown id", func(t *testing.T) {
		svc := new(MockMovieService)
		router := newTestMovieRouter(svc)

		id := uuid.New()
		svc.On("GetMovie", mock.Anything, id).Return(nil, types.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/movies/"+id.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 400 for a malformed id", func(t *testing.T) {
		router := newTestMovieRouter(new(MockMovieService))

		req := httptest.NewRequest(http.MethodGet, "/movies/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMovieHandler_CreateMovie(t *testing.T) {
	t.Run("returns 201 with the created movie", func(t *testing.T) {
		svc := new(MockMovieService)
		router := newTestMovieRouter(svc)

		req := CreateMovieRequest{
			Title:       "Return of the Jedi",
			Description: "The final film of the original trilogy.",
			Director:    "Richard Marquand",
			Year:        1983,
			Genre:       "Science Fiction",
		}
		svc.On("CreateMovie", mock.Anything, req).
			Return(&types.Movie{ID: uuid.New(), Title: req.Title}, nil)

		body, _ := json.Marshal(req)
		httpReq := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httpReq)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("returns 400 for an invalid body", func(t *testing.T) {
		router := newTestMovieRouter(new(MockMovieService))

		body, _ := json.Marshal(CreateMovieRequest{Title: "No Year"})
		req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMovieHandler_DeleteMovie(t *testing.T) {
	svc := new(MockMovieService)
	router := newTestMovieRouter(svc)

	id := uuid.New()
	svc.On("DeleteMovie", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/movies/"+id.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMovieHandler_SyncMovies(t *testing.T) {
	t.Run("returns the import summary", func(t *testing.T) {
		svc := new(MockMovieService)
		router := newTestMovieRouter(svc)

		svc.On("Sync", mock.Anything).Return(4, 2, nil)

		req := httptest.NewRequest(http.MethodPost, "/movies/sync", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SyncResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Imported)
		assert.Equal(t, 2, resp.Skipped)
	})

	t.Run("returns 502 when the external API fails", func(t *testing.T) {
		svc := new(MockMovieService)
		router := newTestMovieRouter(svc)

		svc.On("Sync", mock.Anything).Return(0, 0, assert.AnError)

		req := httptest.NewRequest(http.MethodPost, "/movies/sync", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
