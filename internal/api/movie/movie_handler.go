package movie

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JoaquinArno/api-star-wars/internal/api"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetMovies(w http.ResponseWriter, r *http.Request)
	GetMovie(w http.ResponseWriter, r *http.Request)
	CreateMovie(w http.ResponseWriter, r *http.Request)
	UpdateMovie(w http.ResponseWriter, r *http.Request)
	DeleteMovie(w http.ResponseWriter, r *http.Request)
	SyncMovies(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	movieService MovieService
	logger       *slog.Logger
}

// NewHandlerImpl creates a new movie HandlerImpl instance.
func NewHandlerImpl(movieService MovieService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		movieService: movieService,
		logger:       logger,
	}
}

// GetMovies godoc
// @Summary      List movies
// @Description  Public listing of the movie catalog.
// @Tags         Movies
// @Produce      json
// @Success      200 {array} types.Movie "List of movies"
// @Router       /movies [get]
func (h *HandlerImpl) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	movies, err := h.movieService.GetMovies(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list movies", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error fetching movies")
		return
	}
	if movies == nil {
		movies = []types.Movie{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, movies)
}

// GetMovie godoc
// @Summary      Get movie by ID
// @Tags         Movies
// @Produce      json
// @Success      200 {object} types.Movie "Movie found"
// @Failure      404 {object} map[string]interface{} "Movie not found"
// @Security     BearerAuth
// @Router       /movies/{id} [get]
func (h *HandlerImpl) GetMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetMovie"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie ID format")
		return
	}

	movie, err := h.movieService.GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get movie", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error fetching movie")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, movie)
}

// CreateMovie godoc
// @Summary      Create a movie
// @Tags         Movies
// @Accept       json
// @Produce      json
// @Success      201 {object} types.Movie "Movie created successfully"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Security     BearerAuth
// @Router       /movies [post]
func (h *HandlerImpl) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateMovie"))

	var req CreateMovieRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.movieService.CreateMovie(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create movie", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error creating movie")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, movie)
}

// UpdateMovie godoc
// @Summary      Update movie by ID
// @Tags         Movies
// @Accept       json
// @Produce      json
// @Success      200 {object} types.Movie "Movie updated successfully"
// @Failure      404 {object} map[string]interface{} "Movie not found"
// @Security     BearerAuth
// @Router       /movies/{id} [put]
func (h *HandlerImpl) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateMovie"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie ID format")
		return
	}

	var req UpdateMovieRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.movieService.UpdateMovie(ctx, id, UpdateMovieParams{
		Title:       req.Title,
		Description: req.Description,
		Director:    req.Director,
		Year:        req.Year,
		Genre:       req.Genre,
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update movie", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error updating movie")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, movie)
}

// DeleteMovie godoc
// @Summary      Delete movie by ID
// @Tags         Movies
// @Success      204 "Movie deleted"
// @Failure      404 {object} map[string]interface{} "Movie not found"
// @Security     BearerAuth
// @Router       /movies/{id} [delete]
func (h *HandlerImpl) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteMovie"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie ID format")
		return
	}

	if err := h.movieService.DeleteMovie(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete movie", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error deleting movie")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SyncMovies godoc
// @Summary      Import films from the Star Wars API
// @Description  Fetches the film catalog and imports entries not yet present.
// @Tags         Movies
// @Produce      json
// @Success      200 {object} SyncResponse "Sync result"
// @Security     BearerAuth
// @Router       /movies/sync [post]
func (h *HandlerImpl) SyncMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SyncMovies"))

	imported, skipped, err := h.movieService.Sync(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Film sync failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Error syncing movies from external API")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, SyncResponse{
		Message:  "Movies synced successfully",
		Imported: imported,
		Skipped:  skipped,
	})
}
