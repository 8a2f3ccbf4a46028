package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/JoaquinArno/api-star-wars/internal/api/auth"
	"github.com/JoaquinArno/api-star-wars/internal/api/movie"
	"github.com/JoaquinArno/api-star-wars/internal/api/user"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler  auth.Handler
	UserHandler  user.Handler
	MovieHandler movie.Handler

	AuthenticateMiddleware func(http.Handler) http.Handler
	AdminOnlyMiddleware    func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// --- Public routes ---
	r.Group(func(r chi.Router) {
		r.Post("/auth/signup", cfg.AuthHandler.Signup)
		r.Post("/auth/signin", cfg.AuthHandler.Signin)
		r.Post("/auth/refresh-token", cfg.AuthHandler.RefreshToken)

		r.Get("/movies", cfg.MovieHandler.GetMovies)
	})

	// --- Authenticated routes ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Get("/movies/{id}", cfg.MovieHandler.GetMovie)

		r.Route("/user", func(r chi.Router) {
			r.Post("/", cfg.UserHandler.CreateUser)
			r.Get("/", cfg.UserHandler.GetUsers)
			r.Get("/{id}", cfg.UserHandler.GetUser)
			r.Put("/{id}", cfg.UserHandler.UpdateUser)
		})
	})

	// --- Admin routes ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)
		r.Use(cfg.AdminOnlyMiddleware)

		r.Post("/movies", cfg.MovieHandler.CreateMovie)
		r.Put("/movies/{id}", cfg.MovieHandler.UpdateMovie)
		r.Delete("/movies/{id}", cfg.MovieHandler.DeleteMovie)
		r.Post("/movies/sync", cfg.MovieHandler.SyncMovies)
	})

	return r
}
