package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/JoaquinArno/api-star-wars/internal/api"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Signin(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new auth HandlerImpl instance.
func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Signup godoc
// @Summary      Register a new user
// @Description  Creates an identity and its credential from email + password.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      201 {object} SignupResponse "User registered successfully"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      409 {object} map[string]interface{} "Email already in use"
// @Router       /auth/signup [post]
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if msg, ok := validateSignup(&req); !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	user, err := h.authService.Signup(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrCredentialExists):
			api.ErrorResponse(w, r, http.StatusConflict, "Authentication record already exists for this user")
		case errors.Is(err, ErrUserWithoutAuth):
			api.ErrorResponse(w, r, http.StatusConflict, "User already exists without authentication")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Email already in use")
		default:
			l.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Error signing up user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, SignupResponse{
		Message: "User registered successfully",
		Data:    user,
	})
}

// Signin godoc
// @Summary      User login
// @Description  Verifies credentials and returns a bearer token.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200 {object} TokenResponse "Signed in successfully"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      401 {object} map[string]interface{} "Invalid credentials"
// @Router       /auth/signin [post]
func (h *HandlerImpl) Signin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signin"))

	var req SigninRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, err := h.authService.Signin(ctx, req.Email, req.Password)
	if err != nil {
		// One uniform answer for every auth failure.
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		l.ErrorContext(ctx, "Signin failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error during user sign in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{
		Message: "Signed in successfully",
		Token:   token,
	})
}

// RefreshToken godoc
// @Summary      Refresh authentication token
// @Description  Re-signs the claim of a still-valid token.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200 {object} TokenResponse "Token refreshed successfully"
// @Failure      401 {object} map[string]interface{} "Invalid token"
// @Router       /auth/refresh-token [post]
func (h *HandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RefreshToken"))

	var req RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Token == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Token is required")
		return
	}

	token, err := h.authService.RefreshToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		l.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Error refreshing token")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{
		Message: "Token refreshed successfully",
		Token:   token,
	})
}

func validateSignup(req *SignupRequest) (string, bool) {
	if req.Email == "" {
		return "Email is required", false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Email must be a valid address", false
	}
	if len(req.Password) < 8 {
		return "Password must be at least 8 characters", false
	}
	if req.Role != "" && !types.ValidRole(req.Role) {
		return "Role must be one of: user, admin", false
	}
	return "", true
}
