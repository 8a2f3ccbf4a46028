package auth

import (
	"fmt"

	"github.com/JoaquinArno/api-star-wars/internal/types"
)

// Signup conflicts are distinguishable to the caller; every signin failure
// is not. Both wrap types.ErrConflict so handlers can map them to 409.
var (
	ErrCredentialExists = fmt.Errorf("authentication record already exists for this user: %w", types.ErrConflict)
	ErrUserWithoutAuth  = fmt.Errorf("user already exists without authentication: %w", types.ErrConflict)
)

// SignupRequest represents the expected JSON body for user registration.
type SignupRequest struct {
	Email    string `json:"email" example:"newuser@example.com"`
	Password string `json:"password" example:"Str0ngP@ss!"`
	Role     string `json:"role,omitempty" example:"user"` // Defaults to "user" when empty.
}

// SignupResponse represents the successful JSON response after registration.
type SignupResponse struct {
	Message string      `json:"message" example:"User registered successfully"`
	Data    *types.User `json:"data"`
}

// SigninRequest represents the expected JSON body for user login.
type SigninRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// TokenResponse represents the JSON response carrying a bearer token.
type TokenResponse struct {
	Message string `json:"message" example:"Signed in successfully"`
	Token   string `json:"token" example:"eyJhbGciOiJI..."`
}

// RefreshTokenRequest represents the expected JSON body for refreshing a token.
type RefreshTokenRequest struct {
	Token string `json:"token" example:"eyJhbGciOiJI..."`
}
