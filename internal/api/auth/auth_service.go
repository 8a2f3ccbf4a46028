package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JoaquinArno/api-star-wars/app/observability/metrics"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
}

// AuthService orchestrates signup, signin and token refresh.
type AuthService interface {
	// Signup registers a new identity with its credential. Fails with an
	// error wrapping types.ErrConflict if the email is already taken.
	Signup(ctx context.Context, email, password, role string) (*types.User, error)

	// Signin verifies credentials and returns a bearer token. Every failure
	// branch returns types.ErrUnauthenticated.
	Signin(ctx context.Context, email, password string) (string, error)

	// RefreshToken re-signs the claim of a still-valid token.
	RefreshToken(ctx context.Context, token string) (string, error)
}

type AuthServiceImpl struct {
	logger   *slog.Logger
	users    UserStore
	authRepo AuthRepo
	tokens   *TokenCodec
}

func NewAuthService(users UserStore, authRepo AuthRepo, tokens *TokenCodec, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:   logger,
		users:    users,
		authRepo: authRepo,
		tokens:   tokens,
	}
}

// dummyDigest keeps the amount of hashing work constant on signin paths
// where no real credential exists.
var dummyDigest = HashPassword("invalid", "00000000-0000-0000-0000-000000000000")

// Signup implements auth.AuthService.
func (s *AuthServiceImpl) Signup(ctx context.Context, email, password, role string) (*types.User, error) {
	l := s.logger.With(slog.String("method", "Signup"), slog.String("email", email))
	l.InfoContext(ctx, "Signup attempt")
	metrics.Get().SignupRequestsTotal.Add(ctx, 1)

	if role == "" {
		role = types.RoleUser
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		// An identity already exists. A pre-existing identity never gets a
		// credential silently attached, that would allow takeover of
		// orphaned records.
		if _, authErr := s.authRepo.GetAuthByUserID(ctx, existing.ID); authErr == nil {
			l.WarnContext(ctx, "Signup conflict: auth record already exists")
			return nil, ErrCredentialExists
		} else if !errors.Is(authErr, types.ErrNotFound) {
			l.ErrorContext(ctx, "Failed to check auth record", slog.Any("error", authErr))
			return nil, fmt.Errorf("error signing up user: %w", authErr)
		}
		l.WarnContext(ctx, "Signup conflict: user exists without auth record")
		return nil, ErrUserWithoutAuth

	case errors.Is(err, types.ErrNotFound):
		// New identity: create user and credential atomically. The unique
		// constraint on users.email turns a concurrent duplicate signup
		// into types.ErrConflict instead of a duplicate identity.
		salt := NewSalt()
		digest := HashPassword(password, salt)
		user, err := s.authRepo.CreateUserWithAuth(ctx, email, role, digest)
		if err != nil {
			if errors.Is(err, types.ErrConflict) {
				return nil, err
			}
			l.ErrorContext(ctx, "Failed to create user with auth", slog.Any("error", err))
			return nil, fmt.Errorf("error signing up user: %w", err)
		}
		l.InfoContext(ctx, "User signed up", slog.String("userID", user.ID.String()))
		return user, nil

	default:
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		return nil, fmt.Errorf("error signing up user: %w", err)
	}
}

// Signin implements auth.AuthService. Unknown email, missing credential and
// wrong password all converge on types.ErrUnauthenticated with the same
// amount of hashing work, so callers cannot enumerate registered emails.
func (s *AuthServiceImpl) Signin(ctx context.Context, email, password string) (string, error) {
	l := s.logger.With(slog.String("method", "Signin"), slog.String("email", email))
	metrics.Get().SigninRequestsTotal.Add(ctx, 1)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			VerifyPassword(dummyDigest, password)
			l.WarnContext(ctx, "Signin failed: user not found")
			metrics.Get().SigninFailuresTotal.Add(ctx, 1)
			return "", types.ErrUnauthenticated
		}
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		return "", fmt.Errorf("error during user sign in: %w", err)
	}

	authRecord, err := s.authRepo.GetAuthByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			VerifyPassword(dummyDigest, password)
			l.WarnContext(ctx, "Signin failed: no auth record")
			metrics.Get().SigninFailuresTotal.Add(ctx, 1)
			return "", types.ErrUnauthenticated
		}
		l.ErrorContext(ctx, "Failed to fetch auth record", slog.Any("error", err))
		return "", fmt.Errorf("error during user sign in: %w", err)
	}

	if !VerifyPassword(authRecord.Password, password) {
		l.WarnContext(ctx, "Signin failed: invalid password")
		metrics.Get().SigninFailuresTotal.Add(ctx, 1)
		return "", types.ErrUnauthenticated
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		return "", fmt.Errorf("error during user sign in: %w", err)
	}

	l.InfoContext(ctx, "User signed in")
	return token, nil
}

// RefreshToken implements auth.AuthService. The claim is carried over and
// re-signed without consulting the store; a still-valid token is the only
// proof required.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, token string) (string, error) {
	l := s.logger.With(slog.String("method", "RefreshToken"))
	metrics.Get().TokenRefreshTotal.Add(ctx, 1)

	claims, err := s.tokens.Decode(token)
	if err != nil {
		l.WarnContext(ctx, "Refresh token failed: invalid token")
		return "", types.ErrUnauthenticated
	}

	newToken, err := s.tokens.Issue(claims.UserID, claims.Role)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue refreshed token", slog.Any("error", err))
		return "", fmt.Errorf("error refreshing token: %w", err)
	}

	l.InfoContext(ctx, "Token refreshed")
	return newToken, nil
}
