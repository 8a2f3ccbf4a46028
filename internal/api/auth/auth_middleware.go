package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JoaquinArno/api-star-wars/internal/api"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

// Typed context keys for the claims attached by Authenticate.
type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"

// Authenticate validates the bearer token on inbound requests and attaches
// the decoded claim to the request context. It is the first stage of the
// guard chain; RequireRole composes after it.
func Authenticate(logger *slog.Logger, codec *TokenCodec) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Token not provided")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := codec.Decode(headerParts[1])
			if err != nil {
				l.WarnContext(ctx, "Token validation failed")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces a role allow-list on the operations it wraps. It runs
// after Authenticate. An empty allow-list admits any authenticated caller.
// Role mismatch answers 401, matching the service's existing wire contract.
func RequireRole(logger *slog.Logger, allowedRoles ...string) func(next http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(roleSet) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			role, ok := GetUserRoleFromContext(ctx)
			if !ok || role == "" {
				role = types.RoleUser
			}

			if _, allowed := roleSet[role]; !allowed {
				logger.WarnContext(ctx, "Role check failed",
					slog.String("role", role),
					slog.Any("allowed_roles", allowedRoles),
				)
				api.ErrorResponse(w, r, http.StatusUnauthorized, "You do not have enough permissions to access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext returns the user id attached by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRoleFromContext returns the role attached by Authenticate.
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
