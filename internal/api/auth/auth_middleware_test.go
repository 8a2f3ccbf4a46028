package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaquinArno/api-star-wars/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticate(t *testing.T) {
	codec := testCodec(time.Hour)
	middleware := Authenticate(discardLogger(), codec)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects a request without Authorization header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/movies/123", nil)

		middleware(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token not provided")
	})

	t.Run("rejects a malformed Authorization header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/movies/123", nil)
		req.Header.Set("Authorization", "Basic abc123")

		middleware(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/movies/123", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		middleware(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})

	t.Run("attaches the claim to the request context", func(t *testing.T) {
		userID := uuid.NewString()
		token, err := codec.Issue(userID, types.RoleAdmin)
		require.NoError(t, err)

		var gotID, gotRole string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, _ = GetUserIDFromContext(r.Context())
			gotRole, _ = GetUserRoleFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/movies/123", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		middleware(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, types.RoleAdmin, gotRole)
	})
}

func TestRequireRole(t *testing.T) {
	codec := testCodec(time.Hour)
	authenticate := Authenticate(discardLogger(), codec)
	adminOnly := RequireRole(discardLogger(), types.RoleAdmin)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := authenticate(adminOnly(okHandler))

	t.Run("admits a caller with an allowed role", func(t *testing.T) {
		token, err := codec.Issue(uuid.NewString(), types.RoleAdmin)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/movies", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a caller with a disallowed role", func(t *testing.T) {
		token, err := codec.Issue(uuid.NewString(), types.RoleUser)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/movies", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "You do not have enough permissions to access")
	})

	t.Run("empty allow-list admits any authenticated caller", func(t *testing.T) {
		token, err := codec.Issue(uuid.NewString(), types.RoleUser)
		require.NoError(t, err)

		open := authenticate(RequireRole(discardLogger())(okHandler))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/movies/123", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		open.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing role claim defaults to user", func(t *testing.T) {
		token, err := codec.Issue(uuid.NewString(), "")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/movies", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
