package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaquinArno/api-star-wars/config"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

func testCodec(ttl time.Duration) *TokenCodec {
	return NewTokenCodec(config.JWTConfig{
		SecretKey: "test-secret-key",
		TokenTTL:  ttl,
		Issuer:    "api-star-wars-test",
	})
}

func TestNewTokenCodec(t *testing.T) {
	t.Run("panics on empty secret", func(t *testing.T) {
		assert.Panics(t, func() {
			NewTokenCodec(config.JWTConfig{SecretKey: ""})
		})
	})

	t.Run("defaults the lifetime when unset", func(t *testing.T) {
		codec := testCodec(0)
		assert.Equal(t, 24*time.Hour, codec.ttl)
	})
}

func TestTokenCodec_IssueAndDecode(t *testing.T) {
	codec := testCodec(time.Hour)
	userID := uuid.NewString()

	t.Run("round trip preserves the claim", func(t *testing.T) {
		token, err := codec.Issue(userID, types.RoleAdmin)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, types.RoleAdmin, claims.Role)
		assert.Equal(t, "api-star-wars-test", claims.Issuer)
	})

	t.Run("missing role defaults to user", func(t *testing.T) {
		token, err := codec.Issue(userID, "")
		require.NoError(t, err)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, types.RoleUser, claims.Role)
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		token, err := codec.Issue(userID, types.RoleUser)
		require.NoError(t, err)

		_, err = codec.Decode(token + "A")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		_, err := codec.Decode("not.a.jwt")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other := NewTokenCodec(config.JWTConfig{
			SecretKey: "a-different-secret",
			TokenTTL:  time.Hour,
		})
		token, err := other.Issue(userID, types.RoleUser)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived := testCodec(time.Millisecond)
		token, err := shortLived.Issue(userID, types.RoleUser)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		_, err = shortLived.Decode(token)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}
