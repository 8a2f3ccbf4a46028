package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JoaquinArno/api-star-wars/config"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

// TokenCodec issues and verifies the service's bearer tokens. Tokens are
// HS256-signed JWTs carrying the user id and role; validity depends only on
// the signature and the expiry, there is no server-side session state.
type TokenCodec struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

// NewTokenCodec builds a codec from the injected JWT configuration.
func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	if cfg.SecretKey == "" {
		panic("JWT secret key cannot be empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{
		secretKey: []byte(cfg.SecretKey),
		ttl:       ttl,
		issuer:    cfg.Issuer,
	}
}

// Issue signs a token with the given identity claim, expiring after the
// configured lifetime.
func (c *TokenCodec) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry and returns the embedded claim.
// Every failure mode, whether tampered, malformed or expired, collapses into
// types.ErrUnauthenticated so callers cannot tell them apart.
func (c *TokenCodec) Decode(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, types.ErrUnauthenticated
	}

	if claims.Role == "" {
		claims.Role = types.RoleUser
	}
	return claims, nil
}
