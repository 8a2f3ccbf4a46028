package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLength  = 32
)

// NewSalt generates a fresh unpredictable salt, unique per call.
func NewSalt() string {
	return uuid.NewString()
}

// HashPassword derives a digest from (salt, password) and returns it in the
// stored "salt:hash" form. The function is deterministic: identical inputs
// always produce an identical digest.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return salt + ":" + hex.EncodeToString(key)
}

// VerifyPassword recomputes the digest for the candidate password using the
// salt embedded in the stored digest and compares the two in constant time.
func VerifyPassword(storedDigest, candidate string) bool {
	salt, _, ok := strings.Cut(storedDigest, ":")
	if !ok {
		return false
	}
	computed := HashPassword(candidate, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedDigest)) == 1
}
