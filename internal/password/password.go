// Package password provides one-way hashing for account passwords and for
// refresh tokens at rest.
package password

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for all digests.
const Cost = bcrypt.DefaultCost

// Hash returns a salted bcrypt digest of the given secret.
func Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether secret matches a digest produced by Hash.
func Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// HashToken hashes a refresh token for storage in the session cache. Tokens are
// compressed through SHA-256 first: signed tokens exceed bcrypt's 72-byte input
// limit, which Go's bcrypt rejects rather than truncates.
func HashToken(token string) (string, error) {
	sum := sha256.Sum256([]byte(token))
	digest, err := bcrypt.GenerateFromPassword(sum[:], Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyToken reports whether token matches a digest produced by HashToken.
func VerifyToken(token, digest string) bool {
	sum := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(digest), sum[:]) == nil
}
