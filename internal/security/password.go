// Package security wraps the password hashing primitive and the JWT
// issuance used by the authentication flows.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's own input limit; longer passwords are
// truncated before hashing and verification so both sides agree.
const MaxPasswordBytes = 72

// bcrypt cost factor, a strong default for interactive logins
const hashCost = 12

func truncatePassword(plain string) []byte {
	b := []byte(plain)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// HashPassword returns the bcrypt hash of a plain-text password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(plain), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// Any internal failure, including a malformed stored hash, is treated as
// a verification failure rather than an error.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(plain)) == nil
}
