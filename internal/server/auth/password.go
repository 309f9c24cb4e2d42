// Package auth provides the password-hash capability and short-lived vault
// access tokens. Hashing is one-way and salted internally by bcrypt; the
// plaintext password is never persisted.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing error: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the candidate password matches the stored
// hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
