// Package common defines shared constants and sentinel errors used across
// client and server layers of DropVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Validation errors (bad duration, empty file list and similar).
	ErrorInvalidInput = errors.New("invalid input")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	// ErrorAlreadyExists signals a uniqueness-constraint violation. For
	// vault codes this means "retry generation", not a fatal error.
	ErrorAlreadyExists = errors.New("already exists")

	// Vault lifecycle errors.
	ErrorExpired = errors.New("expired")

	// Access-control errors.
	ErrorPasswordRequired = errors.New("password required")
	ErrorForbidden        = errors.New("forbidden")

	// Vault code space saturated, generation retries exhausted.
	ErrorResourceExhausted = errors.New("resource exhausted")

	// Persistence or signing backend failure.
	ErrorUpstream = errors.New("upstream failure")

	// Client-side AEAD authentication failure (wrong password or
	// corrupted ciphertext).
	ErrorDecryptionFailed = errors.New("decryption failed")

	// Auth errors (invalid or malformed vault token).
	ErrInvalidToken = errors.New("invalid token")
)
