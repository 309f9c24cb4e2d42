// Package models defines server-side data models persisted in the database.
package models

import "time"

// Vault is a time-boxed collection of shareable files addressed by a short
// public code, with an optional password gate.
type Vault struct {
	// ID is the internal identifier (UUID).
	ID string
	// Code is the short, human-shareable vault code (uppercase hex).
	// Unique among currently non-expired vaults.
	Code string
	// PasswordHash is the one-way hash of the vault password. Empty means
	// public access.
	PasswordHash string
	// EncryptionSalt is the per-vault key-derivation salt handed to the
	// client envelope. Not a secret. Nil when no password is set.
	EncryptionSalt []byte
	// DurationMinutes is the requested lifetime, bounded [5, 1440].
	DurationMinutes int
	CreatedAt       time.Time
	// ExpiresAt is CreatedAt plus the duration. The vault is logically
	// destroyed once now > ExpiresAt.
	ExpiresAt time.Time
}

// Expired reports whether the vault is past its lifetime at the given
// instant.
func (v *Vault) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// PasswordProtected reports whether access requires password verification.
func (v *Vault) PasswordProtected() bool {
	return v.PasswordHash != ""
}
