// Package cryptox implements the client-side encryption envelope: a
// password-derived AES-256-GCM transform applied to file contents before
// they leave the uploading agent. The server never sees the password, the
// derived key or the plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived symmetric key length (AES-256).
	KeySize = 32

	// SaltSize is the length of the per-vault key-derivation salt.
	SaltSize = 16

	// NonceSize is the AES-GCM initialization vector length. The stored
	// blob layout is IV(12 bytes) || ciphertext.
	NonceSize = 12

	// Iterations is the PBKDF2 iteration count. Encryption and decryption
	// must use identical derivation parameters or decryption fails.
	Iterations = 100000

	// EncryptedSuffix marks object names of envelope-encrypted files.
	EncryptedSuffix = ".encrypted"
)

// DeriveKey stretches a password into an AES-256 key using PBKDF2 with
// SHA-256. The salt is generated per vault (see GenerateSalt), stored
// alongside the vault record and handed to both the encrypting and the
// decrypting party.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

// GenerateSalt returns a fresh random key-derivation salt. The salt is not
// a secret; it only makes derived keys unique across vaults.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// EncryptFile seals plaintext with AES-256-GCM under key. A fresh random
// 12-byte IV is generated per file and prepended to the ciphertext, so the
// result is self-contained: IV || ciphertext.
func EncryptFile(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm init: %w", err)
	}

	iv := make([]byte, NonceSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("iv generation: %w", err)
	}

	return aesgcm.Seal(iv, iv, plaintext, nil), nil
}

// DecryptFile reverses EncryptFile: the first 12 bytes are the IV, the rest
// is ciphertext. A truncated blob or an AEAD authentication failure (wrong
// password, corrupted data) returns common.ErrorDecryptionFailed; plaintext
// is never silently garbled.
func DecryptFile(blob, key []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, fmt.Errorf("%w: payload too short", common.ErrorDecryptionFailed)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm init: %w", err)
	}

	iv, ciphertext := blob[:NonceSize], blob[NonceSize:]

	plaintext, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorDecryptionFailed, err)
	}

	return plaintext, nil
}
