package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPassword("secret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestHashPassword_DifferentHashesSamePassword(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	// bcrypt salts internally
	assert.NotEqual(t, h1, h2)
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("secret", "not-a-bcrypt-hash"))
}

func TestGenerateVaultToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateVaultToken("A1B2", secret, time.Minute)
	require.NoError(t, err)

	code, err := GetVaultCodeFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "A1B2", code)
}

func TestGetVaultCodeFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateVaultToken("A1B2", []byte("secret-1"), time.Minute)
	require.NoError(t, err)

	_, err = GetVaultCodeFromToken(token, []byte("secret-2"))
	assert.Error(t, err)
}

func TestGetVaultCodeFromToken_Expired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateVaultToken("A1B2", secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetVaultCodeFromToken(token, secret)
	assert.Error(t, err)
}

func TestGetVaultCodeFromToken_Garbage(t *testing.T) {
	_, err := GetVaultCodeFromToken("not.a.token", []byte("secret"))
	assert.Error(t, err)
}
