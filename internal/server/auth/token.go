package auth

import (
	"time"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the vault code the token unlocks.
type Claims struct {
	jwt.RegisteredClaims
	VaultCode string
}

// GenerateVaultToken mints an HS256 token proving a successful password
// check for one vault. The token expires no later than the vault itself,
// so it can never outlive the files it unlocks.
func GenerateVaultToken(vaultCode string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		VaultCode: vaultCode,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetVaultCodeFromToken validates the token signature and expiry and
// returns the vault code it was minted for.
func GetVaultCodeFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.VaultCode, nil
}
