// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// PartyClaims carries the authenticated ledger party. Token issuance is the
// identity provider's job; this backend only validates and extracts.
type PartyClaims struct {
	Party string   `json:"party"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("your-secret-key-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func ValidateJWT(tokenString string) (*PartyClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PartyClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*PartyClaims); ok && token.Valid {
		if claims.Party == "" {
			return nil, errors.New("token carries no party claim")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GenerateJWT exists for local development and tests; production tokens come
// from the external identity provider.
func GenerateJWT(party string, roles []string, ttl time.Duration) (string, error) {
	claims := PartyClaims{
		Party: party,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "licensing-backend",
			Subject:   party,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
