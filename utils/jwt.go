package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload of tokens issued on login
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenParams describes the token to sign
type TokenParams struct {
	Subject  string
	Role     string
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// GenerateAccessToken signs an HS256 access token and returns it with its expiry
func GenerateAccessToken(p TokenParams, now time.Time) (string, time.Time, error) {
	expiration := now.Add(p.TTL)
	claims := AccessClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings{p.Audience},
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiration, nil
}
