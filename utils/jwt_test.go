package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	signed, exp, err := GenerateAccessToken(TokenParams{
		Subject:  "7",
		Role:     "admin",
		Secret:   "test-secret",
		Issuer:   "printshop-api",
		Audience: "printshop-backoffice",
		TTL:      time.Hour,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "printshop-api", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"printshop-backoffice"}, claims.Audience)
}

func TestGenerateAccessToken_WrongSecretFails(t *testing.T) {
	signed, _, err := GenerateAccessToken(TokenParams{Subject: "1", Role: "user", Secret: "a", TTL: time.Minute}, time.Now())
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("b"), nil
	})
	assert.Error(t, err)
}
