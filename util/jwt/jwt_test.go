package jwt

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func parseClaims(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()

	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestIssue_Claims(t *testing.T) {
	tok, err := Issue("test-secret", 7, "sheila", "petugas", 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims := parseClaims(t, tok, "test-secret")
	require.Equal(t, float64(7), claims["sub"])
	require.Equal(t, "sheila", claims["username"])
	require.Equal(t, "petugas", claims["role"])
	require.NotNil(t, claims["exp"])
}

func TestIssue_WrongSecretRejected(t *testing.T) {
	tok, err := Issue("test-secret", 7, "sheila", "admin", 1)
	require.NoError(t, err)

	_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.Error(t, err)
}
