package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/bancofiuba/backend/internal/models"
)

func TestGenerateSignsExpectedClaims(t *testing.T) {
	manager := NewTokenManager("test-secret", "banco-fiuba-test", 30*time.Minute)
	user := models.User{ID: 7, FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com"}

	signed, err := manager.Generate(user)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "banco-fiuba-test", claims["iss"])
	require.Equal(t, "7", claims["sub"])
	require.Equal(t, "Ana Diaz", claims["name"])
	require.Equal(t, "ana@x.com", claims["email"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), exp.Time, time.Minute)
}

func TestGenerateRejectsWrongSecretOnParse(t *testing.T) {
	manager := NewTokenManager("test-secret", "banco-fiuba-test", time.Minute)

	signed, err := manager.Generate(models.User{ID: 1, Email: "ana@x.com"})
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.Error(t, err)
}
