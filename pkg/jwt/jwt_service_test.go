package jwt

import (
	"GreenChoice-Backend/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndResolveUserToken(t *testing.T) {
	service := NewJWTService()

	token := service.GenerateTokenUser("user-123", domain.RoleUser)
	require.NotEmpty(t, token)

	id, role, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
	assert.Equal(t, domain.RoleUser, role)
}

func TestGetUserIDByTokenRejectsGarbage(t *testing.T) {
	service := NewJWTService()

	_, _, err := service.GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestGetUserIDByTokenRejectsTamperedSignature(t *testing.T) {
	service := NewJWTService()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-123"})
	signed, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, _, err = service.GetUserIDByToken(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResetPasswordTokenRoundTrip(t *testing.T) {
	service := NewJWTService()

	token, err := service.GenerateTokenResetPassword(map[string]any{
		"user_id": "user-123",
		"email":   "someone@example.com",
	}, 30*time.Minute)
	require.NoError(t, err)

	claims, err := service.ValidateTokenResetPassword(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "someone@example.com", claims["email"])
	assert.Equal(t, "GREENCHOICE", claims["iss"])
}

func TestResetPasswordTokenExpires(t *testing.T) {
	service := NewJWTService()

	token, err := service.GenerateTokenResetPassword(map[string]any{"user_id": "user-123"}, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateTokenResetPassword(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
