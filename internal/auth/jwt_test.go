package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", SessionTokenTTL)

	token, err := m.GenerateSessionToken("user-1", "9876543210", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestJWTManager_SevenDayExpiry(t *testing.T) {
	m := NewJWTManager("test-secret", SessionTokenTTL)

	token, err := m.GenerateSessionToken("user-1", "9876543210", "user")
	require.NoError(t, err)

	claims, err := m.ValidateSessionToken(token)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 7*24*time.Hour, lifetime)
}

func TestJWTManager_ExpiredToken_Rejected(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateSessionToken("user-1", "9876543210", "user")
	require.NoError(t, err)

	_, err = m.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret_Rejected(t *testing.T) {
	m := NewJWTManager("test-secret", SessionTokenTTL)
	other := NewJWTManager("other-secret", SessionTokenTTL)

	token, err := m.GenerateSessionToken("user-1", "9876543210", "user")
	require.NoError(t, err)

	_, err = other.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestJWTManager_GarbageToken_Rejected(t *testing.T) {
	m := NewJWTManager("test-secret", SessionTokenTTL)

	_, err := m.ValidateSessionToken("not-a-jwt")
	assert.Error(t, err)
}
