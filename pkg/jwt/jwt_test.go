package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@b.c", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestManager_RefreshTokenRejectedAsAccess(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)

	_, err = m.ValidateRefreshToken(token)
	assert.NoError(t, err)
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := NewManager("a", time.Hour, time.Hour).GenerateAccessToken("u", "e", "user")
	require.NoError(t, err)

	_, err = NewManager("b", time.Hour, time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("u", "e", "user")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
