package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("admin", true)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", decoded.Subject())

	isAdmin, ok := decoded.Get("is_admin")
	require.True(t, ok)
	assert.Equal(t, true, isAdmin)

	tokenType, ok := decoded.Get("type")
	require.True(t, ok)
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")
	_, _, err := svc.GenerateAccessToken("admin", true)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("admin", true)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
}

func TestRevokeToken_ExpiredEntriesArePruned(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := NewJWTService("test-secret", "1h").(*JWTService)
	svc.now = func() time.Time { return now }

	first, _, err := svc.GenerateAccessToken("admin", true)
	require.NoError(t, err)
	svc.RevokeToken(first)
	assert.True(t, svc.IsTokenRevoked(first))

	now = now.Add(30 * time.Minute)
	second, _, err := svc.GenerateAccessToken("admin", true)
	require.NoError(t, err)
	svc.RevokeToken(second)
	assert.Len(t, svc.revokedTokens, 2)

	// first has expired, second has 30 minutes left
	now = now.Add(45 * time.Minute)
	assert.False(t, svc.IsTokenRevoked(first))
	assert.True(t, svc.IsTokenRevoked(second))
	assert.Len(t, svc.revokedTokens, 1)

	now = now.Add(time.Hour)
	svc.RevokeToken("not-a-jwt")
	assert.NotContains(t, svc.revokedTokens, second)
	assert.Equal(t, now.Add(time.Hour).Unix(), svc.revokedTokens["not-a-jwt"])
}
