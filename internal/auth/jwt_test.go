package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestGenerateAndParsePair(t *testing.T) {
	tm := testManager()

	access, refresh, exp, err := tm.GeneratePair("u1", "alex", "USER")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, isRefresh, err := tm.ParseAny(access)
	require.NoError(t, err)
	assert.False(t, isRefresh)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alex", claims.Username)
	assert.Equal(t, "USER", claims.Role)

	claims, isRefresh, err = tm.ParseAny(refresh)
	require.NoError(t, err)
	assert.True(t, isRefresh)
	assert.Equal(t, "u1", claims.UserID)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := testManager()

	_, _, err := tm.ParseAny("not-a-jwt")
	assert.Error(t, err)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	other := NewTokenManager("other-access", "other-refresh", time.Minute, time.Hour)
	access, _, _, err := other.GeneratePair("u1", "alex", "USER")
	require.NoError(t, err)

	_, _, err = testManager().ParseAny(access)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	access, refresh, _, err := tm.GeneratePair("u1", "alex", "USER")
	require.NoError(t, err)

	_, _, err = tm.ParseAny(access)
	assert.Error(t, err)
	_, _, err = tm.ParseAny(refresh)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, VerifyPassword("secret123", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}
