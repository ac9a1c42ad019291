package auth

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-real-hash", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testTokenService(t *testing.T) *TokenService {
	t.Helper()
	keyHex := hex.EncodeToString(make([]byte, 32))
	svc, err := NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := testTokenService(t)

	user := &domain.User{
		UserName: "inkwell",
		Email:    "ink@example.com",
		Role:     domain.RoleMember,
	}
	user.ID = "user-1"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "inkwell", claims.UserName)
	assert.Equal(t, domain.RoleMember, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := testTokenService(t)

	_, err := svc.VerifyAccessToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	keyHex := hex.EncodeToString(make([]byte, 32))
	svc, err := NewTokenService(keyHex, -time.Minute, time.Hour)
	require.NoError(t, err)

	user := &domain.User{UserName: "inkwell", Role: domain.RoleMember}
	user.ID = "user-1"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenService_BadKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	svc := testTokenService(t)

	tok1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	tok2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, tok1, tok2)
	assert.Equal(t, HashRefreshToken(tok1), HashRefreshToken(tok1))
	assert.NotEqual(t, HashRefreshToken(tok1), HashRefreshToken(tok2))
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 64)

	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}
