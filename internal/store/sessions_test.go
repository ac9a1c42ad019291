package store

import (
	"context"
	"testing"
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		Record: domain.Record{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(24 * time.Hour),
		LastUsedAt:       now,
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, createTestSession("sess-1", "user-1", "hash-1")))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
}

func TestGetSession_Expired(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sess := createTestSession("sess-1", "user-1", "hash-1")
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.CreateSession(ctx, sess))

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetSessionByRefreshToken(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, createTestSession("sess-1", "user-1", "hash-1")))

	got, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)

	_, err = s.GetSessionByRefreshToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSession_RotatesTokenIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sess := createTestSession("sess-1", "user-1", "hash-1")
	require.NoError(t, s.CreateSession(ctx, sess))

	sess.RefreshTokenHash = "hash-2"
	require.NoError(t, s.UpdateSession(ctx, sess))

	got, err := s.GetSessionByRefreshToken(ctx, "hash-2")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)

	_, err = s.GetSessionByRefreshToken(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, createTestSession("sess-1", "user-1", "hash-1")))

	require.NoError(t, s.DeleteSession(ctx, "sess-1"))
	require.NoError(t, s.DeleteSession(ctx, "sess-1"))

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteUserSessions(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, createTestSession("sess-1", "user-1", "hash-1")))
	require.NoError(t, s.CreateSession(ctx, createTestSession("sess-2", "user-1", "hash-2")))
	require.NoError(t, s.CreateSession(ctx, createTestSession("sess-3", "user-2", "hash-3")))

	require.NoError(t, s.DeleteUserSessions(ctx, "user-1"))

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.GetSession(ctx, "sess-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	got, err := s.GetSession(ctx, "sess-3")
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.UserID)
}
