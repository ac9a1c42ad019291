package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/id"
	"github.com/gallerieapp/gallerie-server/internal/store"
	"github.com/stretchr/testify/require"
)

// setupTestStore opens a Badger store in a temp directory.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "gallerie.db")
	s, err := store.New(dbPath, nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testServiceLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// createTestUser stores a user with a unique handle derived from name.
func createTestUser(t *testing.T, s *store.Store, name string) *domain.User {
	t.Helper()

	user := &domain.User{
		UserName:    name,
		DisplayName: "The " + name,
		Email:       name + "@example.com",
		Role:        domain.RoleMember,
	}
	user.ID = id.NewUUID()
	user.InitTimestamps()
	require.NoError(t, s.Users.Create(context.Background(), user.ID, user))

	return user
}

// createTestArtwork stores an artwork with a deterministic creation time.
func createTestArtwork(t *testing.T, s *store.Store, artistID string, n int, createdAt time.Time, tags ...string) *domain.Artwork {
	t.Helper()

	art := &domain.Artwork{
		ArtistID: artistID,
		Title:    fmt.Sprintf("Piece %03d", n),
		Type:     domain.ArtTypeIllustration,
		Tags:     tags,
		Images:   []domain.ImageRef{{Bucket: "artworks", Path: fmt.Sprintf("art-%03d/page-001.jpg", n)}},
	}
	art.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	art.CreatedAt = createdAt
	art.UpdatedAt = createdAt
	require.NoError(t, s.CreateArtwork(context.Background(), art))

	return art
}
