package store

import (
	"context"
	"testing"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id, userName, email string) *domain.User {
	u := &domain.User{
		UserName: userName,
		Email:    email,
		Role:     domain.RoleMember,
	}
	u.ID = id
	u.InitTimestamps()
	return u
}

func TestUsers_CreateAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "inkwell", "ink@example.com")))

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "inkwell", got.UserName)
}

func TestUsers_GetByIndex_CaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "Inkwell", "Ink@Example.com")))

	byName, err := s.Users.GetByIndex(ctx, "user_name", "inkwell")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byName.ID)

	byEmail, err := s.Users.GetByIndex(ctx, "email", "INK@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)
}

func TestUsers_Create_UserNameConflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "inkwell", "a@example.com")))

	err := s.Users.Create(ctx, "user-2", testUser("user-2", "INKWELL", "b@example.com"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUsers_Update_KeepsOwnIndexes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	u := testUser("user-1", "inkwell", "ink@example.com")
	require.NoError(t, s.Users.Create(ctx, "user-1", u))

	// Unchanged unique fields must not conflict with themselves.
	u.Bio = "painter of small boats"
	require.NoError(t, s.Users.Update(ctx, "user-1", u))

	got, err := s.Users.GetByIndex(ctx, "user_name", "inkwell")
	require.NoError(t, err)
	assert.Equal(t, "painter of small boats", got.Bio)
}

func TestUsers_Update_ReleasesOldIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	u := testUser("user-1", "inkwell", "ink@example.com")
	require.NoError(t, s.Users.Create(ctx, "user-1", u))

	u.UserName = "brushfire"
	require.NoError(t, s.Users.Update(ctx, "user-1", u))

	_, err := s.Users.GetByIndex(ctx, "user_name", "inkwell")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Users.GetByIndex(ctx, "user_name", "brushfire")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestUsers_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "inkwell", "ink@example.com")))

	require.NoError(t, s.Users.Delete(ctx, "user-1"))
	require.NoError(t, s.Users.Delete(ctx, "user-1"))

	_, err := s.Users.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Index entries must be released with the entity.
	_, err = s.Users.GetByIndex(ctx, "user_name", "inkwell")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "inkwell", "a@example.com")))
	require.NoError(t, s.Users.Create(ctx, "user-2", testUser("user-2", "brushfire", "b@example.com")))

	var count int
	for u, err := range s.Users.List(ctx) {
		require.NoError(t, err)
		require.NotNil(t, u)
		count++
	}
	assert.Equal(t, 2, count)
}
