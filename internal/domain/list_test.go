package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestList_AddArtwork_PrependsNewestFirst(t *testing.T) {
	list := &List{
		Record:  Record{ID: "list-1"},
		OwnerID: "user-1",
		Name:    "Favorites",
		Items: []ListItem{
			{ArtworkID: "art-1"},
			{ArtworkID: "art-2"},
		},
	}

	added := list.AddArtwork("art-3")

	assert.True(t, added)
	assert.Equal(t, []string{"art-3", "art-1", "art-2"}, list.ArtworkIDs())
}

func TestList_AddArtwork_IgnoresDuplicates(t *testing.T) {
	list := &List{
		Record:  Record{ID: "list-1"},
		OwnerID: "user-1",
		Items:   []ListItem{{ArtworkID: "art-1"}},
	}
	originalUpdatedAt := list.UpdatedAt

	added := list.AddArtwork("art-1")

	assert.False(t, added)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, originalUpdatedAt, list.UpdatedAt) // Should not update timestamp
}

func TestList_RemoveArtwork(t *testing.T) {
	list := &List{
		Record:  Record{ID: "list-1"},
		OwnerID: "user-1",
		Items: []ListItem{
			{ArtworkID: "art-1"},
			{ArtworkID: "art-2"},
		},
	}

	removed := list.RemoveArtwork("art-1")

	assert.True(t, removed)
	assert.Equal(t, []string{"art-2"}, list.ArtworkIDs())
	assert.False(t, list.Contains("art-1"))
}

func TestList_RemoveArtwork_NotPresent(t *testing.T) {
	list := &List{Record: Record{ID: "list-1"}, OwnerID: "user-1"}

	assert.False(t, list.RemoveArtwork("art-9"))
}

func TestList_AddArtwork_StampsAddedAt(t *testing.T) {
	list := &List{Record: Record{ID: "list-1"}, OwnerID: "user-1"}

	list.AddArtwork("art-1")

	assert.WithinDuration(t, time.Now(), list.Items[0].AddedAt, time.Second)
}

func TestReservedListName(t *testing.T) {
	assert.True(t, ReservedListName(ListNameLikes))
	assert.True(t, ReservedListName(ListNameDislikes))
	assert.False(t, ReservedListName("Favorites"))
}
