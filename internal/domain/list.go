package domain

import (
	"slices"
	"time"
)

// Reserved list names backing the like/dislike reactions. They are
// presented alongside user lists but are derived from artwork reactions
// rather than stored.
const (
	ListNameLikes    = "Likes"
	ListNameDislikes = "Dislikes"
)

// ReservedListName checks if a name collides with a derived list.
func ReservedListName(name string) bool {
	return name == ListNameLikes || name == ListNameDislikes
}

// ListItem is one artwork saved to a list, with the time it was added.
type ListItem struct {
	ArtworkID string    `json:"artwork_id"`
	AddedAt   time.Time `json:"added_at"`
}

// List is a user-curated collection of artworks for personal organization.
// Each list belongs to exactly one user. Items are kept newest-first.
type List struct {
	Record
	OwnerID string     `json:"owner_id"`
	Name    string     `json:"name"`
	Items   []ListItem `json:"items"`
}

// AddArtwork adds an artwork to the list, prepending it to keep
// newest-first ordering. If the artwork is already present this is a
// no-op. Updates UpdatedAt on success.
func (l *List) AddArtwork(artworkID string) bool {
	if l.Contains(artworkID) {
		return false // Already present
	}
	item := ListItem{ArtworkID: artworkID, AddedAt: time.Now()}
	l.Items = append([]ListItem{item}, l.Items...)
	l.Touch()
	return true
}

// RemoveArtwork removes an artwork from the list.
// Updates UpdatedAt on success. Returns false if the artwork was not present.
func (l *List) RemoveArtwork(artworkID string) bool {
	for i, item := range l.Items {
		if item.ArtworkID == artworkID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			l.Touch()
			return true
		}
	}
	return false
}

// Contains checks if an artwork is in this list.
func (l *List) Contains(artworkID string) bool {
	return slices.ContainsFunc(l.Items, func(item ListItem) bool {
		return item.ArtworkID == artworkID
	})
}

// ArtworkIDs returns the item IDs in list order.
func (l *List) ArtworkIDs() []string {
	ids := make([]string, len(l.Items))
	for i, item := range l.Items {
		ids[i] = item.ArtworkID
	}
	return ids
}
