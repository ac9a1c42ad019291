package domain

import (
	"slices"
	"time"
)

// ArtType classifies an artwork by its medium.
type ArtType string

const (
	ArtTypeIllustration ArtType = "illustration"
	ArtTypeManga        ArtType = "manga"
	ArtTypeLightNovel   ArtType = "light_novel"
)

// Valid checks if the art type is one of the known values.
func (t ArtType) Valid() bool {
	switch t {
	case ArtTypeIllustration, ArtTypeManga, ArtTypeLightNovel:
		return true
	default:
		return false
	}
}

// ArtTypes lists the known art types in display order.
func ArtTypes() []ArtType {
	return []ArtType{ArtTypeIllustration, ArtTypeManga, ArtTypeLightNovel}
}

// ImageRef locates one stored page or panel of an artwork.
// Bucket groups files by purpose (e.g. "artworks", "avatars"); Path is
// relative to the bucket root.
type ImageRef struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

// Reaction records one user's like or dislike with the time it was cast.
type Reaction struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Artwork is a published piece: a single illustration, a manga chapter,
// or a light novel installment. Reactions are stored inline because the
// expected cardinality is small and every read of an artwork also needs
// its counts.
type Artwork struct {
	Record
	ArtistID    string     `json:"artist_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        ArtType    `json:"artwork_type"`
	Tags        []string   `json:"tags,omitempty"`
	Images      []ImageRef `json:"images"`
	Likes       []Reaction `json:"likes,omitempty"`
	Dislikes    []Reaction `json:"dislikes,omitempty"`
	Blurhash    string     `json:"blurhash,omitempty"`
}

// HasLiked checks whether the user currently likes this artwork.
func (a *Artwork) HasLiked(userID string) bool {
	return containsReaction(a.Likes, userID)
}

// HasDisliked checks whether the user currently dislikes this artwork.
func (a *Artwork) HasDisliked(userID string) bool {
	return containsReaction(a.Dislikes, userID)
}

// ToggleLike flips the user's like on this artwork. Liking removes any
// existing dislike by the same user so the two sets stay disjoint.
// Returns true if the user likes the artwork after the call.
func (a *Artwork) ToggleLike(userID string) bool {
	if containsReaction(a.Likes, userID) {
		a.Likes = removeReaction(a.Likes, userID)
		a.Touch()
		return false
	}
	a.Dislikes = removeReaction(a.Dislikes, userID)
	a.Likes = append(a.Likes, Reaction{UserID: userID, Timestamp: time.Now()})
	a.Touch()
	return true
}

// ToggleDislike flips the user's dislike on this artwork, removing any
// existing like by the same user. Returns true if the user dislikes the
// artwork after the call.
func (a *Artwork) ToggleDislike(userID string) bool {
	if containsReaction(a.Dislikes, userID) {
		a.Dislikes = removeReaction(a.Dislikes, userID)
		a.Touch()
		return false
	}
	a.Likes = removeReaction(a.Likes, userID)
	a.Dislikes = append(a.Dislikes, Reaction{UserID: userID, Timestamp: time.Now()})
	a.Touch()
	return true
}

// HasTag checks if the artwork carries the given tag.
func (a *Artwork) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

func containsReaction(reactions []Reaction, userID string) bool {
	return slices.ContainsFunc(reactions, func(r Reaction) bool {
		return r.UserID == userID
	})
}

func removeReaction(reactions []Reaction, userID string) []Reaction {
	return slices.DeleteFunc(reactions, func(r Reaction) bool {
		return r.UserID == userID
	})
}
