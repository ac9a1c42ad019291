package optimistic

import "context"

// ReactionState is the server's authoritative reaction state for one
// artwork after a toggle.
type ReactionState struct {
	Liked        bool
	Disliked     bool
	LikeCount    int
	DislikeCount int
}

// Remote issues the mutations the reconciler needs. The API client in a
// real application implements this against the HTTP surface; tests supply
// fakes.
type Remote interface {
	// ToggleLike flips the caller's like on an artwork. The server
	// clears any held dislike in the same operation.
	ToggleLike(ctx context.Context, artworkID string) (ReactionState, error)

	// ToggleDislike flips the caller's dislike on an artwork. The server
	// clears any held like in the same operation.
	ToggleDislike(ctx context.Context, artworkID string) (ReactionState, error)

	// ToggleListItem adds the artwork to the list if absent, removes it
	// if present. Returns "added" or "removed".
	ToggleListItem(ctx context.Context, listID, artworkID string) (string, error)

	// CreateList creates a new list and returns its ID.
	CreateList(ctx context.Context, title string) (string, error)
}
