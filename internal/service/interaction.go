package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// InteractionService applies like and dislike toggles. A user holds at most
// one of the two reactions per artwork; switching reaction clears the other
// in the same write.
type InteractionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(store *store.Store, logger *slog.Logger) *InteractionService {
	return &InteractionService{
		store:  store,
		logger: logger,
	}
}

// InteractionResult reports the user's reaction state and the artwork's
// counts after a toggle.
type InteractionResult struct {
	Liked        bool `json:"liked"`
	Disliked     bool `json:"disliked"`
	LikeCount    int  `json:"like_count"`
	DislikeCount int  `json:"dislike_count"`
}

// ToggleLike flips the user's like on an artwork. Liking while a dislike is
// held removes the dislike.
func (s *InteractionService) ToggleLike(ctx context.Context, userID, artworkID string) (*InteractionResult, error) {
	return s.toggle(ctx, userID, artworkID, true)
}

// ToggleDislike flips the user's dislike on an artwork. Disliking while a
// like is held removes the like.
func (s *InteractionService) ToggleDislike(ctx context.Context, userID, artworkID string) (*InteractionResult, error) {
	return s.toggle(ctx, userID, artworkID, false)
}

func (s *InteractionService) toggle(ctx context.Context, userID, artworkID string, like bool) (*InteractionResult, error) {
	// The read-modify-write happens in one store transaction so two users
	// toggling the same artwork cannot overwrite each other's reaction.
	art, err := s.store.ToggleReaction(ctx, artworkID, userID, like)
	if err != nil {
		if errors.Is(err, store.ErrArtworkNotFound) {
			return nil, domainerrors.NotFound("artwork not found")
		}
		return nil, fmt.Errorf("toggle reaction: %w", err)
	}

	s.logger.Debug("reaction toggled",
		"artwork_id", artworkID,
		"user_id", userID,
		"like", like,
	)

	return &InteractionResult{
		Liked:        art.HasLiked(userID),
		Disliked:     art.HasDisliked(userID),
		LikeCount:    len(art.Likes),
		DislikeCount: len(art.Dislikes),
	}, nil
}
