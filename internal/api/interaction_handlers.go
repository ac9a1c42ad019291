package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gallerieapp/gallerie-server/internal/service"
)

func (s *Server) registerInteractionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/artworks/{id}/like",
		Summary:     "Toggle like",
		Description: "Flips the caller's like on an artwork. Liking removes any held dislike.",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleDislike",
		Method:      http.MethodPost,
		Path:        "/api/v1/artworks/{id}/dislike",
		Summary:     "Toggle dislike",
		Description: "Flips the caller's dislike on an artwork. Disliking removes any held like.",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleDislike)
}

// === DTOs ===

// ToggleReactionInput contains parameters for a reaction toggle.
type ToggleReactionInput struct {
	ID string `path:"id" doc:"Artwork ID"`
}

// ReactionResponse contains the artwork's reaction state after a toggle.
type ReactionResponse struct {
	Liked        bool `json:"liked" doc:"Whether the caller now likes the artwork"`
	Disliked     bool `json:"disliked" doc:"Whether the caller now dislikes the artwork"`
	LikeCount    int  `json:"like_count" doc:"Number of likes"`
	DislikeCount int  `json:"dislike_count" doc:"Number of dislikes"`
}

// ReactionOutput wraps the reaction response for Huma.
type ReactionOutput struct {
	Body ReactionResponse
}

// === Handlers ===

func (s *Server) handleToggleLike(ctx context.Context, input *ToggleReactionInput) (*ReactionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Interaction.ToggleLike(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReactionOutput{Body: mapReactionResponse(result)}, nil
}

func mapReactionResponse(r *service.InteractionResult) ReactionResponse {
	return ReactionResponse{
		Liked:        r.Liked,
		Disliked:     r.Disliked,
		LikeCount:    r.LikeCount,
		DislikeCount: r.DislikeCount,
	}
}

func (s *Server) handleToggleDislike(ctx context.Context, input *ToggleReactionInput) (*ReactionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Interaction.ToggleDislike(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReactionOutput{Body: mapReactionResponse(result)}, nil
}
