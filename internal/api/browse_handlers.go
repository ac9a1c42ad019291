package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gallerieapp/gallerie-server/internal/service"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

func (s *Server) registerBrowseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "browse",
		Method:      http.MethodPost,
		Path:        "/api/v1/browse",
		Summary:     "Browse artworks",
		Description: "Returns a page of the feed filtered by tags or by genres. The two filters are mutually exclusive; omitting both pages the whole feed.",
		Tags:        []string{"Browse"},
	}, s.handleBrowse)
}

// === DTOs ===

// BrowseFilterRequest selects artworks by tags or by genres, never both.
// Leaving both empty browses the whole feed.
type BrowseFilterRequest struct {
	Tags  []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=50" doc:"Tags to match (any of)"`
	Genre []string `json:"genre,omitempty" validate:"omitempty,max=3,dive,required,max=50" doc:"Artwork types to match (any of)"`
}

// BrowsePaginationRequest is the requested page window.
type BrowsePaginationRequest struct {
	Page  int `json:"page,omitempty" validate:"omitempty,gte=1" doc:"Page number (1-based)"`
	Limit int `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100" doc:"Items per page"`
}

// BrowseRequest is the request body for a browse query.
type BrowseRequest struct {
	Browse     BrowseFilterRequest     `json:"browse" doc:"Filter selection"`
	Pagination BrowsePaginationRequest `json:"pagination,omitempty" doc:"Page window"`
}

// BrowseInput wraps the browse request for Huma.
type BrowseInput struct {
	Body BrowseRequest
}

// BrowseCardResponse is one feed row.
type BrowseCardResponse struct {
	ArtworkResponse
}

// BrowsePaginationResponse echoes the page window with exact totals.
type BrowsePaginationResponse struct {
	Page       int `json:"page" doc:"Page number (1-based)"`
	Limit      int `json:"limit" doc:"Items per page"`
	Total      int `json:"total" doc:"Total matching artworks"`
	TotalPages int `json:"totalPages" doc:"Total pages at this limit"`
}

// BrowseResponse contains one page of the feed.
type BrowseResponse struct {
	Data       []BrowseCardResponse     `json:"data" doc:"Feed rows, newest first"`
	Pagination BrowsePaginationResponse `json:"pagination" doc:"Page window and totals"`
}

// BrowseOutput wraps the browse response for Huma.
type BrowseOutput struct {
	Body BrowseResponse
}

// === Handlers ===

func (s *Server) handleBrowse(ctx context.Context, input *BrowseInput) (*BrowseOutput, error) {
	userID, _ := ctx.Value(contextKeyUserID).(string)

	result, err := s.services.Browse.Browse(ctx, service.BrowseRequest{
		Browse: service.BrowseFilter{
			Tags:  input.Body.Browse.Tags,
			Genre: input.Body.Browse.Genre,
		},
		Pagination: store.PageParams{
			Page:  input.Body.Pagination.Page,
			Limit: input.Body.Pagination.Limit,
		},
	})
	if err != nil {
		return nil, err
	}

	data := make([]BrowseCardResponse, len(result.Data))
	for i, card := range result.Data {
		data[i] = BrowseCardResponse{
			ArtworkResponse: mapArtworkResponse(card.Artwork, card.ArtistName, userID),
		}
	}

	return &BrowseOutput{
		Body: BrowseResponse{
			Data: data,
			Pagination: BrowsePaginationResponse{
				Page:       result.Pagination.Page,
				Limit:      result.Pagination.Limit,
				Total:      result.Pagination.Total,
				TotalPages: result.Pagination.TotalPages,
			},
		},
	}, nil
}
