package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gallerieapp/gallerie-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search artworks",
		Description: "Full-text search across titles, descriptions, tags, and artist names",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchPlaceholderTip",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/placeholder-tip",
		Summary:     "Search placeholder tip",
		Description: "Returns the rotating tip shown in an empty search box",
		Tags:        []string{"Search"},
	}, s.handleSearchPlaceholderTip)
}

// === DTOs ===

// SearchInput contains parameters for searching artworks.
type SearchInput struct {
	Query  string `query:"q" required:"true" validate:"required,min=1,max=200" doc:"Search query"`
	Types  string `query:"types" validate:"omitempty,max=100" doc:"Comma-separated artwork types to include. Omit for all."`
	Tags   string `query:"tags" validate:"omitempty,max=200" doc:"Comma-separated tags to filter by"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
	SortBy string `query:"sort" validate:"omitempty,oneof=relevance recent" doc:"Sort order (default relevance)"`
}

// SearchHitResponse contains a single search result.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Artwork ID"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Title      string            `json:"title" doc:"Artwork title"`
	ArtistName string            `json:"artist_name,omitempty" doc:"Artist's display name"`
	Type       string            `json:"artwork_type,omitempty" doc:"Artwork type"`
	Tags       []string          `json:"tags,omitempty" doc:"Tags"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string              `json:"query" doc:"Original query"`
	Total  uint64              `json:"total" doc:"Total matches"`
	TookMs int64               `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// TipResponse contains the search placeholder tip.
type TipResponse struct {
	Tip string `json:"tip" doc:"Placeholder tip text"`
}

// TipOutput wraps the tip response for Huma.
type TipOutput struct {
	Body TipResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = strings.TrimSpace(input.Query)
	params.Types = splitCSV(input.Types)
	params.Tags = splitCSV(input.Tags)
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}
	if input.SortBy != "" {
		params.SortBy = input.SortBy
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResponse, len(result.Hits))
	for i, hit := range result.Hits {
		hits[i] = SearchHitResponse{
			ID:         hit.ID,
			Score:      hit.Score,
			Title:      hit.Title,
			ArtistName: hit.ArtistName,
			Type:       hit.ArtworkType,
			Tags:       hit.Tags,
			Highlights: hit.Highlights,
		}
	}

	return &SearchOutput{
		Body: SearchResponse{
			Query:  result.Query,
			Total:  result.Total,
			TookMs: result.TookMs,
			Hits:   hits,
		},
	}, nil
}

func (s *Server) handleSearchPlaceholderTip(ctx context.Context, _ *struct{}) (*TipOutput, error) {
	return &TipOutput{Body: TipResponse{Tip: s.services.Tip.Tip(ctx, time.Now())}}, nil
}

// === Helpers ===

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
