package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// maxTagFanout bounds how many tag sub-queries run at once.
const maxTagFanout = 4

// BrowseService composes feed queries: either a single ranged genre query or
// a concurrent per-tag fan-out merged into one deterministic result.
type BrowseService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBrowseService creates a new browse service.
func NewBrowseService(store *store.Store, logger *slog.Logger) *BrowseService {
	return &BrowseService{
		store:  store,
		logger: logger,
	}
}

// BrowseFilter selects artworks by tags or by genres. The two are mutually
// exclusive; an empty filter browses the whole feed.
type BrowseFilter struct {
	Tags  []string `json:"tags,omitempty"`
	Genre []string `json:"genre,omitempty"`
}

// BrowseRequest is the body of a browse query.
type BrowseRequest struct {
	Browse     BrowseFilter     `json:"browse"`
	Pagination store.PageParams `json:"pagination"`
}

// BrowseCard is one feed row: the artwork plus its artist's display name.
type BrowseCard struct {
	*domain.Artwork
	ArtistName string `json:"artist_name"`
}

// BrowseResult is one page of the feed with exact totals.
type BrowseResult struct {
	Data       []*BrowseCard  `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaginationInfo echoes the page window and the exact totals for it.
type PaginationInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Browse runs a feed query. Supplying both tags and genre is rejected
// before any store access; an empty filter pages the whole feed.
func (s *BrowseService) Browse(ctx context.Context, req BrowseRequest) (*BrowseResult, error) {
	if len(req.Browse.Tags) > 0 && len(req.Browse.Genre) > 0 {
		return nil, domainerrors.Validation("Only one filter (tags or genre) is allowed at a time.")
	}

	req.Pagination.Validate()

	if len(req.Browse.Tags) > 0 {
		return s.browseByTags(ctx, req.Browse.Tags, req.Pagination)
	}
	if len(req.Browse.Genre) > 0 {
		return s.browseByGenres(ctx, req.Browse.Genre, req.Pagination)
	}
	return s.browseAll(ctx, req.Pagination)
}

// browseAll serves the unfiltered feed: one ranged query over the global
// chronological index, already ordered newest-first, with an exact total
// from the same scan.
func (s *BrowseService) browseAll(ctx context.Context, params store.PageParams) (*BrowseResult, error) {
	page, err := s.store.ListArtworks(ctx, params)
	if err != nil {
		return nil, domainerrors.Unavailable("browse is temporarily unavailable").WithCause(err)
	}

	return s.buildResult(ctx, page.Items, params, page.Total), nil
}

// browseByGenres filters by artwork type. A single genre is the cheap path,
// one ranged query over the type index. Several genres fetch each type's
// chronological index in full and merge, the same machinery as tags.
func (s *BrowseService) browseByGenres(ctx context.Context, genres []string, params store.PageParams) (*BrowseResult, error) {
	types := make([]domain.ArtType, 0, len(genres))
	seen := make(map[domain.ArtType]bool)
	for _, genre := range genres {
		artType := domain.ArtType(genre)
		if !artType.Valid() {
			return nil, domainerrors.Validationf("unknown genre %q", genre)
		}
		if seen[artType] {
			continue
		}
		seen[artType] = true
		types = append(types, artType)
	}

	if len(types) == 1 {
		page, err := s.store.ListArtworksByType(ctx, types[0], params)
		if err != nil {
			return nil, domainerrors.Unavailable("browse is temporarily unavailable").WithCause(err)
		}
		return s.buildResult(ctx, page.Items, params, page.Total), nil
	}

	var merged []*domain.Artwork
	for _, artType := range types {
		arts, err := s.store.ListAllArtworksByType(ctx, artType)
		if err != nil {
			return nil, domainerrors.Unavailable("browse is temporarily unavailable").WithCause(err)
		}
		merged = append(merged, arts...)
	}

	window, total := paginateMerged(merged, params)
	return s.buildResult(ctx, window, params, total), nil
}

// browseByTags fans out one sub-query per tag, merges with first-wins dedup
// by artwork ID, sorts newest-first, and paginates the merged set in memory.
// A failing tag degrades the result; all tags failing is an outage, not an
// empty feed.
func (s *BrowseService) browseByTags(ctx context.Context, tags []string, params store.PageParams) (*BrowseResult, error) {
	type tagResult struct {
		arts []*domain.Artwork
		err  error
	}

	results := make([]tagResult, len(tags))
	sem := make(chan struct{}, maxTagFanout)
	var wg sync.WaitGroup

	for i, tag := range tags {
		wg.Add(1)
		go func(i int, tag string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			arts, err := s.store.ListArtworksByTag(ctx, tag)
			results[i] = tagResult{arts: arts, err: err}
		}(i, tag)
	}
	wg.Wait()

	// Merge in request order so the outcome is independent of completion
	// order. First occurrence of an ID wins.
	seen := make(map[string]bool)
	var merged []*domain.Artwork
	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			s.logger.Warn("tag sub-query failed",
				"tag", tags[i],
				"error", res.err,
			)
			continue
		}
		for _, art := range res.arts {
			if seen[art.ID] {
				continue
			}
			seen[art.ID] = true
			merged = append(merged, art)
		}
	}

	if failed == len(tags) {
		return nil, domainerrors.Unavailable("browse is temporarily unavailable")
	}

	window, total := paginateMerged(merged, params)
	return s.buildResult(ctx, window, params, total), nil
}

// paginateMerged sorts a merged set newest-first with an ID tiebreak and
// cuts the requested window. Totals come from the full set.
func paginateMerged(merged []*domain.Artwork, params store.PageParams) ([]*domain.Artwork, int) {
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID < merged[j].ID
	})

	total := len(merged)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	return merged[start:end], total
}

// buildResult attaches artist names and pagination metadata to a page of
// artworks. Artist lookups are cached per call; a missing artist leaves the
// name empty rather than failing the page.
func (s *BrowseService) buildResult(ctx context.Context, arts []*domain.Artwork, params store.PageParams, total int) *BrowseResult {
	names := make(map[string]string)
	cards := make([]*BrowseCard, 0, len(arts))
	for _, art := range arts {
		name, ok := names[art.ArtistID]
		if !ok {
			name = s.artistName(ctx, art.ArtistID)
			names[art.ArtistID] = name
		}
		cards = append(cards, &BrowseCard{Artwork: art, ArtistName: name})
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return &BrowseResult{
		Data: cards,
		Pagination: PaginationInfo{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

func (s *BrowseService) artistName(ctx context.Context, artistID string) string {
	user, err := s.store.Users.Get(ctx, artistID)
	if err != nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.UserName
}
