package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/search"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// SearchService fronts the full-text index. It also implements
// store.SearchIndexer so store writes keep the index in sync.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a free-text query over titles, descriptions, tags, and artist
// names.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// IndexArtwork implements store.SearchIndexer.
func (s *SearchService) IndexArtwork(ctx context.Context, art *domain.Artwork) error {
	doc := search.FromArtwork(art, s.artistName(ctx, art.ArtistID))
	return s.index.IndexDocument(doc)
}

// DeleteArtwork implements store.SearchIndexer.
func (s *SearchService) DeleteArtwork(_ context.Context, artworkID string) error {
	return s.index.DeleteDocument(artworkID)
}

// DocumentCount returns the number of indexed artworks.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Reindex rebuilds the search index from the store. Used at startup when
// the index mapping changed.
func (s *SearchService) Reindex(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	var docs []*search.SearchDocument
	for art, err := range s.store.ScanArtworks(ctx) {
		if err != nil {
			return fmt.Errorf("scan artworks: %w", err)
		}
		docs = append(docs, search.FromArtwork(art, s.artistName(ctx, art.ArtistID)))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index rebuilt", "documents", len(docs))
	return nil
}

func (s *SearchService) artistName(ctx context.Context, artistID string) string {
	user, err := s.store.Users.Get(ctx, artistID)
	if err != nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.UserName
}
