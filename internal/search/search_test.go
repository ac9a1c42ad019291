package search

import (
	"context"
	"testing"
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	idx, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func testArtwork(id, title string, artType domain.ArtType, tags ...string) *domain.Artwork {
	art := &domain.Artwork{
		ArtistID: "artist-1",
		Title:    title,
		Type:     artType,
		Tags:     tags,
	}
	art.ID = id
	art.CreatedAt = time.Now()
	art.UpdatedAt = art.CreatedAt
	return art
}

func TestSearch_TitleMatch(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-1", "Moonlit Harbor", domain.ArtTypeIllustration), "Aya Kondo")))
	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-2", "Desert Caravan", domain.ArtTypeIllustration), "Aya Kondo")))

	params := DefaultSearchParams()
	params.Query = "moonlit"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "art-1", result.Hits[0].ID)
	assert.Equal(t, "Moonlit Harbor", result.Hits[0].Title)
}

func TestSearch_ArtistNameMatch(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-1", "Moonlit Harbor", domain.ArtTypeIllustration), "Aya Kondo")))

	params := DefaultSearchParams()
	params.Query = "kondo"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "art-1", result.Hits[0].ID)
}

func TestSearch_TypeFilter(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-1", "Harbor Story", domain.ArtTypeManga), "")))
	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-2", "Harbor Sketch", domain.ArtTypeIllustration), "")))

	params := DefaultSearchParams()
	params.Query = "harbor"
	params.Types = []string{string(domain.ArtTypeManga)}

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "art-1", result.Hits[0].ID)
}

func TestSearch_TagFilter(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-1", "Piece One", domain.ArtTypeIllustration, "slow-burn"), "")))
	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-2", "Piece Two", domain.ArtTypeIllustration, "action"), "")))

	params := DefaultSearchParams()
	params.Tags = []string{"slow-burn"}

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "art-1", result.Hits[0].ID)
}

func TestSearch_FuzzyTypoTolerance(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-1", "Moonlit Harbor", domain.ArtTypeIllustration), "")))

	params := DefaultSearchParams()
	params.Query = "harbr"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "art-1", result.Hits[0].ID)
}

func TestDeleteDocument(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(FromArtwork(testArtwork("art-1", "Moonlit Harbor", domain.ArtTypeIllustration), "")))
	require.NoError(t, idx.DeleteDocument("art-1"))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexDocuments_Batch(t *testing.T) {
	idx := setupTestIndex(t)

	docs := []*SearchDocument{
		FromArtwork(testArtwork("art-1", "One", domain.ArtTypeIllustration), ""),
		FromArtwork(testArtwork("art-2", "Two", domain.ArtTypeManga), ""),
		FromArtwork(testArtwork("art-3", "Three", domain.ArtTypeLightNovel), ""),
	}
	require.NoError(t, idx.IndexDocuments(docs))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
