package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBrowseTest(t *testing.T) (*BrowseService, *store.Store) {
	t.Helper()
	s := setupTestStore(t)
	return NewBrowseService(s, testServiceLogger()), s
}

// createTypedArtwork stores an artwork of an explicit type with a
// deterministic creation time.
func createTypedArtwork(t *testing.T, s *store.Store, artistID string, n int, artType domain.ArtType, createdAt time.Time) *domain.Artwork {
	t.Helper()

	art := &domain.Artwork{
		ArtistID: artistID,
		Title:    fmt.Sprintf("Piece %03d", n),
		Type:     artType,
		Images:   []domain.ImageRef{{Bucket: "artworks", Path: fmt.Sprintf("art-%03d/page-001.jpg", n)}},
	}
	art.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	art.CreatedAt = createdAt
	art.UpdatedAt = createdAt
	require.NoError(t, s.CreateArtwork(context.Background(), art))

	return art
}

func TestBrowse_BothFiltersRejected(t *testing.T) {
	svc, _ := setupBrowseTest(t)

	_, err := svc.Browse(context.Background(), BrowseRequest{
		Browse: BrowseFilter{Tags: []string{"cats"}, Genre: []string{"illustration"}},
	})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	assert.Equal(t, "Only one filter (tags or genre) is allowed at a time.", derr.Message)
}

func TestBrowse_NoFilter_PagesWholeFeed(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "aya")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	types := []domain.ArtType{domain.ArtTypeIllustration, domain.ArtTypeManga, domain.ArtTypeLightNovel}
	for i := 1; i <= 25; i++ {
		createTypedArtwork(t, s, artist.ID, i, types[i%3], base.Add(time.Duration(i)*time.Minute))
	}

	result, err := svc.Browse(ctx, BrowseRequest{
		Pagination: store.PageParams{Page: 1, Limit: 20},
	})
	require.NoError(t, err)

	assert.Len(t, result.Data, 20)
	assert.Equal(t, 25, result.Pagination.Total, "unfiltered feed counts every type")
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.Equal(t, "Piece 025", result.Data[0].Title, "newest artwork first")
	assert.Equal(t, "The aya", result.Data[0].ArtistName)

	page2, err := svc.Browse(ctx, BrowseRequest{
		Pagination: store.PageParams{Page: 2, Limit: 20},
	})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 5)
	assert.Equal(t, "Piece 001", page2.Data[4].Title, "oldest artwork last")
}

func TestBrowse_UnknownGenreRejected(t *testing.T) {
	svc, _ := setupBrowseTest(t)

	_, err := svc.Browse(context.Background(), BrowseRequest{
		Browse: BrowseFilter{Genre: []string{"sculpture"}},
	})
	assert.Error(t, err)
}

func TestBrowse_MultiGenre_MergesTypes(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "sol")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 6; i++ {
		createTypedArtwork(t, s, artist.ID, i, domain.ArtTypeIllustration, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 7; i <= 12; i++ {
		createTypedArtwork(t, s, artist.ID, i, domain.ArtTypeManga, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 13; i <= 15; i++ {
		createTypedArtwork(t, s, artist.ID, i, domain.ArtTypeLightNovel, base.Add(time.Duration(i)*time.Minute))
	}

	result, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Genre: []string{"manga", "illustration"}},
		Pagination: store.PageParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, 12, result.Pagination.Total, "light novels excluded")
	assert.Equal(t, 2, result.Pagination.TotalPages)
	require.Len(t, result.Data, 10)
	assert.Equal(t, "Piece 012", result.Data[0].Title, "newest first across genres")
	for _, card := range result.Data {
		assert.NotEqual(t, domain.ArtTypeLightNovel, card.Type)
	}

	page2, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Genre: []string{"manga", "illustration"}},
		Pagination: store.PageParams{Page: 2, Limit: 10},
	})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 2)
	assert.Equal(t, "Piece 001", page2.Data[1].Title)
}

func TestBrowse_GenrePath_NewestFirstWithTotals(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "mika")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		createTestArtwork(t, s, artist.ID, i, base.Add(time.Duration(i)*time.Minute))
	}

	result, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Genre: []string{"illustration"}},
		Pagination: store.PageParams{Page: 1, Limit: 20},
	})
	require.NoError(t, err)

	assert.Len(t, result.Data, 20)
	assert.Equal(t, 25, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.Equal(t, "Piece 025", result.Data[0].Title, "newest artwork first")
	assert.Equal(t, "The mika", result.Data[0].ArtistName)

	page2, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Genre: []string{"illustration"}},
		Pagination: store.PageParams{Page: 2, Limit: 20},
	})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 5)
	assert.Equal(t, "Piece 001", page2.Data[4].Title, "oldest artwork last")
}

func TestBrowse_TagPath_MergeDedupAndPaginate(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "rin")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 15 artworks tagged "cats", 15 tagged "dogs", 5 of them tagged both.
	for i := 1; i <= 15; i++ {
		createTestArtwork(t, s, artist.ID, i, base.Add(time.Duration(i)*time.Minute), "cats")
	}
	for i := 16; i <= 25; i++ {
		createTestArtwork(t, s, artist.ID, i, base.Add(time.Duration(i)*time.Minute), "dogs")
	}
	for i := 26; i <= 30; i++ {
		createTestArtwork(t, s, artist.ID, i, base.Add(time.Duration(i)*time.Minute), "cats", "dogs")
	}

	result, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Tags: []string{"cats", "dogs"}},
		Pagination: store.PageParams{Page: 1, Limit: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, 30, result.Pagination.Total, "double-tagged artworks counted once")
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.Len(t, result.Data, 20)
	assert.Equal(t, "Piece 030", result.Data[0].Title, "newest first across tags")

	page2, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Tags: []string{"cats", "dogs"}},
		Pagination: store.PageParams{Page: 2, Limit: 20},
	})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 10)

	// No overlap between pages.
	seen := make(map[string]bool)
	for _, card := range result.Data {
		seen[card.ID] = true
	}
	for _, card := range page2.Data {
		assert.False(t, seen[card.ID], "artwork %s appears on both pages", card.ID)
	}
}

func TestBrowse_TagPath_Deterministic(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "kai")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Same timestamp forces the ID tiebreak.
	for i := 1; i <= 6; i++ {
		createTestArtwork(t, s, artist.ID, i, at, "ties")
	}

	req := BrowseRequest{
		Browse:     BrowseFilter{Tags: []string{"ties"}},
		Pagination: store.PageParams{Page: 1, Limit: 10},
	}

	first, err := svc.Browse(ctx, req)
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		again, err := svc.Browse(ctx, req)
		require.NoError(t, err)
		require.Len(t, again.Data, len(first.Data))
		for i := range first.Data {
			assert.Equal(t, first.Data[i].ID, again.Data[i].ID)
		}
	}

	// IDs ascend within the shared timestamp.
	for i := 1; i < len(first.Data); i++ {
		assert.Less(t, first.Data[i-1].ID, first.Data[i].ID)
	}
}

func TestBrowse_TagPath_UnknownTagIsEmptyNotError(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "noa")
	createTestArtwork(t, s, artist.ID, 1, time.Now(), "real")

	result, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Tags: []string{"no-such-tag"}},
		Pagination: store.PageParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Zero(t, result.Pagination.Total)
}

func TestBrowse_PastEndPageIsEmpty(t *testing.T) {
	svc, s := setupBrowseTest(t)
	ctx := context.Background()

	artist := createTestUser(t, s, "imo")
	createTestArtwork(t, s, artist.ID, 1, time.Now(), "few")

	result, err := svc.Browse(ctx, BrowseRequest{
		Browse:     BrowseFilter{Tags: []string{"few"}},
		Pagination: store.PageParams{Page: 9, Limit: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 1, result.Pagination.Total)
}
