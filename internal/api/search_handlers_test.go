package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerieapp/gallerie-server/internal/domain"
)

func TestSearch_FindsArtworkByTitle(t *testing.T) {
	ts := setupTestServer(t)
	_, artistID := ts.signupTestUser(t, "painter")

	ts.seedArtwork(t, artistID, "Harbor at Dawn", domain.ArtTypeIllustration, time.Now(), "seascape")
	ts.seedArtwork(t, artistID, "Mountain Pass", domain.ArtTypeManga, time.Now())

	// Store indexing is asynchronous; a full reindex makes the test
	// deterministic.
	require.NoError(t, ts.services.Search.Reindex(context.Background()))

	resp := ts.api.Get("/api/v1/search?q=harbor")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	require.Len(t, envelope.Data.Hits, 1)
	assert.Equal(t, "Harbor at Dawn", envelope.Data.Hits[0].Title)
	assert.Equal(t, "painter", envelope.Data.Hits[0].ArtistName)
}

func TestSearch_TypeFilter(t *testing.T) {
	ts := setupTestServer(t)
	_, artistID := ts.signupTestUser(t, "painter")

	ts.seedArtwork(t, artistID, "Harbor Etude", domain.ArtTypeIllustration, time.Now())
	ts.seedArtwork(t, artistID, "Harbor Saga", domain.ArtTypeManga, time.Now())

	require.NoError(t, ts.services.Search.Reindex(context.Background()))

	resp := ts.api.Get("/api/v1/search?q=harbor&types=manga")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Hits, 1)
	assert.Equal(t, "Harbor Saga", envelope.Data.Hits[0].Title)
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSearch_DeletedArtworkDropsOut(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupTestUser(t, "painter")

	art := ts.publishArtwork(t, token, "Harbor at Dawn", 1)
	require.NoError(t, ts.services.Search.Reindex(context.Background()))

	deleteResp := ts.api.Delete("/api/v1/artworks/"+art.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, deleteResp.Code, deleteResp.Body.String())

	// The delete path removes the document synchronously enough for a
	// short wait; poll to avoid timing flakes.
	assert.Eventually(t, func() bool {
		resp := ts.api.Get("/api/v1/search?q=harbor")
		if resp.Code != http.StatusOK {
			return false
		}
		var envelope testEnvelope[SearchResponse]
		if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
			return false
		}
		return len(envelope.Data.Hits) == 0
	}, 2*time.Second, 50*time.Millisecond)
}
