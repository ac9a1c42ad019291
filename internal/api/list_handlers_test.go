package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerieapp/gallerie-server/internal/domain"
)

func TestToggleListItem_Alternates(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signupTestUser(t, "collector")

	art := ts.seedArtwork(t, userID, "Harbor", domain.ArtTypeIllustration, time.Now())

	createResp := ts.api.Post("/api/v1/lists",
		"Authorization: Bearer "+token,
		map[string]any{"name": "Favorites"},
	)
	require.Equal(t, http.StatusOK, createResp.Code, createResp.Body.String())

	var created testEnvelope[ListResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))
	listID := created.Data.ID

	toggle := func() testEnvelope[ToggleListItemResponse] {
		resp := ts.api.Post("/api/v1/lists/items",
			"Authorization: Bearer "+token,
			map[string]any{"listId": listID, "artworkId": art.ID},
		)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var envelope testEnvelope[ToggleListItemResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		return envelope
	}

	first := toggle()
	assert.True(t, first.Success)
	assert.Equal(t, "added", first.Data.Action)

	second := toggle()
	assert.Equal(t, "removed", second.Data.Action)

	third := toggle()
	assert.Equal(t, "added", third.Data.Action)
}

func TestToggleListItem_UnknownArtwork(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupTestUser(t, "collector")

	createResp := ts.api.Post("/api/v1/lists",
		"Authorization: Bearer "+token,
		map[string]any{"name": "Favorites"},
	)
	require.Equal(t, http.StatusOK, createResp.Code)

	var created testEnvelope[ListResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	resp := ts.api.Post("/api/v1/lists/items",
		"Authorization: Bearer "+token,
		map[string]any{"listId": created.Data.ID, "artworkId": "missing"},
	)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateList_ReservedNameRejected(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupTestUser(t, "collector")

	for _, name := range []string{"Likes", "Dislikes", "  likes  "} {
		resp := ts.api.Post("/api/v1/lists",
			"Authorization: Bearer "+token,
			map[string]any{"name": name},
		)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "name %q", name)
	}
}

func TestListLists_IncludesDerivedLists(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signupTestUser(t, "collector")

	art := ts.seedArtwork(t, userID, "Harbor", domain.ArtTypeIllustration, time.Now())

	likeResp := ts.api.Post("/api/v1/artworks/"+art.ID+"/like", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, likeResp.Code, likeResp.Body.String())

	resp := ts.api.Get("/api/v1/lists", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListListsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	byName := make(map[string]ListResponse)
	for _, l := range envelope.Data.Lists {
		byName[l.Name] = l
	}

	likes, ok := byName["Likes"]
	require.True(t, ok, "Likes list missing")
	assert.True(t, likes.Derived)
	require.Len(t, likes.Items, 1)
	assert.Equal(t, art.ID, likes.Items[0].ArtworkID)

	dislikes, ok := byName["Dislikes"]
	require.True(t, ok, "Dislikes list missing")
	assert.Empty(t, dislikes.Items)
}

func TestGetList_OwnershipEnforced(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.signupTestUser(t, "owner")
	strangerToken, _ := ts.signupTestUser(t, "stranger")

	createResp := ts.api.Post("/api/v1/lists",
		"Authorization: Bearer "+ownerToken,
		map[string]any{"name": "Private"},
	)
	require.Equal(t, http.StatusOK, createResp.Code)

	var created testEnvelope[ListResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	resp := ts.api.Get("/api/v1/lists/"+created.Data.ID, "Authorization: Bearer "+strangerToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestListsContainingArtwork(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signupTestUser(t, "collector")

	art := ts.seedArtwork(t, userID, "Harbor", domain.ArtTypeIllustration, time.Now())

	createResp := ts.api.Post("/api/v1/lists",
		"Authorization: Bearer "+token,
		map[string]any{"name": "Favorites"},
	)
	require.Equal(t, http.StatusOK, createResp.Code)

	var created testEnvelope[ListResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	toggleResp := ts.api.Post("/api/v1/lists/items",
		"Authorization: Bearer "+token,
		map[string]any{"listId": created.Data.ID, "artworkId": art.ID},
	)
	require.Equal(t, http.StatusOK, toggleResp.Code)

	resp := ts.api.Get("/api/v1/lists/items/"+art.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListsContainingResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, []string{created.Data.ID}, envelope.Data.ListIDs)
}

func TestDeleteList(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupTestUser(t, "collector")

	createResp := ts.api.Post("/api/v1/lists",
		"Authorization: Bearer "+token,
		map[string]any{"name": "Ephemeral"},
	)
	require.Equal(t, http.StatusOK, createResp.Code)

	var created testEnvelope[ListResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	deleteResp := ts.api.Delete("/api/v1/lists/"+created.Data.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, deleteResp.Code)

	getResp := ts.api.Get("/api/v1/lists/"+created.Data.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, getResp.Code)
}
