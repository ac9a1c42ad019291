package api

import (
	"bytes"
	"encoding/json/v2"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerieapp/gallerie-server/internal/domain"
)

func testPagePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (ts *testServer) publishArtwork(t *testing.T, token, title string, pages int) ArtworkResponse {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", title))
	require.NoError(t, writer.WriteField("type", "illustration"))
	require.NoError(t, writer.WriteField("tags", "seascape"))
	for range pages {
		part, err := writer.CreateFormFile("pages", "page.png")
		require.NoError(t, err)
		_, err = part.Write(testPagePNG(t))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	resp := ts.api.Post("/api/v1/artworks",
		"Authorization: Bearer "+token,
		"Content-Type: "+writer.FormDataContentType(),
		&buf,
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ArtworkResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestPublishArtwork(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signupTestUser(t, "painter")

	art := ts.publishArtwork(t, token, "Harbor at Dawn", 2)

	assert.Equal(t, "Harbor at Dawn", art.Title)
	assert.Equal(t, userID, art.ArtistID)
	assert.Equal(t, "illustration", art.Type)
	assert.Equal(t, []string{"seascape"}, art.Tags)
	require.Len(t, art.Images, 2)
	assert.NotEmpty(t, art.Blurhash)

	// Pages are served through the image proxy.
	imgResp := ts.api.Get("/api/v1/images/" + art.Images[0].Bucket + "/" + art.Images[0].Path)
	assert.Equal(t, http.StatusOK, imgResp.Code)
	assert.NotEmpty(t, imgResp.Header().Get("ETag"))
}

func TestPublishArtwork_NoPagesRejected(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupTestUser(t, "painter")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Empty"))
	require.NoError(t, writer.WriteField("type", "illustration"))
	require.NoError(t, writer.Close())

	resp := ts.api.Post("/api/v1/artworks",
		"Authorization: Bearer "+token,
		"Content-Type: "+writer.FormDataContentType(),
		&buf,
	)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestPublishArtwork_BadTypeRejected(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupTestUser(t, "painter")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Statue"))
	require.NoError(t, writer.WriteField("type", "sculpture"))
	part, err := writer.CreateFormFile("pages", "page.png")
	require.NoError(t, err)
	_, err = part.Write(testPagePNG(t))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp := ts.api.Post("/api/v1/artworks",
		"Authorization: Bearer "+token,
		"Content-Type: "+writer.FormDataContentType(),
		&buf,
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateArtwork_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	// First user is admin; use the second as the artist so admin status
	// does not mask the ownership check.
	ts.signupTestUser(t, "admin")
	artistToken, _ := ts.signupTestUser(t, "painter")
	strangerToken, _ := ts.signupTestUser(t, "stranger")

	art := ts.publishArtwork(t, artistToken, "Harbor", 1)

	resp := ts.api.Patch("/api/v1/artworks/"+art.ID,
		"Authorization: Bearer "+artistToken,
		map[string]any{"title": "Harbor at Dusk"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated testEnvelope[ArtworkResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Harbor at Dusk", updated.Data.Title)

	strangerResp := ts.api.Patch("/api/v1/artworks/"+art.ID,
		"Authorization: Bearer "+strangerToken,
		map[string]any{"title": "Hijacked"},
	)
	assert.Equal(t, http.StatusForbidden, strangerResp.Code)
}

func TestDeleteArtwork(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.signupTestUser(t, "admin")
	artistToken, _ := ts.signupTestUser(t, "painter")
	strangerToken, _ := ts.signupTestUser(t, "stranger")

	art := ts.publishArtwork(t, artistToken, "Harbor", 1)

	strangerResp := ts.api.Delete("/api/v1/artworks/"+art.ID, "Authorization: Bearer "+strangerToken)
	assert.Equal(t, http.StatusForbidden, strangerResp.Code)

	adminResp := ts.api.Delete("/api/v1/artworks/"+art.ID, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, adminResp.Code, adminResp.Body.String())

	getResp := ts.api.Get("/api/v1/artworks/" + art.ID)
	assert.Equal(t, http.StatusNotFound, getResp.Code)
}

func TestListArtistArtworks(t *testing.T) {
	ts := setupTestServer(t)
	_, artistID := ts.signupTestUser(t, "painter")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts.seedArtwork(t, artistID, "Older", domain.ArtTypeIllustration, base)
	ts.seedArtwork(t, artistID, "Newer", domain.ArtTypeManga, base.Add(time.Hour))

	resp := ts.api.Get("/api/v1/users/" + artistID + "/artworks")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ArtworkListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Artworks, 2)
	assert.Equal(t, "Newer", envelope.Data.Artworks[0].Title)
	assert.Equal(t, "Older", envelope.Data.Artworks[1].Title)
}
