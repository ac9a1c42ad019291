package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
	"github.com/gallerieapp/gallerie-server/internal/search"
	"github.com/gallerieapp/gallerie-server/internal/service"
	"github.com/gallerieapp/gallerie-server/internal/sse"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// testEnvelope mirrors the wire envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope decodes structured error responses.
type testErrorEnvelope struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

const testServerKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(testServerKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	storage, err := images.NewStorage(filepath.Join(tmpDir, "media"))
	require.NoError(t, err)

	searchIndex, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = searchIndex.Close() })

	sseManager := sse.NewManager(logger)

	sessionService := service.NewSessionService(st, tokenService, logger)
	services := &Services{
		Auth:        service.NewAuthService(st, sessionService, logger),
		User:        service.NewUserService(st, storage, images.NewProcessor(logger), logger),
		Artwork:     service.NewArtworkService(st, storage, images.NewProcessor(logger), logger),
		Interaction: service.NewInteractionService(st, logger),
		List:        service.NewListService(st, logger),
		Browse:      service.NewBrowseService(st, logger),
		Search:      service.NewSearchService(searchIndex, st, logger),
		Tip:         nil, // Tip falls back to the static default without Redis.
	}
	st.SetSearchIndexer(services.Search)

	s := NewServer(Options{
		Store:        st,
		Services:     services,
		Storage:      storage,
		TokenService: tokenService,
		SSEManager:   sseManager,
		Logger:       logger,
		// Generous so repeated signups in one test never trip the limiter.
		AuthRatePerMinute: 100000,
		AuthRateBurst:     10000,
	})
	t.Cleanup(s.Close)

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, s.api),
		tokenService: tokenService,
	}
}

// signupTestUser creates an account and returns its access token and user ID.
// The first account created on a fresh test server is the admin.
func (ts *testServer) signupTestUser(t *testing.T, userName string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"user_name": userName,
		"email":     userName + "@example.com",
		"password":  "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// seedArtwork inserts an artwork directly through the store.
func (ts *testServer) seedArtwork(t *testing.T, artistID, title string, artType domain.ArtType, createdAt time.Time, tags ...string) *domain.Artwork {
	t.Helper()

	art := &domain.Artwork{
		ArtistID: artistID,
		Title:    title,
		Type:     artType,
		Tags:     tags,
	}
	art.ID = "art-" + title
	art.CreatedAt = createdAt
	art.UpdatedAt = createdAt

	require.NoError(t, ts.store.CreateArtwork(context.Background(), art))
	return art
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	// Fresh server: database up, search index empty.
	assert.Equal(t, "degraded", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "degraded", envelope.Data.Components["search"].Status)
}

func TestPlaceholderTip_FallbackWithoutRedis(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search/placeholder-tip")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TipResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.Tip)
}

func TestProtectedRoute_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.False(t, envelope.Success)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestProtectedRoute_InvalidTokenIsAnonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
