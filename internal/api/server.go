// Package api provides the HTTP API server and handlers for the gallery.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
	"github.com/gallerieapp/gallerie-server/internal/ratelimit"
	"github.com/gallerieapp/gallerie-server/internal/service"
	"github.com/gallerieapp/gallerie-server/internal/sse"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// Services bundles the application services the handlers dispatch to.
type Services struct {
	Auth        *service.AuthService
	User        *service.UserService
	Artwork     *service.ArtworkService
	Interaction *service.InteractionService
	List        *service.ListService
	Browse      *service.BrowseService
	Search      *service.SearchService
	Tip         *service.TipService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	storage         *images.Storage
	sseManager      *sse.Manager
	sseHandler      *sse.Handler
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// Options configures the server.
type Options struct {
	Store        *store.Store
	Services     *Services
	Storage      *images.Storage
	TokenService *auth.TokenService
	SSEManager   *sse.Manager
	Logger       *slog.Logger
	// Rate limit for auth endpoints, per client IP.
	AuthRatePerMinute int
	AuthRateBurst     int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()

	ratePerMinute := opts.AuthRatePerMinute
	if ratePerMinute <= 0 {
		ratePerMinute = 10
	}
	burst := opts.AuthRateBurst
	if burst <= 0 {
		burst = 5
	}

	s := &Server{
		store:           opts.Store,
		services:        opts.Services,
		storage:         opts.Storage,
		sseManager:      opts.SSEManager,
		router:          router,
		logger:          opts.Logger,
		authRateLimiter: ratelimit.New(float64(ratePerMinute)/60.0, burst),
	}

	s.sseHandler = sse.NewHandler(opts.SSEManager, opts.Logger, func(r *http.Request) string {
		userID, _ := r.Context().Value(contextKeyUserID).(string)
		return userID
	})

	s.setupMiddleware(opts.TokenService)

	humaConfig := huma.DefaultConfig("Gallerie API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerArtworkRoutes()
	s.registerBrowseRoutes()
	s.registerInteractionRoutes()
	s.registerListRoutes()
	s.registerSearchRoutes()

	// Raw chi routes: byte streams don't fit huma operations.
	router.Get("/api/v1/images/{bucket}/*", s.handleServeImage)
	router.Get("/api/v1/events", s.sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(tokens *auth.TokenService) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(authMiddleware(tokens))
	s.router.Use(rateLimitMiddleware(s.authRateLimiter, isAuthEndpoint))
}

// isAuthEndpoint selects the credential-bearing endpoints for rate limiting.
func isAuthEndpoint(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/v1/auth/")
}
