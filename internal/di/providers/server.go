package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/gallerieapp/gallerie-server/internal/api"
	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/config"
	"github.com/gallerieapp/gallerie-server/internal/logger"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
	"github.com/gallerieapp/gallerie-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	storage := do.MustInvoke[*images.Storage](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)

	services := &api.Services{
		Auth:        do.MustInvoke[*service.AuthService](i),
		User:        do.MustInvoke[*service.UserService](i),
		Artwork:     do.MustInvoke[*service.ArtworkService](i),
		Interaction: do.MustInvoke[*service.InteractionService](i),
		List:        do.MustInvoke[*service.ListService](i),
		Browse:      do.MustInvoke[*service.BrowseService](i),
		Search:      do.MustInvoke[*service.SearchService](i),
		Tip:         do.MustInvoke[*service.TipService](i),
	}

	handler := api.NewServer(api.Options{
		Store:             storeHandle.Store,
		Services:          services,
		Storage:           storage,
		TokenService:      tokenService,
		SSEManager:        sseHandle.Manager,
		Logger:            log.Logger,
		AuthRatePerMinute: cfg.Auth.LoginRatePerMinute,
		AuthRateBurst:     cfg.Auth.LoginRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
