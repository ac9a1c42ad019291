package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/logger"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
	"github.com/gallerieapp/gallerie-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, sessionService, log.Logger), nil
}

// ProvideUserService provides the profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, storage, processor, log.Logger), nil
}

// ProvideArtworkService provides the artwork publishing service.
func ProvideArtworkService(i do.Injector) (*service.ArtworkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArtworkService(storeHandle.Store, storage, processor, log.Logger), nil
}

// ProvideInteractionService provides the like and dislike service.
func ProvideInteractionService(i do.Injector) (*service.InteractionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInteractionService(storeHandle.Store, log.Logger), nil
}

// ProvideListService provides the list service.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(storeHandle.Store, log.Logger), nil
}

// ProvideBrowseService provides the browse composer.
func ProvideBrowseService(i do.Injector) (*service.BrowseService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBrowseService(storeHandle.Store, log.Logger), nil
}

// ProvideTipService provides the search placeholder tip service.
func ProvideTipService(i do.Injector) (*service.TipService, error) {
	redisHandle := do.MustInvoke[*RedisHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewTipService(redisHandle.Client, log.Logger)

	if redisHandle.Client != nil {
		go func() {
			if err := svc.SeedDefaults(context.Background()); err != nil {
				log.Warn("Tip seeding failed", "error", err)
			}
		}()
	}

	return svc, nil
}
