package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/gallerieapp/gallerie-server/internal/config"
	"github.com/gallerieapp/gallerie-server/internal/logger"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
)

// ProvideImageStorage provides the content-addressed image store. One
// storage covers all buckets (artworks, avatars, banners).
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Media.BasePath)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", cfg.Media.BasePath)

	return storage, nil
}

// ProvideImageProcessor provides the image processor for uploads.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(log.Logger), nil
}
