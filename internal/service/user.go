package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// UserService manages profile reads and edits.
type UserService struct {
	store     *store.Store
	storage   *images.Storage
	processor *images.Processor
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	store *store.Store,
	storage *images.Storage,
	processor *images.Processor,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		store:     store,
		storage:   storage,
		processor: processor,
		logger:    logger,
	}
}

// UpdateProfileRequest contains editable profile fields.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
}

// GetProfile returns the user's own profile, including email.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, domainerrors.NotFound("user not found").WithCause(err)
	}

	profile := *user
	profile.PasswordHash = ""
	return &profile, nil
}

// GetPublicProfile returns another user's profile with private fields
// stripped.
func (s *UserService) GetPublicProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, domainerrors.NotFound("user not found").WithCause(err)
	}

	public := user.Sanitized()
	return &public, nil
}

// UpdateProfile edits display name and bio.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, domainerrors.NotFound("user not found").WithCause(err)
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	profile := *user
	profile.PasswordHash = ""
	return &profile, nil
}

// SetAvatar validates and stores a new avatar image, replacing any previous
// one.
func (s *UserService) SetAvatar(ctx context.Context, userID string, imgData []byte) (*domain.User, error) {
	return s.setImage(ctx, userID, imgData, images.BucketAvatars)
}

// SetBanner validates and stores a new profile banner.
func (s *UserService) SetBanner(ctx context.Context, userID string, imgData []byte) (*domain.User, error) {
	return s.setImage(ctx, userID, imgData, images.BucketBanners)
}

func (s *UserService) setImage(ctx context.Context, userID string, imgData []byte, bucket string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, domainerrors.NotFound("user not found").WithCause(err)
	}

	img, err := s.processor.Process(imgData)
	if err != nil {
		return nil, domainerrors.Validationf("invalid image: %v", err)
	}

	path := fmt.Sprintf("%s.%s", userID, img.Format)
	if err := s.storage.Save(bucket, path, img.Data); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	var oldPath string
	switch bucket {
	case images.BucketAvatars:
		oldPath, user.AvatarPath = user.AvatarPath, path
	case images.BucketBanners:
		oldPath, user.BannerPath = user.BannerPath, path
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// A format change leaves the old file behind under a different name.
	if oldPath != "" && oldPath != path {
		if err := s.storage.Delete(bucket, oldPath); err != nil {
			s.logger.Warn("failed to delete old image",
				"bucket", bucket,
				"path", oldPath,
				"error", err,
			)
		}
	}

	profile := *user
	profile.PasswordHash = ""
	return &profile, nil
}
