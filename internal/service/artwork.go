package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/id"
	"github.com/gallerieapp/gallerie-server/internal/media/images"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// ArtworkService owns the artwork lifecycle: publishing with image
// processing, metadata edits, and deletion with list cleanup.
type ArtworkService struct {
	store     *store.Store
	storage   *images.Storage
	processor *images.Processor
	logger    *slog.Logger
}

// NewArtworkService creates a new artwork service.
func NewArtworkService(
	store *store.Store,
	storage *images.Storage,
	processor *images.Processor,
	logger *slog.Logger,
) *ArtworkService {
	return &ArtworkService{
		store:     store,
		storage:   storage,
		processor: processor,
		logger:    logger,
	}
}

// PublishRequest contains new artwork data. Images arrive as raw file bytes
// in page order, already read from the multipart form by the handler.
type PublishRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Type        string   `json:"type" validate:"required,oneof=illustration manga light_novel"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=50"`
	Images      [][]byte `json:"-"`
}

// UpdateArtworkRequest contains editable artwork metadata.
type UpdateArtworkRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
}

// ArtworkView is an artwork enriched with its artist's display name.
type ArtworkView struct {
	*domain.Artwork
	ArtistName string `json:"artist_name"`
}

// Publish validates and stores a new artwork with its images.
// The first image's placeholder hash becomes the artwork's blurhash.
func (s *ArtworkService) Publish(ctx context.Context, artistID string, req PublishRequest) (*domain.Artwork, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if len(req.Images) == 0 {
		return nil, domainerrors.Validation("at least one image is required")
	}

	artworkID := id.NewUUID()

	// Decode and validate every page before writing anything.
	processed := make([]*images.ProcessedImage, 0, len(req.Images))
	for i, data := range req.Images {
		img, err := s.processor.Process(data)
		if err != nil {
			return nil, domainerrors.Validationf("image %d: %v", i+1, err)
		}
		processed = append(processed, img)
	}

	refs := make([]domain.ImageRef, 0, len(processed))
	for i, img := range processed {
		path := fmt.Sprintf("%s/page-%03d.%s", artworkID, i+1, img.Format)
		if err := s.storage.Save(images.BucketArtworks, path, img.Data); err != nil {
			// Roll back pages written so far.
			_ = s.storage.DeleteAll(images.BucketArtworks, artworkID)
			return nil, fmt.Errorf("save image: %w", err)
		}
		refs = append(refs, domain.ImageRef{Bucket: images.BucketArtworks, Path: path})
	}

	art := &domain.Artwork{
		ArtistID:    artistID,
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.ArtType(req.Type),
		Tags:        req.Tags,
		Images:      refs,
		Likes:       []domain.Reaction{},
		Dislikes:    []domain.Reaction{},
		Blurhash:    processed[0].Blurhash,
	}
	art.ID = artworkID
	art.InitTimestamps()

	if err := s.store.CreateArtwork(ctx, art); err != nil {
		_ = s.storage.DeleteAll(images.BucketArtworks, artworkID)
		return nil, fmt.Errorf("create artwork: %w", err)
	}

	s.logger.Info("artwork published",
		"artwork_id", artworkID,
		"artist_id", artistID,
		"type", art.Type,
		"pages", len(refs),
	)

	return art, nil
}

// GetArtwork returns one artwork with its artist's display name.
func (s *ArtworkService) GetArtwork(ctx context.Context, artworkID string) (*ArtworkView, error) {
	art, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		if errors.Is(err, store.ErrArtworkNotFound) {
			return nil, domainerrors.NotFound("artwork not found")
		}
		return nil, fmt.Errorf("get artwork: %w", err)
	}

	return &ArtworkView{
		Artwork:    art,
		ArtistName: s.artistName(ctx, art.ArtistID),
	}, nil
}

// ListByArtist returns all artworks published by one user.
func (s *ArtworkService) ListByArtist(ctx context.Context, artistID string) ([]*domain.Artwork, error) {
	arts, err := s.store.ListArtworksByArtist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}
	return arts, nil
}

// UpdateMetadata edits an artwork's title, description, or tags.
// Only the owner may edit.
func (s *ArtworkService) UpdateMetadata(ctx context.Context, userID, artworkID string, req UpdateArtworkRequest) (*domain.Artwork, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	art, err := s.ownedArtwork(ctx, userID, artworkID, false)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, domainerrors.Validation("title cannot be empty")
		}
		art.Title = *req.Title
	}
	if req.Description != nil {
		art.Description = *req.Description
	}
	if req.Tags != nil {
		art.Tags = *req.Tags
	}

	if err := s.store.UpdateArtwork(ctx, art); err != nil {
		return nil, fmt.Errorf("update artwork: %w", err)
	}

	return art, nil
}

// Delete removes an artwork. The owner or an admin may delete. The row and
// its list memberships go first; image files are cleaned up best-effort
// afterwards so a filesystem hiccup cannot resurrect a deleted artwork.
func (s *ArtworkService) Delete(ctx context.Context, userID string, isAdmin bool, artworkID string) error {
	art, err := s.ownedArtwork(ctx, userID, artworkID, isAdmin)
	if err != nil {
		return err
	}

	// Pull the artwork out of every list that references it.
	lists, err := s.store.ListsContainingArtwork(ctx, artworkID)
	if err != nil {
		return fmt.Errorf("lists containing artwork: %w", err)
	}
	for _, list := range lists {
		if list.RemoveArtwork(artworkID) {
			if err := s.store.UpdateList(ctx, list); err != nil {
				return fmt.Errorf("remove artwork from list %s: %w", list.ID, err)
			}
		}
	}

	if err := s.store.DeleteArtwork(ctx, artworkID); err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}

	if err := s.storage.DeleteAll(images.BucketArtworks, artworkID); err != nil {
		s.logger.Warn("failed to delete artwork images",
			"artwork_id", artworkID,
			"error", err,
		)
	}

	s.logger.Info("artwork deleted",
		"artwork_id", artworkID,
		"artist_id", art.ArtistID,
		"deleted_by", userID,
	)

	return nil
}

// ownedArtwork fetches an artwork and verifies the caller may modify it.
func (s *ArtworkService) ownedArtwork(ctx context.Context, userID, artworkID string, isAdmin bool) (*domain.Artwork, error) {
	art, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		if errors.Is(err, store.ErrArtworkNotFound) {
			return nil, domainerrors.NotFound("artwork not found")
		}
		return nil, fmt.Errorf("get artwork: %w", err)
	}

	if art.ArtistID != userID && !isAdmin {
		return nil, domainerrors.Forbidden("you do not own this artwork")
	}

	return art, nil
}

// artistName resolves a user's display name, falling back to the empty
// string when the user row is gone.
func (s *ArtworkService) artistName(ctx context.Context, artistID string) string {
	user, err := s.store.Users.Get(ctx, artistID)
	if err != nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.UserName
}
