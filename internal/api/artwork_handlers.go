package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/service"
)

func (s *Server) registerArtworkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "publishArtwork",
		Method:      http.MethodPost,
		Path:        "/api/v1/artworks",
		Summary:     "Publish artwork",
		Description: "Publishes a new artwork. Multipart form with metadata fields and one or more 'pages' image files.",
		Tags:        []string{"Artworks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePublishArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArtwork",
		Method:      http.MethodGet,
		Path:        "/api/v1/artworks/{id}",
		Summary:     "Get artwork",
		Description: "Returns an artwork with its artist's display name",
		Tags:        []string{"Artworks"},
	}, s.handleGetArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArtwork",
		Method:      http.MethodPatch,
		Path:        "/api/v1/artworks/{id}",
		Summary:     "Update artwork",
		Description: "Updates artwork metadata. Only the artist may edit.",
		Tags:        []string{"Artworks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteArtwork",
		Method:      http.MethodDelete,
		Path:        "/api/v1/artworks/{id}",
		Summary:     "Delete artwork",
		Description: "Deletes an artwork with its images and list entries. Artist or admin only.",
		Tags:        []string{"Artworks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID: "listArtistArtworks",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/artworks",
		Summary:     "List artist artworks",
		Description: "Returns all artworks published by an artist, newest first",
		Tags:        []string{"Artworks"},
	}, s.handleListArtistArtworks)
}

// === DTOs ===

// PublishArtworkInput wraps the multipart publish request for Huma.
type PublishArtworkInput struct {
	RawBody multipart.Form
}

// ImageRefResponse locates one stored page image.
type ImageRefResponse struct {
	Bucket string `json:"bucket" doc:"Storage bucket"`
	Path   string `json:"path" doc:"Path within the bucket"`
}

// ArtworkResponse contains artwork data in API responses.
type ArtworkResponse struct {
	ID           string             `json:"id" doc:"Artwork ID"`
	ArtistID     string             `json:"artist_id" doc:"Artist's user ID"`
	ArtistName   string             `json:"artist_name,omitempty" doc:"Artist's display name"`
	Title        string             `json:"title" doc:"Title"`
	Description  string             `json:"description,omitempty" doc:"Description"`
	Type         string             `json:"artwork_type" doc:"Artwork type (illustration, manga, light_novel)"`
	Tags         []string           `json:"tags,omitempty" doc:"Tags"`
	Images       []ImageRefResponse `json:"images" doc:"Page images in order"`
	Blurhash     string             `json:"blurhash,omitempty" doc:"Placeholder hash of the first page"`
	LikeCount    int                `json:"like_count" doc:"Number of likes"`
	DislikeCount int                `json:"dislike_count" doc:"Number of dislikes"`
	Liked        bool               `json:"liked" doc:"Whether the caller likes this artwork"`
	Disliked     bool               `json:"disliked" doc:"Whether the caller dislikes this artwork"`
	CreatedAt    time.Time          `json:"created_at" doc:"Publication time"`
	UpdatedAt    time.Time          `json:"updated_at" doc:"Last update time"`
}

// ArtworkOutput wraps the artwork response for Huma.
type ArtworkOutput struct {
	Body ArtworkResponse
}

// GetArtworkInput contains parameters for fetching an artwork.
type GetArtworkInput struct {
	ID string `path:"id" doc:"Artwork ID"`
}

// UpdateArtworkRequest is the request body for metadata updates.
type UpdateArtworkRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=200" doc:"Title"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000" doc:"Description"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=50" doc:"Tags"`
}

// UpdateArtworkInput wraps the update request for Huma.
type UpdateArtworkInput struct {
	ID   string `path:"id" doc:"Artwork ID"`
	Body UpdateArtworkRequest
}

// DeleteArtworkInput contains parameters for deleting an artwork.
type DeleteArtworkInput struct {
	ID string `path:"id" doc:"Artwork ID"`
}

// ListArtistArtworksInput contains parameters for listing an artist's works.
type ListArtistArtworksInput struct {
	ID string `path:"id" doc:"Artist's user ID"`
}

// ArtworkListResponse contains a list of artworks.
type ArtworkListResponse struct {
	Artworks []ArtworkResponse `json:"artworks" doc:"Artworks, newest first"`
}

// ArtworkListOutput wraps the artwork list response for Huma.
type ArtworkListOutput struct {
	Body ArtworkListResponse
}

// === Handlers ===

func (s *Server) handlePublishArtwork(ctx context.Context, input *PublishArtworkInput) (*ArtworkOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	form := input.RawBody
	req := service.PublishRequest{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Type:        formValue(form, "type"),
		Tags:        form.Value["tags"],
	}

	files := form.File["pages"]
	if len(files) == 0 {
		return nil, huma.Error422UnprocessableEntity("At least one page image is required. Use 'pages' file fields.")
	}

	for _, header := range files {
		imgData, err := readFormFile(header)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Failed to read uploaded file " + header.Filename)
		}
		req.Images = append(req.Images, imgData)
	}

	art, err := s.services.Artwork.Publish(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &ArtworkOutput{Body: mapArtworkResponse(art, "", userID)}, nil
}

func (s *Server) handleGetArtwork(ctx context.Context, input *GetArtworkInput) (*ArtworkOutput, error) {
	// Anonymous access is allowed; the user ID only drives the
	// liked/disliked flags.
	userID, _ := ctx.Value(contextKeyUserID).(string)

	view, err := s.services.Artwork.GetArtwork(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ArtworkOutput{Body: mapArtworkResponse(view.Artwork, view.ArtistName, userID)}, nil
}

func (s *Server) handleUpdateArtwork(ctx context.Context, input *UpdateArtworkInput) (*ArtworkOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	art, err := s.services.Artwork.UpdateMetadata(ctx, userID, input.ID, service.UpdateArtworkRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &ArtworkOutput{Body: mapArtworkResponse(art, "", userID)}, nil
}

func (s *Server) handleDeleteArtwork(ctx context.Context, input *DeleteArtworkInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Artwork.Delete(ctx, userID, IsAdmin(ctx), input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Artwork deleted"}}, nil
}

func (s *Server) handleListArtistArtworks(ctx context.Context, input *ListArtistArtworksInput) (*ArtworkListOutput, error) {
	userID, _ := ctx.Value(contextKeyUserID).(string)

	arts, err := s.services.Artwork.ListByArtist(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]ArtworkResponse, len(arts))
	for i, art := range arts {
		resp[i] = mapArtworkResponse(art, "", userID)
	}

	return &ArtworkListOutput{Body: ArtworkListResponse{Artworks: resp}}, nil
}

// === Helpers ===

func mapArtworkResponse(art *domain.Artwork, artistName, viewerID string) ArtworkResponse {
	images := make([]ImageRefResponse, len(art.Images))
	for i, ref := range art.Images {
		images[i] = ImageRefResponse{Bucket: ref.Bucket, Path: ref.Path}
	}

	resp := ArtworkResponse{
		ID:           art.ID,
		ArtistID:     art.ArtistID,
		ArtistName:   artistName,
		Title:        art.Title,
		Description:  art.Description,
		Type:         string(art.Type),
		Tags:         art.Tags,
		Images:       images,
		Blurhash:     art.Blurhash,
		LikeCount:    len(art.Likes),
		DislikeCount: len(art.Dislikes),
		CreatedAt:    art.CreatedAt,
		UpdatedAt:    art.UpdatedAt,
	}

	if viewerID != "" {
		resp.Liked = art.HasLiked(viewerID)
		resp.Disliked = art.HasDisliked(viewerID)
	}

	return resp
}

func formValue(form multipart.Form, field string) string {
	if values := form.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
