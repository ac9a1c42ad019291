package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gallerieapp/gallerie-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get own profile",
		Description: "Returns the authenticated user's full profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update own profile",
		Description: "Updates display name or bio",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get public profile",
		Description: "Returns another user's public profile",
		Tags:        []string{"Users"},
	}, s.handleGetUserProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadAvatar",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/avatar",
		Summary:     "Upload avatar",
		Description: "Replaces the authenticated user's avatar image. Body is the raw image bytes.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadBanner",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/banner",
		Summary:     "Upload banner",
		Description: "Replaces the authenticated user's banner image. Body is the raw image bytes.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadBanner)
}

// === DTOs ===

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100" doc:"Display name"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=1000" doc:"Profile bio"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// GetUserProfileInput contains parameters for fetching a public profile.
type GetUserProfileInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UploadImageInput contains a raw image upload.
type UploadImageInput struct {
	ContentType string `header:"Content-Type" doc:"Image content type"`
	RawBody     []byte
}

// === Handlers ===

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *GetUserProfileInput) (*UserOutput, error) {
	user, err := s.services.User.GetPublicProfile(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUploadAvatar(ctx context.Context, input *UploadImageInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.SetAvatar(ctx, userID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUploadBanner(ctx context.Context, input *UploadImageInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.SetBanner(ctx, userID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}
