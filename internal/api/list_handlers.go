package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List lists",
		Description: "Returns the caller's lists, including the derived Likes and Dislikes lists",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "createList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists",
		Summary:     "Create list",
		Description: "Creates a new list for the caller",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns one of the caller's lists with its items",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Rename list",
		Description: "Renames one of the caller's lists",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes one of the caller's lists",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleListItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/items",
		Summary:     "Toggle list item",
		Description: "Adds the artwork to the list if absent, removes it if present",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleListItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "listsContainingArtwork",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/items/{artworkId}",
		Summary:     "Lists containing artwork",
		Description: "Returns the IDs of the caller's lists that contain the artwork",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListsContainingArtwork)
}

// === DTOs ===

// ListItemResponse is one entry in a list.
type ListItemResponse struct {
	ArtworkID string    `json:"artwork_id" doc:"Artwork ID"`
	AddedAt   time.Time `json:"added_at" doc:"When the artwork was added"`
}

// ListResponse contains list data in API responses.
type ListResponse struct {
	ID        string             `json:"id" doc:"List ID"`
	Name      string             `json:"name" doc:"List name"`
	Derived   bool               `json:"derived,omitempty" doc:"True for the computed Likes and Dislikes lists"`
	Items     []ListItemResponse `json:"items" doc:"Items, newest first"`
	CreatedAt time.Time          `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time          `json:"updated_at" doc:"Last update time"`
}

// ListListsResponse contains all of a user's lists.
type ListListsResponse struct {
	Lists []ListResponse `json:"lists" doc:"Derived lists first, then own lists"`
}

// ListListsOutput wraps the list of lists for Huma.
type ListListsOutput struct {
	Body ListListsResponse
}

// CreateListRequest is the request body for creating a list.
type CreateListRequest struct {
	Name string `json:"name" validate:"required,max=100" doc:"List name"`
}

// CreateListInput wraps the create list request for Huma.
type CreateListInput struct {
	Body CreateListRequest
}

// ListOutput wraps a single list response for Huma.
type ListOutput struct {
	Body ListResponse
}

// GetListInput contains parameters for fetching a list.
type GetListInput struct {
	ID string `path:"id" doc:"List ID"`
}

// RenameListRequest is the request body for renaming a list.
type RenameListRequest struct {
	Name string `json:"name" validate:"required,max=100" doc:"New list name"`
}

// RenameListInput wraps the rename request for Huma.
type RenameListInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body RenameListRequest
}

// DeleteListInput contains parameters for deleting a list.
type DeleteListInput struct {
	ID string `path:"id" doc:"List ID"`
}

// ToggleListItemRequest is the request body for a list-item toggle.
type ToggleListItemRequest struct {
	ListID    string `json:"listId" validate:"required,max=100" doc:"List ID"`
	ArtworkID string `json:"artworkId" validate:"required,max=100" doc:"Artwork ID"`
}

// ToggleListItemInput wraps the toggle request for Huma.
type ToggleListItemInput struct {
	Body ToggleListItemRequest
}

// ToggleListItemResponse reports the outcome of a toggle.
type ToggleListItemResponse struct {
	Action  string `json:"action" doc:"added or removed"`
	Message string `json:"message" doc:"Human-readable outcome"`
}

// ToggleListItemOutput wraps the toggle response for Huma.
type ToggleListItemOutput struct {
	Body ToggleListItemResponse
}

// ListsContainingInput contains parameters for the membership lookup.
type ListsContainingInput struct {
	ArtworkID string `path:"artworkId" doc:"Artwork ID"`
}

// ListsContainingResponse contains the IDs of lists holding an artwork.
type ListsContainingResponse struct {
	ListIDs []string `json:"list_ids" doc:"IDs of the caller's lists containing the artwork"`
}

// ListsContainingOutput wraps the membership response for Huma.
type ListsContainingOutput struct {
	Body ListsContainingResponse
}

// === Handlers ===

func (s *Server) handleListLists(ctx context.Context, _ *struct{}) (*ListListsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	derived, err := s.services.List.DerivedLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	own, err := s.services.List.ListMyLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	lists := make([]ListResponse, 0, len(derived)+len(own))
	for _, l := range derived {
		lists = append(lists, mapListResponse(l, true))
	}
	for _, l := range own {
		lists = append(lists, mapListResponse(l, false))
	}

	return &ListListsOutput{Body: ListListsResponse{Lists: lists}}, nil
}

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.CreateList(ctx, userID, service.CreateListRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list, false)}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *GetListInput) (*ListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.GetList(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list, false)}, nil
}

func (s *Server) handleRenameList(ctx context.Context, input *RenameListInput) (*ListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.RenameList(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list, false)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *DeleteListInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.List.DeleteList(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "List deleted"}}, nil
}

func (s *Server) handleToggleListItem(ctx context.Context, input *ToggleListItemInput) (*ToggleListItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.List.ToggleItem(ctx, userID, input.Body.ListID, input.Body.ArtworkID)
	if err != nil {
		return nil, err
	}

	return &ToggleListItemOutput{
		Body: ToggleListItemResponse{
			Action:  result.Action,
			Message: result.Message,
		},
	}, nil
}

func (s *Server) handleListsContainingArtwork(ctx context.Context, input *ListsContainingInput) (*ListsContainingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	listIDs, err := s.services.List.ListsContaining(ctx, userID, input.ArtworkID)
	if err != nil {
		return nil, err
	}

	return &ListsContainingOutput{Body: ListsContainingResponse{ListIDs: listIDs}}, nil
}

// === Helpers ===

func mapListResponse(l *domain.List, derived bool) ListResponse {
	items := make([]ListItemResponse, len(l.Items))
	for i, item := range l.Items {
		items[i] = ListItemResponse{
			ArtworkID: item.ArtworkID,
			AddedAt:   item.AddedAt,
		}
	}

	return ListResponse{
		ID:        l.ID,
		Name:      l.Name,
		Derived:   derived,
		Items:     items,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
