package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/id"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// Toggle actions reported by ToggleItem.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// ListService orchestrates list operations with ownership enforcement.
// Besides stored lists it exposes two derived views per user, "Likes" and
// "Dislikes", computed from the user's reactions rather than stored rows.
type ListService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store *store.Store, logger *slog.Logger) *ListService {
	return &ListService{
		store:  store,
		logger: logger,
	}
}

// CreateListRequest contains new list data.
type CreateListRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ToggleItemResult reports the outcome of a list-item toggle.
type ToggleItemResult struct {
	Action  string `json:"action"` // "added" or "removed"
	Message string `json:"message"`
}

// CreateList creates a new list for the user. Names that collide with the
// derived views are rejected.
func (s *ListService) CreateList(ctx context.Context, ownerID string, req CreateListRequest) (*domain.List, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domainerrors.Validation("list name cannot be empty")
	}
	if domain.ReservedListName(name) {
		return nil, domainerrors.Validationf("%q is a reserved list name", name)
	}

	list := &domain.List{
		OwnerID: ownerID,
		Name:    name,
		Items:   []domain.ListItem{},
	}
	list.ID = id.NewUUID()
	list.InitTimestamps()

	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	s.logger.Info("list created",
		"list_id", list.ID,
		"owner_id", ownerID,
		"name", name,
	)

	return list, nil
}

// GetList returns one list the user owns.
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// RenameList changes a list's name.
func (s *ListService) RenameList(ctx context.Context, userID, listID, name string) (*domain.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("list name cannot be empty")
	}
	if domain.ReservedListName(name) {
		return nil, domainerrors.Validationf("%q is a reserved list name", name)
	}

	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	list.Name = name
	list.Touch()

	if err := s.store.UpdateList(ctx, list); err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}

	return list, nil
}

// DeleteList removes a list and all its items.
func (s *ListService) DeleteList(ctx context.Context, userID, listID string) error {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}

	s.logger.Info("list deleted",
		"list_id", listID,
		"owner_id", userID,
	)

	return nil
}

// ListMyLists returns the user's lists ordered by most recently updated.
func (s *ListService) ListMyLists(ctx context.Context, userID string) ([]*domain.List, error) {
	lists, err := s.store.ListListsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}

	sort.Slice(lists, func(i, j int) bool {
		if !lists[i].UpdatedAt.Equal(lists[j].UpdatedAt) {
			return lists[i].UpdatedAt.After(lists[j].UpdatedAt)
		}
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})

	return lists, nil
}

// ToggleItem adds the artwork to the list when absent and removes it when
// present.
func (s *ListService) ToggleItem(ctx context.Context, userID, listID, artworkID string) (*ToggleItemResult, error) {
	if _, err := s.store.GetArtwork(ctx, artworkID); err != nil {
		if errors.Is(err, store.ErrArtworkNotFound) {
			return nil, domainerrors.NotFound("artwork not found")
		}
		return nil, fmt.Errorf("get artwork: %w", err)
	}

	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	var result ToggleItemResult
	if list.AddArtwork(artworkID) {
		result = ToggleItemResult{Action: ActionAdded, Message: "Artwork added to list"}
	} else {
		list.RemoveArtwork(artworkID)
		result = ToggleItemResult{Action: ActionRemoved, Message: "Artwork removed from list"}
	}
	list.Touch()

	if err := s.store.UpdateList(ctx, list); err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}

	return &result, nil
}

// ListsContaining returns the IDs of the user's lists that contain the
// artwork. Used by clients to render membership checkmarks.
func (s *ListService) ListsContaining(ctx context.Context, userID, artworkID string) ([]string, error) {
	lists, err := s.store.ListsContainingArtwork(ctx, artworkID)
	if err != nil {
		return nil, fmt.Errorf("lists containing artwork: %w", err)
	}

	ids := make([]string, 0, len(lists))
	for _, list := range lists {
		if list.OwnerID == userID {
			ids = append(ids, list.ID)
		}
	}
	return ids, nil
}

// DerivedLists builds the "Likes" and "Dislikes" views from the user's
// reactions across all artworks they have reacted to. These are not stored
// rows; their items carry the reaction timestamps as AddedAt.
func (s *ListService) DerivedLists(ctx context.Context, userID string) ([]*domain.List, error) {
	likes := &domain.List{OwnerID: userID, Name: domain.ListNameLikes, Items: []domain.ListItem{}}
	likes.ID = "derived:likes:" + userID
	dislikes := &domain.List{OwnerID: userID, Name: domain.ListNameDislikes, Items: []domain.ListItem{}}
	dislikes.ID = "derived:dislikes:" + userID

	for art, err := range s.store.ScanArtworks(ctx) {
		if err != nil {
			return nil, fmt.Errorf("scan artworks: %w", err)
		}
		for _, r := range art.Likes {
			if r.UserID == userID {
				likes.Items = append(likes.Items, domain.ListItem{ArtworkID: art.ID, AddedAt: r.Timestamp})
			}
		}
		for _, r := range art.Dislikes {
			if r.UserID == userID {
				dislikes.Items = append(dislikes.Items, domain.ListItem{ArtworkID: art.ID, AddedAt: r.Timestamp})
			}
		}
	}

	for _, derived := range []*domain.List{likes, dislikes} {
		sort.Slice(derived.Items, func(i, j int) bool {
			return derived.Items[i].AddedAt.After(derived.Items[j].AddedAt)
		})
	}

	return []*domain.List{likes, dislikes}, nil
}

// ownedList fetches a list and verifies ownership.
func (s *ListService) ownedList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, domainerrors.NotFound("list not found")
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	if list.OwnerID != userID {
		return nil, domainerrors.Forbidden("you do not own this list")
	}

	return list, nil
}
