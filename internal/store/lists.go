package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/sse"
)

const (
	listPrefix           = "list:"
	listsByOwnerPrefix   = "idx:lists:owner:"   // {ownerID}:{listID}
	listsByArtworkPrefix = "idx:lists:artwork:" // {artworkID}:{listID}, for delete cascade
)

var (
	// ErrListNotFound is returned when a list cannot be found by ID.
	ErrListNotFound = errors.New("list not found")
	// ErrDuplicateList is returned when attempting to create a list with an existing ID.
	ErrDuplicateList = errors.New("list already exists")
)

// CreateList creates a new list in the store.
// Creates the list, owner index, and artwork indexes for any initial items.
func (s *Store) CreateList(_ context.Context, list *domain.List) error {
	key := []byte(listPrefix + list.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check list exists: %w", err)
	}
	if exists {
		return ErrDuplicateList
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal list: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		ownerIndexKey := fmt.Appendf(nil, "%s%s:%s", listsByOwnerPrefix, list.OwnerID, list.ID)
		if err := txn.Set(ownerIndexKey, []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}

		for _, item := range list.Items {
			artworkKey := fmt.Appendf(nil, "%s%s:%s", listsByArtworkPrefix, item.ArtworkID, list.ID)
			if err := txn.Set(artworkKey, []byte{}); err != nil {
				return fmt.Errorf("set artwork-list index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create list: %w", err)
	}

	s.emit(sse.NewListCreatedEvent(list))

	if s.logger != nil {
		s.logger.Info("list created",
			"id", list.ID,
			"name", list.Name,
			"owner_id", list.OwnerID,
			"item_count", len(list.Items),
		)
	}
	return nil
}

// GetList retrieves a list by ID.
func (s *Store) GetList(_ context.Context, id string) (*domain.List, error) {
	key := []byte(listPrefix + id)

	var list domain.List
	if err := s.get(key, &list); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	return &list, nil
}

// UpdateList updates an existing list in the store.
// Maintains artwork indexes by diffing old vs new items.
func (s *Store) UpdateList(ctx context.Context, list *domain.List) error {
	key := []byte(listPrefix + list.ID)

	oldList, err := s.GetList(ctx, list.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal list: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set list: %w", err)
		}

		oldItems := make(map[string]bool)
		for _, item := range oldList.Items {
			oldItems[item.ArtworkID] = true
		}

		newItems := make(map[string]bool)
		for _, item := range list.Items {
			newItems[item.ArtworkID] = true
		}

		for artworkID := range newItems {
			if !oldItems[artworkID] {
				artworkKey := fmt.Appendf(nil, "%s%s:%s", listsByArtworkPrefix, artworkID, list.ID)
				if err := txn.Set(artworkKey, []byte{}); err != nil {
					return fmt.Errorf("set artwork-list index: %w", err)
				}
			}
		}

		for artworkID := range oldItems {
			if !newItems[artworkID] {
				artworkKey := fmt.Appendf(nil, "%s%s:%s", listsByArtworkPrefix, artworkID, list.ID)
				if err := txn.Delete(artworkKey); err != nil {
					return fmt.Errorf("delete artwork-list index: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}

	s.emit(sse.NewListUpdatedEvent(list))

	if s.logger != nil {
		s.logger.Info("list updated",
			"id", list.ID,
			"name", list.Name,
		)
	}
	return nil
}

// DeleteList deletes a list and all its indexes.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	list, err := s.GetList(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(listPrefix + id)); err != nil {
			return fmt.Errorf("delete list: %w", err)
		}

		ownerIndexKey := fmt.Appendf(nil, "%s%s:%s", listsByOwnerPrefix, list.OwnerID, id)
		if err := txn.Delete(ownerIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete owner index: %w", err)
		}

		for _, item := range list.Items {
			artworkKey := fmt.Appendf(nil, "%s%s:%s", listsByArtworkPrefix, item.ArtworkID, id)
			if err := txn.Delete(artworkKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete artwork-list index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}

	s.emit(sse.NewListDeletedEvent(id, list.OwnerID))

	if s.logger != nil {
		s.logger.Info("list deleted", "id", id)
	}
	return nil
}

// ListListsByOwner returns all lists owned by a user.
func (s *Store) ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", listsByOwnerPrefix, ownerID)
	listIDs, err := s.scanKeySuffixes(prefix)
	if err != nil {
		return nil, fmt.Errorf("scan owner index: %w", err)
	}

	lists := make([]*domain.List, 0, len(listIDs))
	for _, listID := range listIDs {
		list, err := s.GetList(ctx, listID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get list from index", "list_id", listID, "error", err)
			}
			continue
		}
		lists = append(lists, list)
	}

	return lists, nil
}

// ListsContainingArtwork returns all lists that currently include the artwork.
// Used to cascade artwork deletion into list cleanup.
func (s *Store) ListsContainingArtwork(ctx context.Context, artworkID string) ([]*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", listsByArtworkPrefix, artworkID)
	listIDs, err := s.scanKeySuffixes(prefix)
	if err != nil {
		return nil, fmt.Errorf("scan artwork-list index: %w", err)
	}

	lists := make([]*domain.List, 0, len(listIDs))
	for _, listID := range listIDs {
		list, err := s.GetList(ctx, listID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get list from artwork index", "list_id", listID, "error", err)
			}
			continue
		}
		lists = append(lists, list)
	}

	return lists, nil
}
