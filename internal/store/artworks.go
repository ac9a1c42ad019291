package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/sse"
)

const (
	artworkPrefix           = "artwork:"
	artworksByArtistPrefix  = "idx:artworks:artist:"  // {artistID}:{artworkID}
	artworksByTagPrefix     = "idx:artworks:tag:"     // {tag}:{artworkID}
	artworksByTypePrefix    = "idx:artworks:type:"    // {type}:{timestamp}:{artworkID}
	artworksByCreatedPrefix = "idx:artworks:created:" // {timestamp}:{artworkID}
)

var (
	// ErrArtworkNotFound is returned when an artwork cannot be found by ID.
	ErrArtworkNotFound = errors.New("artwork not found")
	// ErrArtworkExists is returned when attempting to create an artwork with an existing ID.
	ErrArtworkExists = errors.New("artwork already exists")
)

// typeIndexKey builds the timestamp-ordered type index key for an artwork.
// Keys under one type prefix sort chronologically, so a reverse scan walks
// newest first.
func typeIndexKey(art *domain.Artwork) []byte {
	return fmt.Appendf(nil, "%s%s:%s:%s", artworksByTypePrefix, art.Type, sortableTimestamp(art.CreatedAt), art.ID)
}

// createdIndexKey builds the global chronological index key for an artwork.
// It backs the unfiltered feed; CreatedAt never changes, so the key is
// written once at create and removed at delete.
func createdIndexKey(art *domain.Artwork) []byte {
	return fmt.Appendf(nil, "%s%s:%s", artworksByCreatedPrefix, sortableTimestamp(art.CreatedAt), art.ID)
}

// CreateArtwork persists a new artwork with its artist, tag, and type indexes.
func (s *Store) CreateArtwork(ctx context.Context, art *domain.Artwork) error {
	key := []byte(artworkPrefix + art.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check artwork exists: %w", err)
	}
	if exists {
		return ErrArtworkExists
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(art)
		if err != nil {
			return fmt.Errorf("marshal artwork: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		artistKey := fmt.Appendf(nil, "%s%s:%s", artworksByArtistPrefix, art.ArtistID, art.ID)
		if err := txn.Set(artistKey, []byte{}); err != nil {
			return fmt.Errorf("set artist index: %w", err)
		}

		for _, tag := range art.Tags {
			tagKey := fmt.Appendf(nil, "%s%s:%s", artworksByTagPrefix, tag, art.ID)
			if err := txn.Set(tagKey, []byte{}); err != nil {
				return fmt.Errorf("set tag index: %w", err)
			}
		}

		if err := txn.Set(typeIndexKey(art), []byte{}); err != nil {
			return fmt.Errorf("set type index: %w", err)
		}

		if err := txn.Set(createdIndexKey(art), []byte{}); err != nil {
			return fmt.Errorf("set created index: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create artwork: %w", err)
	}

	s.emit(sse.NewArtworkCreatedEvent(art))
	s.indexArtworkAsync(ctx, art)

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "artwork created",
			slog.String("id", art.ID),
			slog.String("title", art.Title),
			slog.String("artist_id", art.ArtistID),
			slog.String("type", string(art.Type)),
			slog.Int("images", len(art.Images)),
		)
	}
	return nil
}

// GetArtwork retrieves an artwork by ID.
func (s *Store) GetArtwork(_ context.Context, id string) (*domain.Artwork, error) {
	key := []byte(artworkPrefix + id)

	var art domain.Artwork
	if err := s.get(key, &art); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrArtworkNotFound
		}
		return nil, fmt.Errorf("get artwork: %w", err)
	}
	return &art, nil
}

// UpdateArtwork updates an existing artwork, diffing tag indexes against
// the stored version. The type index key is derived from CreatedAt and so
// only moves if the artwork's type is changed.
func (s *Store) UpdateArtwork(ctx context.Context, art *domain.Artwork) error {
	key := []byte(artworkPrefix + art.ID)

	old, err := s.GetArtwork(ctx, art.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		art.Touch()
		data, err := json.Marshal(art)
		if err != nil {
			return fmt.Errorf("marshal artwork: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		oldTags := make(map[string]bool)
		for _, tag := range old.Tags {
			oldTags[tag] = true
		}
		newTags := make(map[string]bool)
		for _, tag := range art.Tags {
			newTags[tag] = true
		}

		for tag := range newTags {
			if !oldTags[tag] {
				tagKey := fmt.Appendf(nil, "%s%s:%s", artworksByTagPrefix, tag, art.ID)
				if err := txn.Set(tagKey, []byte{}); err != nil {
					return fmt.Errorf("set tag index: %w", err)
				}
			}
		}
		for tag := range oldTags {
			if !newTags[tag] {
				tagKey := fmt.Appendf(nil, "%s%s:%s", artworksByTagPrefix, tag, art.ID)
				if err := txn.Delete(tagKey); err != nil {
					return fmt.Errorf("delete tag index: %w", err)
				}
			}
		}

		if old.Type != art.Type {
			if err := txn.Delete(typeIndexKey(old)); err != nil {
				return fmt.Errorf("delete type index: %w", err)
			}
			if err := txn.Set(typeIndexKey(art), []byte{}); err != nil {
				return fmt.Errorf("set type index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update artwork: %w", err)
	}

	s.emit(sse.NewArtworkUpdatedEvent(art))
	s.indexArtworkAsync(ctx, art)

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "artwork updated",
			slog.String("id", art.ID),
			slog.String("title", art.Title),
		)
	}
	return nil
}

// DeleteArtwork deletes an artwork and all its indexes.
// The artwork.deleted event is broadcast so clients can drop stale references.
func (s *Store) DeleteArtwork(ctx context.Context, id string) error {
	art, err := s.GetArtwork(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(artworkPrefix + id)); err != nil {
			return fmt.Errorf("delete artwork: %w", err)
		}

		artistKey := fmt.Appendf(nil, "%s%s:%s", artworksByArtistPrefix, art.ArtistID, id)
		if err := txn.Delete(artistKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete artist index: %w", err)
		}

		for _, tag := range art.Tags {
			tagKey := fmt.Appendf(nil, "%s%s:%s", artworksByTagPrefix, tag, id)
			if err := txn.Delete(tagKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete tag index: %w", err)
			}
		}

		if err := txn.Delete(typeIndexKey(art)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete type index: %w", err)
		}

		if err := txn.Delete(createdIndexKey(art)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete created index: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}

	s.emit(sse.NewArtworkDeletedEvent(id))
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteArtwork(context.WithoutCancel(ctx), id); err != nil && s.logger != nil {
				s.logger.Warn("failed to remove artwork from search index", "id", id, "error", err)
			}
		}()
	}

	if s.logger != nil {
		s.logger.Info("artwork deleted", "id", id)
	}
	return nil
}

// ListArtworksByType returns one page of artworks of the given type,
// newest first, along with the exact total for that type.
func (s *Store) ListArtworksByType(ctx context.Context, artType domain.ArtType, params PageParams) (PageResult[*domain.Artwork], error) {
	prefix := fmt.Appendf(nil, "%s%s:", artworksByTypePrefix, artType)
	return s.pageByTimedIndex(ctx, prefix, params)
}

// ListArtworks returns one page of all artworks regardless of type, newest
// first, with the exact total. Backs the unfiltered browse feed.
func (s *Store) ListArtworks(ctx context.Context, params PageParams) (PageResult[*domain.Artwork], error) {
	return s.pageByTimedIndex(ctx, []byte(artworksByCreatedPrefix), params)
}

// pageByTimedIndex walks a chronological index in reverse, counting every
// key for the exact total and fetching only the requested window.
func (s *Store) pageByTimedIndex(ctx context.Context, prefix []byte, params PageParams) (PageResult[*domain.Artwork], error) {
	params.Validate()

	var (
		ids   []string
		total int
	)

	offset := params.Offset()

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		opts.Reverse = true // Chronological keys scanned newest first

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the end of the prefix range.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if total >= offset && total < offset+params.Limit {
				ids = append(ids, lastSegment(string(it.Item().Key())))
			}
			total++
		}
		return nil
	})
	if err != nil {
		return PageResult[*domain.Artwork]{}, fmt.Errorf("scan timed index: %w", err)
	}

	items := make([]*domain.Artwork, 0, len(ids))
	for _, id := range ids {
		art, err := s.GetArtwork(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get artwork from timed index", "artwork_id", id, "error", err)
			}
			continue
		}
		items = append(items, art)
	}

	return NewPageResult(items, params, total), nil
}

// ListAllArtworksByType returns every artwork of one type, newest first.
// Callers merging several types re-sort across the combined set.
func (s *Store) ListAllArtworksByType(ctx context.Context, artType domain.ArtType) ([]*domain.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", artworksByTypePrefix, artType)

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, lastSegment(string(it.Item().Key())))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan type index: %w", err)
	}

	arts := make([]*domain.Artwork, 0, len(ids))
	for _, id := range ids {
		art, err := s.GetArtwork(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get artwork from type index", "artwork_id", id, "error", err)
			}
			continue
		}
		arts = append(arts, art)
	}
	return arts, nil
}

// ToggleReaction flips one user's like or dislike on an artwork inside a
// single transaction. Reactions never touch the secondary indexes, so the
// write is just the row itself; badger's conflict detection catches
// concurrent toggles of the same artwork and the losing toggle re-reads
// and retries, so no reaction is lost.
func (s *Store) ToggleReaction(ctx context.Context, artworkID, userID string, like bool) (*domain.Artwork, error) {
	key := []byte(artworkPrefix + artworkID)

	var art domain.Artwork
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrArtworkNotFound
			}
			if err != nil {
				return err
			}

			art = domain.Artwork{}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &art)
			}); err != nil {
				return fmt.Errorf("unmarshal artwork: %w", err)
			}

			if like {
				art.ToggleLike(userID)
			} else {
				art.ToggleDislike(userID)
			}
			art.Touch()

			data, err := json.Marshal(&art)
			if err != nil {
				return fmt.Errorf("marshal artwork: %w", err)
			}
			return txn.Set(key, data)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if errors.Is(err, ErrArtworkNotFound) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("toggle reaction: %w", err)
		}
		break
	}

	s.emit(sse.NewArtworkUpdatedEvent(&art))
	s.indexArtworkAsync(ctx, &art)

	if s.logger != nil {
		s.logger.Debug("reaction toggled",
			"artwork_id", artworkID,
			"user_id", userID,
			"like", like,
		)
	}
	return &art, nil
}

// ListArtworksByTag returns all artworks carrying the given tag, unordered.
// Callers merge and sort across tags.
func (s *Store) ListArtworksByTag(ctx context.Context, tag string) ([]*domain.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", artworksByTagPrefix, tag)
	ids, err := s.scanKeySuffixes(prefix)
	if err != nil {
		return nil, fmt.Errorf("scan tag index: %w", err)
	}

	arts := make([]*domain.Artwork, 0, len(ids))
	for _, id := range ids {
		art, err := s.GetArtwork(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get artwork from tag index", "artwork_id", id, "error", err)
			}
			continue
		}
		arts = append(arts, art)
	}
	return arts, nil
}

// ListArtworksByArtist returns all artworks published by a user.
func (s *Store) ListArtworksByArtist(ctx context.Context, artistID string) ([]*domain.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", artworksByArtistPrefix, artistID)
	ids, err := s.scanKeySuffixes(prefix)
	if err != nil {
		return nil, fmt.Errorf("scan artist index: %w", err)
	}

	arts := make([]*domain.Artwork, 0, len(ids))
	for _, id := range ids {
		art, err := s.GetArtwork(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get artwork from artist index", "artwork_id", id, "error", err)
			}
			continue
		}
		arts = append(arts, art)
	}
	return arts, nil
}

// ScanArtworks returns an iterator over every artwork row. Used for derived
// views that cut across the secondary indexes.
func (s *Store) ScanArtworks(ctx context.Context) iter.Seq2[*domain.Artwork, error] {
	prefix := []byte(artworkPrefix)
	return func(yield func(*domain.Artwork, error) bool) {
		s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				var art domain.Artwork
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &art)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&art, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}

// indexArtworkAsync pushes an artwork to the search index without blocking
// the write path.
func (s *Store) indexArtworkAsync(ctx context.Context, art *domain.Artwork) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexArtwork(context.WithoutCancel(ctx), art); err != nil && s.logger != nil {
			s.logger.Warn("failed to index artwork", "id", art.ID, "error", err)
		}
	}()
}
