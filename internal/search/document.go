// Package search provides full-text search over artworks using Bleve.
package search

import (
	"github.com/gallerieapp/gallerie-server/internal/domain"
)

// SearchDocument is the document structure for the Bleve index.
//
// The artist's display name is denormalized into artwork documents so a
// single query matches both titles and creators without a join.
type SearchDocument struct {
	// Identity
	ID string `json:"id"`

	// Primary searchable text
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ArtistName  string `json:"artist_name,omitempty"` // Denormalized for search

	// Keyword fields for exact filtering
	ArtworkType string   `json:"artwork_type"`
	ArtistID    string   `json:"artist_id"`
	Tags        []string `json:"tags,omitempty"`

	// Timestamps for sorting
	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// FromArtwork builds a search document from an artwork.
// artistName may be empty when the artist record is unavailable.
func FromArtwork(art *domain.Artwork, artistName string) *SearchDocument {
	return &SearchDocument{
		ID:          art.ID,
		Title:       art.Title,
		Description: art.Description,
		ArtistName:  artistName,
		ArtworkType: string(art.Type),
		ArtistID:    art.ArtistID,
		Tags:        art.Tags,
		CreatedAt:   art.CreatedAt.UnixMilli(),
		UpdatedAt:   art.UpdatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":           d.ID,
		"title":        d.Title,
		"artwork_type": d.ArtworkType,
		"artist_id":    d.ArtistID,
		"created_at":   d.CreatedAt,
		"updated_at":   d.UpdatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.ArtistName != "" {
		m["artist_name"] = d.ArtistName
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
