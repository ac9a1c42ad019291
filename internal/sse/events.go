// Package sse implements Server-Sent Events for real-time gallery updates and event broadcasting.
package sse

import (
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventArtworkCreated represents an artwork publication event.
	EventArtworkCreated EventType = "artwork.created"
	// EventArtworkUpdated represents an artwork update event.
	// Also fired when reactions change, since they are stored on the artwork.
	EventArtworkUpdated EventType = "artwork.updated"
	// EventArtworkDeleted represents an artwork deletion event.
	// Clients use this to drop cached pages and list entries referencing the artwork.
	EventArtworkDeleted EventType = "artwork.deleted"

	// EventListCreated represents a list creation event.
	// Only sent to the list owner.
	EventListCreated EventType = "list.created"
	// EventListUpdated represents a list rename or item change event.
	// Only sent to the list owner.
	EventListUpdated EventType = "list.updated"
	// EventListDeleted represents a list deletion event.
	// Only sent to the list owner.
	EventListDeleted EventType = "list.deleted"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`

	// When UserID is set, the event is only delivered to that user's clients.
	// Empty string means broadcast to all.
	UserID string `json:"-"`
}

// ArtworkEventData is the data payload for artwork create/update events.
type ArtworkEventData struct {
	Artwork *domain.Artwork `json:"artwork"`
}

// ArtworkDeletedEventData is the data payload for artwork delete events.
type ArtworkDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ArtworkID string    `json:"artwork_id"`
}

// ListEventData is the data payload for list events.
type ListEventData struct {
	List *domain.List `json:"list"`
}

// ListDeletedEventData is the data payload for list delete events.
type ListDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ListID    string    `json:"list_id"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewArtworkCreatedEvent creates an artwork.created event.
func NewArtworkCreatedEvent(art *domain.Artwork) Event {
	return Event{
		Type:      EventArtworkCreated,
		Data:      ArtworkEventData{Artwork: art},
		Timestamp: time.Now(),
	}
}

// NewArtworkUpdatedEvent creates an artwork.updated event.
func NewArtworkUpdatedEvent(art *domain.Artwork) Event {
	return Event{
		Type:      EventArtworkUpdated,
		Data:      ArtworkEventData{Artwork: art},
		Timestamp: time.Now(),
	}
}

// NewArtworkDeletedEvent creates an artwork.deleted event.
func NewArtworkDeletedEvent(artworkID string) Event {
	return Event{
		Type:      EventArtworkDeleted,
		Data:      ArtworkDeletedEventData{ArtworkID: artworkID, DeletedAt: time.Now()},
		Timestamp: time.Now(),
	}
}

// NewListCreatedEvent creates a list.created event scoped to the owner.
func NewListCreatedEvent(list *domain.List) Event {
	return Event{
		Type:      EventListCreated,
		Data:      ListEventData{List: list},
		Timestamp: time.Now(),
		UserID:    list.OwnerID,
	}
}

// NewListUpdatedEvent creates a list.updated event scoped to the owner.
func NewListUpdatedEvent(list *domain.List) Event {
	return Event{
		Type:      EventListUpdated,
		Data:      ListEventData{List: list},
		Timestamp: time.Now(),
		UserID:    list.OwnerID,
	}
}

// NewListDeletedEvent creates a list.deleted event scoped to the owner.
func NewListDeletedEvent(listID, ownerID string) Event {
	return Event{
		Type:      EventListDeleted,
		Data:      ListDeletedEventData{ListID: listID, DeletedAt: time.Now()},
		Timestamp: time.Now(),
		UserID:    ownerID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
