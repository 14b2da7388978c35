// Package events provides a unified event system for real-time wishlist
// updates.
//
// The broker connects the store's hooks to every transport (WebSocket and
// SSE) through a single pipeline, so each change is published once and
// fanned out to all connected clients.
package events

import (
	"github.com/agentstation/utc"
	"github.com/google/uuid"
)

// EventType represents the type of wishlist event.
type EventType string

// Event types for wishlist changes.
const (
	// Item events (from store hooks).
	ItemAdded   EventType = "item.added"
	ItemRemoved EventType = "item.removed"

	// WishlistLoaded fires when the whole wishlist was replaced, including
	// the startup load from storage.
	WishlistLoaded EventType = "wishlist.loaded"

	// Client events (from transport layers).
	ClientConnected EventType = "client.connected"
)

// Event represents a wishlist event with type, timestamp, and data.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent stamps a new event with a fresh id and the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: utc.Now(),
		Data:      data,
	}
}
