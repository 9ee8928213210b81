package session

import (
	"context"

	"github.com/google/uuid"
)

// EventType names something that happened in a session.
type EventType string

const (
	EventTypeIngredientSelected  EventType = "ingredient.selected"
	EventTypeCombinationResolved EventType = "combination.resolved"
	EventTypeSceneChanged        EventType = "scene.changed"
	EventTypePhaseChanged        EventType = "phase.changed"
	EventTypeSessionRestarted    EventType = "session.restarted"
)

// Event is a notification for observers outside the session, such as a renderer
// in another process.
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher delivers session events. Delivery is best effort; a failing
// publisher never blocks play.
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, event Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, sessionID uuid.UUID, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	return f(ctx, sessionID, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, uuid.UUID, Event) error { return nil }
