package messaging

import (
	"context"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes a committed change to a stored record.
type Event struct {
	Type       string      `json:"type"`
	Entity     string      `json:"entity"`
	ID         int         `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

func NewEvent(entity, action string, id int, data interface{}) Event {
	return Event{
		Type:       entity + "." + action,
		Entity:     entity,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
