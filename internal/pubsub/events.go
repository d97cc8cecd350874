package pubsub

import "context"

type EventType string

const (
	// EventValueChanged carries a picker's new value after any selection change.
	EventValueChanged EventType = "value_changed"
	// EventPoolReloaded carries a candidate pool read again from configuration.
	EventPoolReloaded EventType = "pool_reloaded"
	// EventCreated is used by append-only feeds such as logs and status messages.
	EventCreated EventType = "created"
)

type Event[T any] struct {
	Type    EventType
	Payload T
}

type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
