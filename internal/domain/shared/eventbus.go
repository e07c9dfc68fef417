package shared

import "context"

// EventHandler consumes domain events.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the event types this handler wants. Empty means all.
	EventTypes() []string
}

// EventPublisher is the side of the bus services publish through.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler, for the given types or for all events
	// when none are given.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is a full publish/subscribe bus.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
