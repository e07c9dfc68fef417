// Package shared holds the domain building blocks used by every bounded
// context: the event envelope and the event bus contracts.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened in the domain, attributed to one
// aggregate.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
	AggregateType() string
}

// BaseDomainEvent carries the envelope fields concrete events embed.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     string    `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
}

// NewBaseDomainEvent stamps a fresh envelope for the given aggregate.
func NewBaseDomainEvent(eventType, aggregateID, aggregateType string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggregateID,
		AggType:   aggregateType,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() string   { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string { return e.AggType }
