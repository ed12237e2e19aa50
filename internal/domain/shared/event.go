package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate and published after the
// transaction that produced it commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// AggregateRef names the aggregate an event came from
type AggregateRef struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

// BaseDomainEvent carries the envelope shared by every event. Concrete
// events embed it and add their payload fields.
type BaseDomainEvent struct {
	ID        uuid.UUID    `json:"event_id"`
	Type      string       `json:"event_type"`
	At        time.Time    `json:"occurred_at"`
	Aggregate AggregateRef `json:"aggregate"`
	StoreID   uuid.UUID    `json:"store_id"`
}

// NewBaseDomainEvent stamps a new envelope for an event of aggType/aggID in a store
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		At:        time.Now().UTC(),
		Aggregate: AggregateRef{Type: aggType, ID: aggID},
		StoreID:   tenantID,
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseDomainEvent) EventType() string      { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate.ID }
func (e BaseDomainEvent) AggregateType() string  { return e.Aggregate.Type }
func (e BaseDomainEvent) TenantID() uuid.UUID    { return e.StoreID }
