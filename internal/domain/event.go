package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types published after successful writes.
const (
	EventCustomerCreated  = "customer.created"
	EventCustomerUpdated  = "customer.updated"
	EventCustomerDeleted  = "customer.deleted"
	EventUserCreated      = "user.created"
	EventUserUpdated      = "user.updated"
	EventUserDeleted      = "user.deleted"
	EventIdentityOrphaned = "identity.orphaned"
)

// ChangeEvent describes a change to an aggregate. It satisfies
// ports.Event.
type ChangeEvent struct {
	Type        string         `json:"type"`
	AggregateID uuid.UUID      `json:"aggregateId"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Data        map[string]any `json:"data,omitempty"`
}

// NewChangeEvent stamps an event with the current time.
func NewChangeEvent(eventType string, id uuid.UUID, data map[string]any) *ChangeEvent {
	return &ChangeEvent{Type: eventType, AggregateID: id, OccurredAt: time.Now().UTC(), Data: data}
}

// EventType returns the event type name.
func (e *ChangeEvent) EventType() string { return e.Type }

// Payload returns the event itself for serialization.
func (e *ChangeEvent) Payload() any { return e }

// Key returns the partitioning key.
func (e *ChangeEvent) Key() string { return e.AggregateID.String() }
