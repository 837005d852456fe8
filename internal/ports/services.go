// Package ports defines the contracts the use cases depend on.
//
// Port design principles:
//   - Context is always the first parameter
//   - Methods return domain types, never DTOs or gorm models
//   - Errors are domain errors (ErrNotFound, ErrConflict, ...)
//   - Interfaces stay small; the use cases name only what they call
package ports

import (
	"context"
	"time"
)

// EventPublisher defines the contract for publishing domain events.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	// Returns domain.ErrUnavailable if the broker is unreachable.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier used for topic routing.
	EventType() string

	// Key returns the partition key, usually the aggregate id.
	Key() string

	// Payload returns the event data for serialization.
	Payload() any
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Cache defines the contract for byte-oriented caching.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
