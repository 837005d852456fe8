package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named permission bundle.
type Role struct {
	ID   uuid.UUID
	Name string

	// InvariantKey is the machine key clients bind to; it never changes
	// meaning even when Name is edited.
	InvariantKey string

	Description   string
	RecordVersion int64
	WhenEdited    time.Time
}
