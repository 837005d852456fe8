package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the local record of an identity owned by the identity provider.
type User struct {
	// ID is issued by the identity provider. A user is never stored locally
	// under an id generated by this service.
	ID uuid.UUID

	// LanguageID references a Language row.
	LanguageID uuid.UUID

	Email     string
	FirstName string
	LastName  string

	// RecordVersion is the optimistic-concurrency token. Use cases carry it
	// forward unchanged; the store advances it on every write.
	RecordVersion int64

	WhenEdited time.Time
}

// HasIdentity reports whether the user carries a provider-issued id.
func (u User) HasIdentity() bool {
	return u.ID != uuid.Nil
}
