package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// CustomerOutputPort receives customer use case results.
type CustomerOutputPort interface {
	Present(customer *domain.Customer, context *domain.Context, created bool)
	PresentDeleted()
}

// UserOutput is the user-visible projection of a user.
type UserOutput struct {
	UserID       uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	LanguageCode string
	Created      bool
}

// UserOutputPort receives user use case results.
type UserOutputPort interface {
	Present(out UserOutput)
}

// RoleOutput is the user-visible projection of a role.
type RoleOutput struct {
	RoleID       uuid.UUID
	Name         string
	InvariantKey string
	Description  string
	Created      bool
}

// RoleOutputPort receives role use case results.
type RoleOutputPort interface {
	Present(out RoleOutput)
}

// ReconcileReport summarizes a user consistency sweep.
type ReconcileReport struct {
	Checked   int
	Missing   []uuid.UUID
	Failed    []uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
}
