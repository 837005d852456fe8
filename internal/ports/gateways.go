package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// ContextGateway reads organizational tree nodes.
type ContextGateway interface {
	// FindByID returns domain.ErrNotFound if the context does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Context, error)

	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// CountChildren returns how many contexts name id as their parent.
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)
}

// CustomerGateway persists contexts of the Customer type.
type CustomerGateway interface {
	// Save inserts or fully replaces the context row.
	Save(ctx context.Context, c domain.Context) (*domain.Customer, error)

	// FindByID returns domain.ErrNotFound if no customer has this id.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)

	// DeleteByID returns domain.ErrNotFound if no customer has this id.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// ContextTypeGateway reads the context type reference table.
type ContextTypeGateway interface {
	FindByName(ctx context.Context, name domain.ContextTypeName) (*domain.ContextType, error)
}

// CountryGateway reads the country reference table. Both lookups return
// domain.ErrNotFound when nothing matches.
type CountryGateway interface {
	FindByCode(ctx context.Context, code string) (*domain.Country, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Country, error)
}

// LanguageGateway reads the language reference table. Both lookups return
// domain.ErrNotFound when nothing matches.
type LanguageGateway interface {
	FindByCode(ctx context.Context, code string) (*domain.Language, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Language, error)
}

// UserGateway persists local user records.
//
// Update compares RecordVersion with the stored row and returns
// domain.ErrConflict when they differ; the stored version is advanced by the
// implementation, never by the caller.
type UserGateway interface {
	Save(ctx context.Context, u domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// List pages through users ordered by id.
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
}

// RoleGateway persists roles. Save assigns an id when the role has none.
type RoleGateway interface {
	Save(ctx context.Context, r domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	FindByInvariantKey(ctx context.Context, key string) (*domain.Role, error)
	Update(ctx context.Context, r domain.Role) (*domain.Role, error)
	ExistsByInvariantKey(ctx context.Context, key string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
