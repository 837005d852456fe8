package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// IdentityProviderUserGateway is the remote system of record for user
// identity. Error statuses surface as *domain.ExternalServiceError carrying
// the operation name.
type IdentityProviderUserGateway interface {
	// CreateUser registers the identity and returns the id the provider
	// issued. The ID field of u is ignored.
	CreateUser(ctx context.Context, u domain.User, languageCode string) (uuid.UUID, error)

	// UpdateUser rewrites the mutable profile fields of u.ID.
	UpdateUser(ctx context.Context, u domain.User, languageCode string) error

	// FindUserByID returns the remote identity mapped onto a domain user.
	FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindUserByEmail returns nil and no error when no identity has the email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
