package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// RoleService implements role CRUD with name and invariant key uniqueness.
type RoleService struct {
	roles  ports.RoleGateway
	logger *slog.Logger
}

// NewRoleService creates the service. It panics without a gateway.
func NewRoleService(roles ports.RoleGateway, logger *slog.Logger) *RoleService {
	if roles == nil {
		panic("app: role service requires a role gateway")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RoleService{
		roles:  roles,
		logger: logger.With(slog.String("component", "app.RoleService")),
	}
}

// CreateRole rejects a duplicate invariant key or name, each with its own
// error, and stores the role at record version 1.
func (s *RoleService) CreateRole(ctx context.Context, in CreateRoleInput, out ports.RoleOutputPort) error {
	taken, err := s.roles.ExistsByInvariantKey(ctx, in.InvariantKey)
	if err != nil {
		return fmt.Errorf("checking invariant key: %w", err)
	}

	if taken {
		return domain.NewAlreadyExistsError("Role", "invariantKey", in.InvariantKey)
	}

	taken, err = s.roles.ExistsByName(ctx, in.Name)
	if err != nil {
		return fmt.Errorf("checking role name: %w", err)
	}

	if taken {
		return domain.NewAlreadyExistsError("Role", "name", in.Name)
	}

	saved, err := s.roles.Save(ctx, domain.Role{
		Name:          in.Name,
		InvariantKey:  in.InvariantKey,
		Description:   in.Description,
		RecordVersion: 1,
	})
	if err != nil {
		return fmt.Errorf("saving role: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "role created",
		slog.String("role_id", saved.ID.String()),
		slog.String("invariant_key", saved.InvariantKey),
	)

	out.Present(toRoleOutput(*saved, true))

	return nil
}

// UpdateRole overwrites every field of the role. Name and invariant key are
// not re-checked for uniqueness here; a collision surfaces only if the store
// rejects it.
func (s *RoleService) UpdateRole(ctx context.Context, in UpdateRoleInput, out ports.RoleOutputPort) error {
	if in.RoleID == uuid.Nil {
		return domain.NewRequiredFieldError("roleId")
	}

	existing, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return fmt.Errorf("finding role: %w", err)
	}

	updated, err := s.roles.Update(ctx, domain.Role{
		ID:            in.RoleID,
		Name:          in.Name,
		InvariantKey:  in.InvariantKey,
		Description:   in.Description,
		RecordVersion: existing.RecordVersion,
	})
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}

	out.Present(toRoleOutput(*updated, false))

	return nil
}

// GetRole presents a stored role.
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID, out ports.RoleOutputPort) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding role: %w", err)
	}

	out.Present(toRoleOutput(*role, false))

	return nil
}

// DeleteRole removes a stored role.
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return fmt.Errorf("finding role: %w", err)
	}

	if err := s.roles.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("deleting role: %w", err)
	}

	return nil
}

func toRoleOutput(r domain.Role, created bool) ports.RoleOutput {
	return ports.RoleOutput{
		RoleID:       r.ID,
		Name:         r.Name,
		InvariantKey: r.InvariantKey,
		Description:  r.Description,
		Created:      created,
	}
}
