package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

var _ ports.RoleGateway = (*RoleRepository)(nil)

// RoleRepository persists roles with optimistic locking on record_version.
// Name and invariant_key carry unique indexes; a collision surfaces as
// domain.ErrConflict.
type RoleRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRoleRepository creates a RoleRepository.
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db, now: time.Now}
}

// Save inserts the role, assigning an id when it has none.
func (r *RoleRepository) Save(ctx context.Context, role domain.Role) (*domain.Role, error) {
	m := roleFromDomain(role)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	if m.RecordVersion == 0 {
		m.RecordVersion = 1
	}

	m.WhenEdited = r.now().UTC()

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapWriteError(err, "role")
	}

	return m.toDomain(), nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	var m RoleModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "role", id.String())
	}

	return m.toDomain(), nil
}

func (r *RoleRepository) FindByInvariantKey(ctx context.Context, key string) (*domain.Role, error) {
	var m RoleModel
	if err := r.db.WithContext(ctx).Where("invariant_key = ?", key).First(&m).Error; err != nil {
		return nil, mapNotFoundBy(err, "role", "invariantKey", key)
	}

	return m.toDomain(), nil
}

// Update overwrites name, invariant key and description when
// role.RecordVersion still matches the stored row.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) (*domain.Role, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&RoleModel{}).
		Where("id = ? AND record_version = ?", role.ID, role.RecordVersion).
		Updates(map[string]any{
			"name":           role.Name,
			"invariant_key":  role.InvariantKey,
			"description":    role.Description,
			"record_version": gorm.Expr("record_version + 1"),
			"when_edited":    r.now().UTC(),
		})
	if res.Error != nil {
		return nil, mapWriteError(res.Error, "role")
	}

	if res.RowsAffected == 0 {
		return nil, versionMismatch(db, &RoleModel{}, "role", role.ID)
	}

	return r.FindByID(ctx, role.ID)
}

func (r *RoleRepository) ExistsByInvariantKey(ctx context.Context, key string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&RoleModel{}).Where("invariant_key = ?", key))
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&RoleModel{}).Where("name = ?", name))
}

func (r *RoleRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&RoleModel{}).Where("id = ?", id))
}

func (r *RoleRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&RoleModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("role", id.String())
	}

	return nil
}
