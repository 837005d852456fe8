package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

var _ ports.UserGateway = (*UserRepository)(nil)

// UserRepository persists users with optimistic locking on record_version.
type UserRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Save inserts a new user under the id the identity provider issued.
func (r *UserRepository) Save(ctx context.Context, u domain.User) (*domain.User, error) {
	m := userFromDomain(u)
	if m.RecordVersion == 0 {
		m.RecordVersion = 1
	}

	m.WhenEdited = r.now().UTC()

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapWriteError(err, "user")
	}

	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "user", id.String())
	}

	return m.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, mapNotFoundBy(err, "user", "email", email)
	}

	return m.toDomain(), nil
}

// Update writes the mutable columns when u.RecordVersion still matches the
// stored row, advancing the version in the same statement.
func (r *UserRepository) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&UserModel{}).
		Where("id = ? AND record_version = ?", u.ID, u.RecordVersion).
		Updates(map[string]any{
			"language_id":    u.LanguageID,
			"email":          u.Email,
			"first_name":     u.FirstName,
			"last_name":      u.LastName,
			"record_version": gorm.Expr("record_version + 1"),
			"when_edited":    r.now().UTC(),
		})
	if res.Error != nil {
		return nil, mapWriteError(res.Error, "user")
	}

	if res.RowsAffected == 0 {
		return nil, versionMismatch(db, &UserModel{}, "user", u.ID)
	}

	return r.FindByID(ctx, u.ID)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&UserModel{}).Where("email = ?", email))
}

func (r *UserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id))
}

func (r *UserRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("user", id.String())
	}

	return nil
}

// List pages through users ordered by id.
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	var rows []UserModel
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		users = append(users, *m.toDomain())
	}

	return users, nil
}
