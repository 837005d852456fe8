package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

var (
	_ ports.ContextGateway  = (*ContextRepository)(nil)
	_ ports.CustomerGateway = (*CustomerRepository)(nil)
)

// ContextRepository reads contexts of any type.
type ContextRepository struct {
	db *gorm.DB
}

// NewContextRepository creates a ContextRepository.
func NewContextRepository(db *gorm.DB) *ContextRepository {
	return &ContextRepository{db: db}
}

func (r *ContextRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Context, error) {
	var m ContextModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "context", id.String())
	}

	return m.toDomain(), nil
}

func (r *ContextRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&ContextModel{}).Where("id = ?", id))
}

func (r *ContextRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ContextModel{}).Where("parent_context_id = ?", id).Count(&n).Error

	return n, err
}

// CustomerRepository stores customers as contexts of the Customer type.
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a CustomerRepository.
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Save inserts the context or replaces every column of an existing row.
func (r *CustomerRepository) Save(ctx context.Context, c domain.Context) (*domain.Customer, error) {
	m := contextFromDomain(c)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, mapWriteError(err, "customer")
	}

	return domain.NewCustomer(*m.toDomain()), nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	db := r.db.WithContext(ctx)

	var m ContextModel
	if err := db.Where("id = ? AND context_type_id = (?)", id, customerTypeID(db)).First(&m).Error; err != nil {
		return nil, mapNotFound(err, "customer", id.String())
	}

	return domain.NewCustomer(*m.toDomain()), nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	res := db.Where("id = ? AND context_type_id = (?)", id, customerTypeID(db)).Delete(&ContextModel{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("customer", id.String())
	}

	return nil
}

// customerTypeID is a subquery selecting the id of the Customer context type.
func customerTypeID(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&ContextTypeModel{}).
		Select("id").
		Where("name = ?", string(domain.ContextTypeCustomer))
}

func exists(query *gorm.DB) (bool, error) {
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}
