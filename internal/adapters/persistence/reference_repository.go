package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

var (
	_ ports.CountryGateway     = (*CountryRepository)(nil)
	_ ports.LanguageGateway    = (*LanguageRepository)(nil)
	_ ports.ContextTypeGateway = (*ContextTypeRepository)(nil)
)

// CountryRepository reads the countries table. Codes match case-insensitively.
type CountryRepository struct {
	db *gorm.DB
}

// NewCountryRepository creates a CountryRepository.
func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) FindByCode(ctx context.Context, code string) (*domain.Country, error) {
	var m CountryModel
	if err := r.db.WithContext(ctx).Where("LOWER(code) = LOWER(?)", code).First(&m).Error; err != nil {
		return nil, mapNotFoundBy(err, "country", "code", code)
	}

	return m.toDomain(), nil
}

func (r *CountryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	var m CountryModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "country", id.String())
	}

	return m.toDomain(), nil
}

// LanguageRepository reads the languages table. Codes match case-insensitively.
type LanguageRepository struct {
	db *gorm.DB
}

// NewLanguageRepository creates a LanguageRepository.
func NewLanguageRepository(db *gorm.DB) *LanguageRepository {
	return &LanguageRepository{db: db}
}

func (r *LanguageRepository) FindByCode(ctx context.Context, code string) (*domain.Language, error) {
	var m LanguageModel
	if err := r.db.WithContext(ctx).Where("LOWER(code) = LOWER(?)", code).First(&m).Error; err != nil {
		return nil, mapNotFoundBy(err, "language", "code", code)
	}

	return m.toDomain(), nil
}

func (r *LanguageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Language, error) {
	var m LanguageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "language", id.String())
	}

	return m.toDomain(), nil
}

// ContextTypeRepository reads the context_types table.
type ContextTypeRepository struct {
	db *gorm.DB
}

// NewContextTypeRepository creates a ContextTypeRepository.
func NewContextTypeRepository(db *gorm.DB) *ContextTypeRepository {
	return &ContextTypeRepository{db: db}
}

func (r *ContextTypeRepository) FindByName(ctx context.Context, name domain.ContextTypeName) (*domain.ContextType, error) {
	var m ContextTypeModel
	if err := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&m).Error; err != nil {
		return nil, mapNotFoundBy(err, "context type", "name", string(name))
	}

	return m.toDomain(), nil
}
