package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// ContextTypeModel is a row of context_types.
type ContextTypeModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:50;not null;uniqueIndex"`
}

func (ContextTypeModel) TableName() string { return "context_types" }

func (m ContextTypeModel) toDomain() *domain.ContextType {
	return &domain.ContextType{ID: m.ID, Name: domain.ContextTypeName(m.Name)}
}

// CountryModel is a row of countries.
type CountryModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code string    `gorm:"size:2;not null;uniqueIndex"`
	Name string    `gorm:"size:100;not null"`
}

func (CountryModel) TableName() string { return "countries" }

func (m CountryModel) toDomain() *domain.Country {
	return &domain.Country{ID: m.ID, Code: m.Code, Name: m.Name}
}

// LanguageModel is a row of languages.
type LanguageModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code string    `gorm:"size:2;not null;uniqueIndex"`
	Name string    `gorm:"size:100;not null"`
}

func (LanguageModel) TableName() string { return "languages" }

func (m LanguageModel) toDomain() *domain.Language {
	return &domain.Language{ID: m.ID, Code: m.Code, Name: m.Name}
}

// ContextModel is a row of contexts. ParentContextID has no foreign key:
// deleting a parent leaves its children in place.
type ContextModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ContextTypeID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentContextID    *uuid.UUID `gorm:"type:uuid;index"`
	CountryID          uuid.UUID  `gorm:"type:uuid;not null"`
	Name               string     `gorm:"size:255;not null"`
	OrganizationNumber string     `gorm:"size:50;not null"`
}

func (ContextModel) TableName() string { return "contexts" }

func contextFromDomain(c domain.Context) ContextModel {
	return ContextModel{
		ID:                 c.ID,
		ContextTypeID:      c.ContextTypeID,
		ParentContextID:    c.ParentContextID,
		CountryID:          c.CountryID,
		Name:               c.Name,
		OrganizationNumber: c.OrganizationNumber,
	}
}

func (m ContextModel) toDomain() *domain.Context {
	return &domain.Context{
		ID:                 m.ID,
		ContextTypeID:      m.ContextTypeID,
		ParentContextID:    m.ParentContextID,
		CountryID:          m.CountryID,
		Name:               m.Name,
		OrganizationNumber: m.OrganizationNumber,
	}
}

// UserModel is a row of users. The id is issued by the identity provider.
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	LanguageID    uuid.UUID `gorm:"type:uuid;not null"`
	Email         string    `gorm:"size:255;not null;uniqueIndex"`
	FirstName     string    `gorm:"size:50;not null"`
	LastName      string    `gorm:"size:50;not null"`
	RecordVersion int64     `gorm:"not null;default:1"`
	WhenEdited    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

func userFromDomain(u domain.User) UserModel {
	return UserModel{
		ID:            u.ID,
		LanguageID:    u.LanguageID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		RecordVersion: u.RecordVersion,
		WhenEdited:    u.WhenEdited,
	}
}

func (m UserModel) toDomain() *domain.User {
	return &domain.User{
		ID:            m.ID,
		LanguageID:    m.LanguageID,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		RecordVersion: m.RecordVersion,
		WhenEdited:    m.WhenEdited,
	}
}

// RoleModel is a row of roles.
type RoleModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:255;not null;uniqueIndex"`
	InvariantKey  string    `gorm:"size:50;not null;uniqueIndex"`
	Description   string    `gorm:"size:1000"`
	RecordVersion int64     `gorm:"not null;default:1"`
	WhenEdited    time.Time `gorm:"not null"`
}

func (RoleModel) TableName() string { return "roles" }

func roleFromDomain(r domain.Role) RoleModel {
	return RoleModel{
		ID:            r.ID,
		Name:          r.Name,
		InvariantKey:  r.InvariantKey,
		Description:   r.Description,
		RecordVersion: r.RecordVersion,
		WhenEdited:    r.WhenEdited,
	}
}

func (m RoleModel) toDomain() *domain.Role {
	return &domain.Role{
		ID:            m.ID,
		Name:          m.Name,
		InvariantKey:  m.InvariantKey,
		Description:   m.Description,
		RecordVersion: m.RecordVersion,
		WhenEdited:    m.WhenEdited,
	}
}

// allModels lists every table in dependency order for AutoMigrate.
func allModels() []any {
	return []any{
		&ContextTypeModel{},
		&CountryModel{},
		&LanguageModel{},
		&ContextModel{},
		&UserModel{},
		&RoleModel{},
	}
}
