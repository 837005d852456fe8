package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
)

type seeded struct {
	customerType domain.ContextType
	companyType  domain.ContextType
	norway       domain.Country
	sweden       domain.Country
	english      domain.Language
	norwegian    domain.Language
}

// newTestDB opens a migrated in-memory sqlite database. A single connection
// keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(context.Background(), sqlite.Open(":memory:"), config.DatabaseConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		AutoMigrate:  true,
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}

func seedReference(t *testing.T, db *gorm.DB) seeded {
	t.Helper()

	s := seeded{
		customerType: domain.ContextType{ID: uuid.New(), Name: domain.ContextTypeCustomer},
		companyType:  domain.ContextType{ID: uuid.New(), Name: domain.ContextTypeCompany},
		norway:       domain.Country{ID: uuid.New(), Code: "NO", Name: "Norway"},
		sweden:       domain.Country{ID: uuid.New(), Code: "SE", Name: "Sweden"},
		english:      domain.Language{ID: uuid.New(), Code: "en", Name: "English"},
		norwegian:    domain.Language{ID: uuid.New(), Code: "no", Name: "Norwegian"},
	}

	require.NoError(t, db.Create([]ContextTypeModel{
		{ID: s.customerType.ID, Name: string(s.customerType.Name)},
		{ID: s.companyType.ID, Name: string(s.companyType.Name)},
	}).Error)
	require.NoError(t, db.Create([]CountryModel{
		{ID: s.norway.ID, Code: s.norway.Code, Name: s.norway.Name},
		{ID: s.sweden.ID, Code: s.sweden.Code, Name: s.sweden.Name},
	}).Error)
	require.NoError(t, db.Create([]LanguageModel{
		{ID: s.english.ID, Code: s.english.Code, Name: s.english.Name},
		{ID: s.norwegian.ID, Code: s.norwegian.Code, Name: s.norwegian.Name},
	}).Error)

	return s
}
