package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

func TestCountryRepository(t *testing.T) {
	db := newTestDB(t)
	s := seedReference(t, db)
	repo := NewCountryRepository(db)
	ctx := context.Background()

	got, err := repo.FindByCode(ctx, "se")
	require.NoError(t, err)
	assert.Equal(t, s.sweden, *got)

	got, err = repo.FindByID(ctx, s.norway.ID)
	require.NoError(t, err)
	assert.Equal(t, "NO", got.Code)

	_, err = repo.FindByCode(ctx, "DK")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "code")

	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLanguageRepository(t *testing.T) {
	db := newTestDB(t)
	s := seedReference(t, db)
	repo := NewLanguageRepository(db)
	ctx := context.Background()

	got, err := repo.FindByCode(ctx, "NO")
	require.NoError(t, err)
	assert.Equal(t, s.norwegian, *got)

	got, err = repo.FindByID(ctx, s.english.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", got.Code)

	_, err = repo.FindByCode(ctx, "xx")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContextTypeRepository(t *testing.T) {
	db := newTestDB(t)
	s := seedReference(t, db)
	repo := NewContextTypeRepository(db)

	got, err := repo.FindByName(context.Background(), domain.ContextTypeCustomer)
	require.NoError(t, err)
	assert.Equal(t, s.customerType.ID, got.ID)

	_, err = repo.FindByName(context.Background(), domain.ContextTypeCompanyGroup)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
