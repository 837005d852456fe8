package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	appctx "github.com/jsamuelsen/customer-service/internal/app/context"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// ScopedCountries memoizes country lookups per request, so validation and
// presentation of the same customer resolve the country once.
func ScopedCountries(next ports.CountryGateway) ports.CountryGateway {
	return scopedCountries{next: next}
}

type scopedCountries struct {
	next ports.CountryGateway
}

// FindByCode also seeds the id key, which is what the presenter looks up.
func (s scopedCountries) FindByCode(ctx context.Context, code string) (*domain.Country, error) {
	country, err := appctx.Fetch(ctx, "country:code:"+strings.ToUpper(code), func(ctx context.Context) (*domain.Country, error) {
		return s.next.FindByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}

	return appctx.Fetch(ctx, "country:id:"+country.ID.String(), func(context.Context) (*domain.Country, error) {
		return country, nil
	})
}

func (s scopedCountries) FindByID(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	return appctx.Fetch(ctx, "country:id:"+id.String(), func(ctx context.Context) (*domain.Country, error) {
		return s.next.FindByID(ctx, id)
	})
}

// ScopedLanguages memoizes language lookups per request.
func ScopedLanguages(next ports.LanguageGateway) ports.LanguageGateway {
	return scopedLanguages{next: next}
}

type scopedLanguages struct {
	next ports.LanguageGateway
}

func (s scopedLanguages) FindByCode(ctx context.Context, code string) (*domain.Language, error) {
	return appctx.Fetch(ctx, "language:code:"+strings.ToLower(code), func(ctx context.Context) (*domain.Language, error) {
		return s.next.FindByCode(ctx, code)
	})
}

func (s scopedLanguages) FindByID(ctx context.Context, id uuid.UUID) (*domain.Language, error) {
	return appctx.Fetch(ctx, "language:id:"+id.String(), func(ctx context.Context) (*domain.Language, error) {
		return s.next.FindByID(ctx, id)
	})
}
