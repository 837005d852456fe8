package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

var (
	_ ports.CountryGateway     = (*CachedCountries)(nil)
	_ ports.LanguageGateway    = (*CachedLanguages)(nil)
	_ ports.ContextTypeGateway = (*CachedContextTypes)(nil)
)

// readThrough caches JSON-encoded lookups. Cache failures are logged and the
// lookup falls through to the gateway; misses in the gateway are not cached.
type readThrough struct {
	cache  ports.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func newReadThrough(c ports.Cache, ttl time.Duration, logger *slog.Logger) readThrough {
	if logger == nil {
		logger = slog.Default()
	}

	return readThrough{
		cache:  c,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache.directory")),
	}
}

func lookup[T any](ctx context.Context, rt readThrough, key string, load func(context.Context) (*T, error)) (*T, error) {
	data, err := rt.cache.Get(ctx, key)

	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(data, &v); jerr == nil {
			return &v, nil
		}

		rt.logger.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))

	case !errors.Is(err, domain.ErrNotFound):
		rt.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := rt.cache.Set(ctx, key, data, rt.ttl); err != nil {
			rt.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	return v, nil
}

// CachedCountries is a read-through cache in front of a CountryGateway.
type CachedCountries struct {
	next ports.CountryGateway
	rt   readThrough
}

// NewCachedCountries wraps next.
func NewCachedCountries(next ports.CountryGateway, c ports.Cache, ttl time.Duration, logger *slog.Logger) *CachedCountries {
	return &CachedCountries{next: next, rt: newReadThrough(c, ttl, logger)}
}

func (d *CachedCountries) FindByCode(ctx context.Context, code string) (*domain.Country, error) {
	return lookup(ctx, d.rt, "country:code:"+strings.ToUpper(code), func(ctx context.Context) (*domain.Country, error) {
		return d.next.FindByCode(ctx, code)
	})
}

func (d *CachedCountries) FindByID(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	return lookup(ctx, d.rt, "country:id:"+id.String(), func(ctx context.Context) (*domain.Country, error) {
		return d.next.FindByID(ctx, id)
	})
}

// CachedLanguages is a read-through cache in front of a LanguageGateway.
type CachedLanguages struct {
	next ports.LanguageGateway
	rt   readThrough
}

// NewCachedLanguages wraps next.
func NewCachedLanguages(next ports.LanguageGateway, c ports.Cache, ttl time.Duration, logger *slog.Logger) *CachedLanguages {
	return &CachedLanguages{next: next, rt: newReadThrough(c, ttl, logger)}
}

func (d *CachedLanguages) FindByCode(ctx context.Context, code string) (*domain.Language, error) {
	return lookup(ctx, d.rt, "language:code:"+strings.ToLower(code), func(ctx context.Context) (*domain.Language, error) {
		return d.next.FindByCode(ctx, code)
	})
}

func (d *CachedLanguages) FindByID(ctx context.Context, id uuid.UUID) (*domain.Language, error) {
	return lookup(ctx, d.rt, "language:id:"+id.String(), func(ctx context.Context) (*domain.Language, error) {
		return d.next.FindByID(ctx, id)
	})
}

// CachedContextTypes is a read-through cache in front of a ContextTypeGateway.
type CachedContextTypes struct {
	next ports.ContextTypeGateway
	rt   readThrough
}

// NewCachedContextTypes wraps next.
func NewCachedContextTypes(next ports.ContextTypeGateway, c ports.Cache, ttl time.Duration, logger *slog.Logger) *CachedContextTypes {
	return &CachedContextTypes{next: next, rt: newReadThrough(c, ttl, logger)}
}

func (d *CachedContextTypes) FindByName(ctx context.Context, name domain.ContextTypeName) (*domain.ContextType, error) {
	return lookup(ctx, d.rt, "context-type:name:"+string(name), func(ctx context.Context) (*domain.ContextType, error) {
		return d.next.FindByName(ctx, name)
	})
}
