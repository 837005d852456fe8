package context

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

type ctxKey struct{}

// RequestContext memoizes lookups for the lifetime of one request.
// Concurrent fetches of the same key share a single call.
type RequestContext struct {
	cache sync.Map
	group singleflight.Group
}

// New creates an empty RequestContext.
func New() *RequestContext {
	return &RequestContext{}
}

// FromContext extracts RequestContext, returns nil if not present.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}

	if rc, ok := ctx.Value(ctxKey{}).(*RequestContext); ok {
		return rc
	}

	return nil
}

// WithContext stores RequestContext in the context.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// GetOrFetch returns the value cached under key or calls fetchFn with ctx and
// caches its result. Failed fetches are not cached.
func (rc *RequestContext) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	if cached, ok := rc.cache.Load(key); ok {
		return cached, nil
	}

	value, err, _ := rc.group.Do(key, func() (any, error) {
		if cached, ok := rc.cache.Load(key); ok {
			return cached, nil
		}

		v, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}

		rc.cache.Store(key, v)

		return v, nil
	})

	return value, err
}

// Len reports how many keys are cached.
func (rc *RequestContext) Len() int {
	n := 0

	rc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Fetch is the typed form of GetOrFetch. It memoizes through the
// RequestContext carried by ctx, or calls fn directly when there is none.
func Fetch[T any](ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	rc := FromContext(ctx)
	if rc == nil {
		return fn(ctx)
	}

	v, err := rc.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("request cache: key %q holds %T", key, v)
	}

	return typed, nil
}
