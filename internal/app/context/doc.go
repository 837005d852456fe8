// Package context provides request-scoped memoization for the application
// services.
//
// A RequestContext lives for one HTTP request. Reference data that several
// steps of the same request need, such as the country a customer context
// points at, is fetched once and reused:
//
//	rc := context.FromContext(ctx)
//	country, err := context.Fetch(ctx, "country:id:"+id.String(), func(ctx context.Context) (*domain.Country, error) {
//	    return countries.FindByID(ctx, id)
//	})
//
// Without a RequestContext in ctx, Fetch calls the function directly. Errors
// are never cached.
package context
