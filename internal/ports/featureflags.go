package ports

import (
	"context"
)

// Feature flag names evaluated by the use cases.
const (
	// FlagForbidOrphanDelete makes DeleteCustomer refuse to remove a context
	// that other contexts still reference as parent.
	FlagForbidOrphanDelete = "customers.forbid-orphan-delete"

	// FlagPublishEvents enables change events after successful writes.
	FlagPublishEvents = "events.publish"
)

// FeatureFlags defines the contract for feature flag evaluation.
//
// Example usage:
//
//	if flags.IsEnabled(ctx, ports.FlagForbidOrphanDelete, false) {
//	    // refuse to orphan children
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag is unknown.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}

// StaticFlags is a FeatureFlags backed by a fixed map, typically loaded from
// the features section of the configuration.
type StaticFlags map[string]bool

// IsEnabled implements FeatureFlags.
func (f StaticFlags) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	if v, ok := f[flag]; ok {
		return v
	}

	return defaultValue
}
