package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// eventSink publishes change events after a write has already succeeded.
// Publishing never fails the use case; errors are logged.
type eventSink struct {
	publisher ports.EventPublisher
	flags     ports.FeatureFlags
	logger    *slog.Logger
}

func newEventSink(p ports.EventPublisher, flags ports.FeatureFlags, logger *slog.Logger) *eventSink {
	if p == nil {
		p = ports.NopPublisher{}
	}

	return &eventSink{publisher: p, flags: flags, logger: logger}
}

func (e *eventSink) publish(ctx context.Context, event ports.Event) {
	if !e.flags.IsEnabled(ctx, ports.FlagPublishEvents, true) {
		return
	}

	if err := e.publisher.Publish(ctx, event); err != nil {
		logging.FromContextOr(ctx, e.logger).WarnContext(ctx, "publishing event failed",
			slog.String("event_type", event.EventType()),
			slog.String("key", event.Key()),
			slog.Any("error", err),
		)
	}
}

// report publishes regardless of the publish flag; used for consistency
// anomalies that must reach reconciliation.
func (e *eventSink) report(ctx context.Context, event ports.Event) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		logging.FromContextOr(ctx, e.logger).ErrorContext(ctx, "reporting anomaly failed",
			slog.String("event_type", event.EventType()),
			slog.String("key", event.Key()),
			slog.Any("error", err),
		)
	}
}
