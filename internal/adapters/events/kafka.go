// Package events publishes domain change events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/platform/telemetry"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

const (
	headerEventType     = "event-type"
	headerRequestID     = "request-id"
	headerCorrelationID = "correlation-id"

	defaultWriteTimeout = 5 * time.Second
	dialTimeout         = 3 * time.Second
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher implements ports.EventPublisher. Each event goes to the
// topic configured for its type, or the default topic, keyed by aggregate id
// so every change to one aggregate lands on the same partition.
type KafkaPublisher struct {
	writer       messageWriter
	brokers      []string
	defaultTopic string
	topics       map[string]string
	timeout      time.Duration
	logger       *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Brokers with
// all-replica acknowledgement.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
		BatchTimeout:           10 * time.Millisecond,
	}

	return newKafkaPublisher(w, cfg, logger)
}

func newKafkaPublisher(w messageWriter, cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	return &KafkaPublisher{
		writer:       w,
		brokers:      cfg.Brokers,
		defaultTopic: cfg.DefaultTopic,
		topics:       cfg.Topics,
		timeout:      timeout,
		logger:       logger.With(slog.String("component", "events.KafkaPublisher")),
	}
}

// Publish writes one event and waits for the broker acknowledgement.
// Failures wrap domain.ErrUnavailable.
func (p *KafkaPublisher) Publish(ctx context.Context, event ports.Event) error {
	if event == nil {
		return errors.New("publishing nil event")
	}

	value, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.EventType(), err)
	}

	msg := kafka.Message{
		Topic:   p.TopicFor(event.EventType()),
		Key:     []byte(event.Key()),
		Value:   value,
		Time:    time.Now().UTC(),
		Headers: headers(ctx, event.EventType()),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		telemetry.EventsPublished.WithLabelValues(event.EventType(), "error").Inc()

		return fmt.Errorf("%w: publishing %s to %s: %w", domain.ErrUnavailable, event.EventType(), msg.Topic, err)
	}

	telemetry.EventsPublished.WithLabelValues(event.EventType(), "ok").Inc()

	logging.FromContextOr(ctx, p.logger).Log(ctx, logging.LevelTrace, "event published",
		slog.String("event_type", event.EventType()),
		slog.String("topic", msg.Topic),
		slog.String("key", event.Key()),
	)

	return nil
}

// TopicFor resolves the topic of an event type. Overrides are keyed with
// underscores in place of dots.
func (p *KafkaPublisher) TopicFor(eventType string) string {
	if topic, ok := p.topics[strings.ReplaceAll(eventType, ".", "_")]; ok && topic != "" {
		return topic
	}

	return p.defaultTopic
}

// Close flushes pending writes and releases the connections.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Name implements ports.HealthChecker.
func (p *KafkaPublisher) Name() string {
	return "kafka"
}

// Check dials the first reachable broker.
func (p *KafkaPublisher) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	var errs []error

	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			return conn.Close()
		}

		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return errors.New("no kafka brokers configured")
	}

	return errors.Join(errs...)
}

// Optional marks event publishing as non-critical: writes still succeed
// while the broker is down.
func (p *KafkaPublisher) Optional() bool {
	return true
}

func headers(ctx context.Context, eventType string) []kafka.Header {
	h := []kafka.Header{{Key: headerEventType, Value: []byte(eventType)}}

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		h = append(h, kafka.Header{Key: headerRequestID, Value: []byte(id)})
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		h = append(h, kafka.Header{Key: headerCorrelationID, Value: []byte(id)})
	}

	return h
}
