// Package events publishes case lifecycle notification events to Kafka.
// A downstream notification service consumes the topic and fans events
// out to email, SMS, and in-app channels.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"golang.org/x/time/rate"

	"github.com/mizanhq/case-lifecycle-service/internal/config"
	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/observability"
)

// Publisher publishes lifecycle events.
type Publisher interface {
	// Publish sends a single event. Blocks until the broker acknowledges
	// the write or the context is cancelled.
	Publish(ctx context.Context, event *domain.Event) error

	// Close flushes pending messages and releases resources.
	Close() error
}

// KafkaPublisher publishes events to a Kafka topic using kafka-go.
// Messages are keyed by entity ID so all events for one case land on
// the same partition and preserve order.
type KafkaPublisher struct {
	writer  *kafka.Writer
	limiter *rate.Limiter
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewKafkaPublisher creates a publisher from Kafka configuration.
func NewKafkaPublisher(cfg config.KafkaConfig, metrics *observability.Metrics, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}

	var limiter *rate.Limiter
	if cfg.PublishRateLimit > 0 {
		burst := cfg.PublishBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.PublishRateLimit), burst)
	}

	return &KafkaPublisher{
		writer:  writer,
		limiter: limiter,
		metrics: metrics,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish sends a single event to the configured topic.
func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.Event) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EntityID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "firm_id", Value: []byte(event.FirmID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if p.metrics != nil {
			p.metrics.RecordEventFailed(event.EventType)
		}
		p.logger.Error().Err(err).
			Str("event_type", event.EventType).
			Str("entity_id", event.EntityID).
			Msg("failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if p.metrics != nil {
		p.metrics.RecordEventPublished(event.EventType)
	}
	p.logger.Debug().
		Str("event_type", event.EventType).
		Str("event_id", event.EventID).
		Str("entity_id", event.EntityID).
		Msg("event published")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards all events. Used when Kafka is disabled.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(ctx context.Context, event *domain.Event) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }

// Compile-time interface checks.
var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NopPublisher{}
)
