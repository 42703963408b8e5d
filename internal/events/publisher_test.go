package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanhq/case-lifecycle-service/internal/config"
	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

func TestNewKafkaPublisher(t *testing.T) {
	t.Run("configures writer from config", func(t *testing.T) {
		cfg := config.KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "notifications.case_lifecycle",
		}

		p := NewKafkaPublisher(cfg, nil, zerolog.Nop())
		require.NotNil(t, p)
		defer p.Close()

		assert.Equal(t, "notifications.case_lifecycle", p.writer.Topic)
		assert.Nil(t, p.limiter, "no limiter when rate limit is zero")
	})

	t.Run("enables rate limiter when configured", func(t *testing.T) {
		cfg := config.KafkaConfig{
			Brokers:          []string{"localhost:9092"},
			Topic:            "notifications.case_lifecycle",
			PublishRateLimit: 100,
			PublishBurst:     10,
		}

		p := NewKafkaPublisher(cfg, nil, zerolog.Nop())
		defer p.Close()

		require.NotNil(t, p.limiter)
		assert.Equal(t, 10, p.limiter.Burst())
	})

	t.Run("burst defaults to one when unset", func(t *testing.T) {
		cfg := config.KafkaConfig{
			Brokers:          []string{"localhost:9092"},
			Topic:            "notifications.case_lifecycle",
			PublishRateLimit: 5,
		}

		p := NewKafkaPublisher(cfg, nil, zerolog.Nop())
		defer p.Close()

		require.NotNil(t, p.limiter)
		assert.Equal(t, 1, p.limiter.Burst())
	})
}

func TestKafkaPublisher_PublishRespectsContext(t *testing.T) {
	// A cancelled context should fail the rate limiter wait before any
	// broker round trip is attempted.
	cfg := config.KafkaConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "notifications.case_lifecycle",
		PublishRateLimit: 0.001, // effectively blocks after the first token
		PublishBurst:     1,
	}
	p := NewKafkaPublisher(cfg, nil, zerolog.Nop())
	defer p.Close()

	// Drain the single available token.
	p.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	event, err := domain.NewEvent(domain.EventTypeStageEntered, "firm-1", domain.EntityTypeCase, uuid.New(), nil)
	require.NoError(t, err)

	err = p.Publish(ctx, event)
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	event, err := domain.NewEvent(domain.EventTypeWorkflowCompleted, "firm-1", domain.EntityTypeCase, uuid.New(), nil)
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), event))
	assert.NoError(t, p.Close())
}
