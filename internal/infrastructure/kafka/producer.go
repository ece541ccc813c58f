package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes order lifecycle events. Publishing is best-effort:
// failures are logged and never fail the request that produced the event.
type Producer struct {
	w      *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}
}

func (p *Producer) Publish(ctx context.Context, topic string, key string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshaling event", zap.String("topic", topic), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("publishing event failed",
			zap.String("topic", topic), zap.String("key", key), zap.Error(err))
	}
}

func (p *Producer) Close() error {
	return p.w.Close()
}

// NopPublisher satisfies the publisher seam when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) {}
