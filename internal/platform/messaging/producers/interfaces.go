package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the subset of kafka.Writer used by the producers, extracted
// so tests can substitute a mock.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessagePublisher publishes events to the primary event topic.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher routes undeliverable messages to the dead-letter topic
// together with the reason they could not be processed.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}
