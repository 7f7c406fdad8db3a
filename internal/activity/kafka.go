package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaRecorder
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer that keys messages by actor so one
// actor's events stay ordered within a partition.
func NewKafkaWriter(brokers []string, topic string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}
}

// KafkaRecorder publishes events as JSON messages
type KafkaRecorder struct {
	writer MessageWriter
}

// NewKafkaRecorder creates a KafkaRecorder over writer
func NewKafkaRecorder(writer MessageWriter) *KafkaRecorder {
	return &KafkaRecorder{writer: writer}
}

// Record publishes e keyed by its actor id
func (k *KafkaRecorder) Record(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ActorID),
		Value: data,
		Time:  e.At,
	})
}

// Close closes the underlying writer
func (k *KafkaRecorder) Close() error {
	return k.writer.Close()
}
