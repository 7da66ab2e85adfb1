// Package kafka publishes lookup events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-view-service/internal/config"
	"github.com/couchcryptid/weather-view-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces lookup events to a Kafka topic.
// It implements events.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured lookup topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaLookupTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes events in a single WriteMessages call. Events are keyed
// by ID so a partition sees each lookup at most once.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.LookupEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d lookup events to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Debug("lookup events written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LookupEvent into a Kafka message.
func serializeToMessage(event domain.LookupEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(event.Outcome)},
			{Key: "completed_at", Value: []byte(event.CompletedAt.Format(time.RFC3339))},
		},
	}, nil
}
