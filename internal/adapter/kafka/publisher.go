package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/nuclear-dashboard/internal/config"
	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces filtered views to the export topic, one message per
// record.
type Publisher struct {
	writer messageWriter
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured export topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaExportTopic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, clockwork.NewRealClock(), logger)
}

func newPublisher(w messageWriter, clock clockwork.Clock, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, clock: clock, logger: logger}
}

// Publish serializes the records and writes them in a single WriteMessages
// call. All messages share one exported_at timestamp. It returns the number
// of messages written.
func (p *Publisher) Publish(ctx context.Context, records []domain.Explosion) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	exportedAt := p.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], exportedAt)
		if err != nil {
			return 0, err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	p.logger.Info("view published", "records", len(msgs), "exported_at", exportedAt)
	return len(msgs), nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Explosion into a Kafka message keyed by the
// detonation name.
func serializeToMessage(rec domain.Explosion, exportedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize explosion %q: %w", rec.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(rec.Location)},
			{Key: "exported_at", Value: []byte(exportedAt.Format(time.RFC3339))},
		},
	}, nil
}
