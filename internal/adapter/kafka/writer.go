package kafka

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/couchcryptid/flood-elevation-service/internal/config"
	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces evaluation results to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. Results are
// hashed by key so every result for a request lands on the same partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes evaluation results in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, results []domain.EvaluationResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("published results", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(result domain.EvaluationResult) (kafkago.Message, error) {
	out, err := domain.SerializeResult(result)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:     out.Key,
		Value:   out.Value,
		Headers: toKafkaHeaders(out.Headers),
	}, nil
}

// toKafkaHeaders converts a header map into kafka-go headers, sorted by key so
// messages are reproducible.
func toKafkaHeaders(headers map[string]string) []kafkago.Header {
	keys := slices.Sorted(maps.Keys(headers))
	out := make([]kafkago.Header, len(keys))
	for i, k := range keys {
		out[i] = kafkago.Header{Key: k, Value: []byte(headers[k])}
	}
	return out
}
