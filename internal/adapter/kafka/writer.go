package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-averages/internal/config"
	"github.com/couchcryptid/covid-averages/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces report messages to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadReport publishes one message per comparison in a single WriteMessages call.
func (w *Writer) LoadReport(ctx context.Context, report domain.Report) error {
	if len(report.Comparisons) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(report.Comparisons))
	for i := range report.Comparisons {
		msg, err := serializeToMessage(report.Comparisons[i], report.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	w.logger.Info("report published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// comparisonMessage is the JSON wire form of a domain.Comparison.
type comparisonMessage struct {
	Region          string       `json:"region"`
	Average         float64      `json:"average"`
	PreviousAverage float64      `json:"previous_average"`
	Trend           domain.Trend `json:"trend"`
	PercentChange   *float64     `json:"percent_change,omitempty"`
	Days            int          `json:"days"`
}

// serializeToMessage marshals a comparison into a Kafka message keyed by region.
func serializeToMessage(c domain.Comparison, generatedAt time.Time) (kafkago.Message, error) {
	body := comparisonMessage{
		Region:          c.Region,
		Average:         c.Average,
		PreviousAverage: c.PreviousAverage,
		Trend:           c.Trend,
		Days:            c.Days,
	}
	if c.Trend != domain.TrendUnchanged && c.Change.OK() {
		pct := c.Change.Percent
		body.PercentChange = &pct
	}

	data, err := json.Marshal(body)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize comparison: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(c.Region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "trend", Value: []byte(c.Trend.String())},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
