// Package publisher emits analysis completion events to Kafka for the
// narrative consumer.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"grantnet/internal/network/models"
)

// EventAnalysisCompleted is the event_type header of completion records.
const EventAnalysisCompleted = "analysis.completed"

// CompletionEvent is the record value published after a computed run.
type CompletionEvent struct {
	EventType  string                 `json:"event_type"`
	OccurredAt time.Time              `json:"occurred_at"`
	RunID      string                 `json:"run_id"`
	Result     *models.AnalysisResult `json:"result"`
}

// KafkaPublisher produces one record per analysis, keyed by cache key so
// repeated runs of the same request land on the same partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// NewKafka connects a producer to brokers for topic.
func NewKafka(brokers []string, topic string, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	p := &KafkaPublisher{client: client, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PublishAnalysis blocks until the broker acknowledges the record.
func (p *KafkaPublisher) PublishAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("analysis result is required")
	}
	event := CompletionEvent{
		EventType:  EventAnalysisCompleted,
		OccurredAt: time.Now().UTC(),
		RunID:      result.Metadata.RunID,
		Result:     result,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode completion event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(result.Metadata.CacheKey),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(EventAnalysisCompleted)},
			{Key: "run_id", Value: []byte(result.Metadata.RunID)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce completion event: %w", err)
	}
	p.logger.DebugContext(ctx, "completion event published",
		"run_id", result.Metadata.RunID,
		"topic", p.topic,
	)
	return nil
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
