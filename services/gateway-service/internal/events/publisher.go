package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/md-rashed-zaman/courtbook/libs/kafkax"
)

const (
	TypeReservationSubmitted = "court.reservation.submitted.v1"
	TypeReservationRejected  = "court.reservation.rejected.v1"
)

// Event is one gateway fact about a reservation attempt. Key is used for partitioning.
type Event struct {
	Type       string
	Key        string
	Payload    any
	OccurredAt time.Time
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	logger  *slog.Logger
	timeout time.Duration
}

type KafkaConfig struct {
	Brokers string
	Timeout time.Duration
}

func NewKafkaPublisher(logger *slog.Logger, cfg KafkaConfig) (*KafkaPublisher, error) {
	brokers := kafkax.SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.Timeout,
	}
	return &KafkaPublisher{writer: writer, logger: logger, timeout: cfg.Timeout}, nil
}

// Publish writes evt to the topic named after its type. The message carries event_id,
// event_type and W3C trace headers.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	meta := kafkax.EventMeta{EventID: uuid.NewString(), EventType: evt.Type}

	value, err := json.Marshal(envelope{
		EventID:    meta.EventID,
		EventType:  meta.EventType,
		OccurredAt: evt.OccurredAt.UTC().Format(time.RFC3339),
		Data:       evt.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.Type, err)
	}

	key := evt.Key
	if key == "" {
		key = meta.EventID
	}
	msg := kafka.Message{
		Topic:   evt.Type,
		Key:     []byte(key),
		Value:   value,
		Headers: kafkax.InjectTraceHeaders(ctx, meta.Headers()),
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	p.logger.Debug("event published", "event_type", evt.Type, "event_id", meta.EventID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type envelope struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	OccurredAt string `json:"occurred_at"`
	Data       any    `json:"data"`
}
