// Package relay moves audit events from the Postgres outbox to the event
// stream. Delivery is at-least-once: a row is marked published only after the
// producer acknowledged it.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "htb-gateway/pkg/platform/audit"
)

// Source is the outbox side of the relay.
type Source interface {
	FetchUnpublished(ctx context.Context, limit int) ([]audit.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Message is one record handed to the producer.
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Producer delivers messages synchronously.
type Producer interface {
	Publish(ctx context.Context, msgs ...Message) error
}

type Relay struct {
	source    Source
	producer  Producer
	topics    map[audit.EventCategory]string
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// New builds a relay routing each event category to its topic. Categories
// without a topic go to the operations topic.
func New(source Source, producer Producer, topics map[audit.EventCategory]string, opts ...Option) *Relay {
	r := &Relay{
		source:    source,
		producer:  producer,
		topics:    topics,
		batchSize: 100,
		interval:  time.Second,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays batches until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many rows were relayed.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	entries, err := r.source.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	msgs := make([]Message, len(entries))
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		msgs[i] = Message{
			Topic: r.topicFor(e.EventType),
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
		}
		ids[i] = e.ID
	}

	if err := r.producer.Publish(ctx, msgs...); err != nil {
		return 0, err
	}
	if err := r.source.MarkPublished(ctx, ids, r.now()); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (r *Relay) topicFor(eventType string) string {
	category := audit.AuditEvent(eventType).Category()
	if topic, ok := r.topics[category]; ok {
		return topic
	}
	return r.topics[audit.CategoryOperations]
}
