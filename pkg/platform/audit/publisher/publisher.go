// Package publisher emits audit events to an audit.Store.
//
// Compliance events are written synchronously and fail closed: the caller
// sees the store error. Operational events may be sampled, and in async mode
// they are queued to a bounded buffer drained by a background worker.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "htb-gateway/pkg/platform/audit"
	"htb-gateway/pkg/platform/audit/worker"
	"htb-gateway/pkg/platform/circuit"
)

var (
	ErrBufferFull  = errors.New("audit buffer full")
	ErrCircuitOpen = errors.New("audit store circuit open")
	ErrClosed      = errors.New("audit publisher closed")
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	sampler *Sampler
	breaker *circuit.Breaker
	metrics *Metrics
	now     func() time.Time

	bufferSize int
	inbox      chan audit.Event
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of n events.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = s
	}
}

// WithCircuitBreaker stops hammering an unhealthy store.
func WithCircuitBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		w := worker.NewWorker(p.persist, p.inbox, p.reportAsyncFailure)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. Missing ID, timestamp, and category are filled in.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if event.Category == audit.CategoryOperations && p.sampler != nil && !p.sampler.Keep(event.Action) {
		p.metrics.IncSampled()
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	// compliance events join the caller's transaction, so they never queue
	if p.inbox == nil || event.Category == audit.CategoryCompliance {
		return p.persist(ctx, event)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.metrics.IncBufferDropped()
		return ErrBufferFull
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.IncBreakerDropped()
		return ErrCircuitOpen
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		if p.breaker != nil {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.metrics.SetBreakerState(true)
				p.logWarn(ctx, "audit store circuit opened", "error", err)
			}
		}
		return err
	}

	if p.breaker != nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.metrics.SetBreakerState(false)
			p.logWarn(ctx, "audit store circuit closed")
		}
	}
	p.metrics.IncEmitted(string(event.Category))
	return nil
}

func (p *Publisher) reportAsyncFailure(event audit.Event, err error) {
	if p.logger != nil {
		p.logger.Error("async audit persist failed",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}

func (p *Publisher) logWarn(ctx context.Context, msg string, args ...any) {
	if p.logger != nil {
		p.logger.WarnContext(ctx, msg, args...)
	}
}

// List returns the events recorded for subject.
func (p *Publisher) List(ctx context.Context, subject string) ([]audit.Event, error) {
	return p.store.ListBySubject(ctx, subject)
}

// Close stops accepting events and, in async mode, drains the buffer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}
