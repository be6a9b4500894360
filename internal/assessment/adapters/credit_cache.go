package adapters

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"htb-gateway/internal/assessment/metrics"
	"htb-gateway/internal/assessment/ports"
	"htb-gateway/pkg/platform/audit"
)

// Redis key prefix for cached credit reports. Keys carry the keyed hash of
// the PPS number, never the raw identifier.
const creditKeyPrefix = "htb:credit:"

// CachedCredit decorates a CreditPort with a Redis read-through cache.
// Cache failures are logged and bypassed; only the wrapped port can fail an
// assessment.
type CachedCredit struct {
	next     ports.CreditPort
	client   redis.UniversalClient
	ttl      time.Duration
	subjects *audit.SubjectHasher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type CachedCreditOption func(*CachedCredit)

func WithCacheLogger(logger *slog.Logger) CachedCreditOption {
	return func(c *CachedCredit) {
		c.logger = logger
	}
}

func WithCacheMetrics(m *metrics.Metrics) CachedCreditOption {
	return func(c *CachedCredit) {
		c.metrics = m
	}
}

func NewCachedCredit(next ports.CreditPort, client redis.UniversalClient, ttl time.Duration, subjects *audit.SubjectHasher, opts ...CachedCreditOption) *CachedCredit {
	c := &CachedCredit{next: next, client: client, ttl: ttl, subjects: subjects, logger: slog.Default()}
	if c.subjects == nil {
		c.subjects = audit.NewEphemeralSubjectHasher()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cachedReport struct {
	Score     int       `msgpack:"s"`
	Pass      bool      `msgpack:"p"`
	Bureau    string    `msgpack:"b"`
	CheckedAt time.Time `msgpack:"t"`
}

func (c *CachedCredit) CheckCredit(ctx context.Context, personalID string) (*ports.CreditReport, error) {
	key := creditKeyPrefix + c.subjects.Hash(personalID)

	if report, ok := c.lookup(ctx, key, personalID); ok {
		return report, nil
	}

	report, err := c.next.CheckCredit(ctx, personalID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, report)
	return report, nil
}

func (c *CachedCredit) lookup(ctx context.Context, key, personalID string) (*ports.CreditReport, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.RecordCacheMiss()
		return nil, false
	}
	if err != nil {
		c.metrics.RecordCacheError()
		c.logger.WarnContext(ctx, "credit cache read failed", "error", err)
		return nil, false
	}

	var cached cachedReport
	if err := msgpack.Unmarshal(raw, &cached); err != nil {
		c.metrics.RecordCacheError()
		c.logger.WarnContext(ctx, "credit cache entry corrupt", "error", err)
		return nil, false
	}
	c.metrics.RecordCacheHit()
	return &ports.CreditReport{
		PersonalID: personalID,
		Score:      cached.Score,
		Pass:       cached.Pass,
		Bureau:     cached.Bureau,
		CheckedAt:  cached.CheckedAt,
	}, true
}

func (c *CachedCredit) store(ctx context.Context, key string, report *ports.CreditReport) {
	raw, err := msgpack.Marshal(cachedReport{
		Score:     report.Score,
		Pass:      report.Pass,
		Bureau:    report.Bureau,
		CheckedAt: report.CheckedAt,
	})
	if err != nil {
		c.metrics.RecordCacheError()
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.metrics.RecordCacheError()
		c.logger.WarnContext(ctx, "credit cache write failed", "error", err)
	}
}
