package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Expirer moves assessments past their validity to EXPIRED.
type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Purger deletes outbox rows already relayed before a cutoff.
type Purger interface {
	PurgePublished(ctx context.Context, before time.Time) (int64, error)
}

// ExpiryJob runs the assessment validity sweep.
type ExpiryJob struct {
	expirer Expirer
	logger  *slog.Logger
}

func NewExpiryJob(expirer Expirer, logger *slog.Logger) *ExpiryJob {
	return &ExpiryJob{expirer: expirer, logger: logger}
}

func (j *ExpiryJob) Name() string { return "assessment_expiry" }

func (j *ExpiryJob) Run(ctx context.Context) error {
	n, err := j.expirer.ExpireStale(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "expired stale assessments", "count", n)
	}
	return nil
}

// OutboxPurgeJob removes relayed outbox rows older than the retention window.
type OutboxPurgeJob struct {
	purger    Purger
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewOutboxPurgeJob(purger Purger, retention time.Duration, logger *slog.Logger) *OutboxPurgeJob {
	return &OutboxPurgeJob{purger: purger, retention: retention, logger: logger, now: time.Now}
}

func (j *OutboxPurgeJob) Name() string { return "outbox_purge" }

func (j *OutboxPurgeJob) Run(ctx context.Context) error {
	n, err := j.purger.PurgePublished(ctx, j.now().Add(-j.retention))
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "purged relayed outbox rows", "count", n)
	}
	return nil
}
