// Package ratelimit throttles /htb callers with a sliding window per caller
// and endpoint class.
package ratelimit

import (
	"context"
	"time"
)

// Class groups endpoints that share a budget. Writes run a credit check per
// application, so they get a smaller budget than reads.
type Class string

const (
	ClassWrite Class = "write"
	ClassRead  Class = "read"
)

// Policy is the request budget of one class.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result of one admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole seconds until the window frees a slot, at least 1.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// Store counts requests in a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}
