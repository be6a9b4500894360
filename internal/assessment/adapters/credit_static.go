package adapters

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"htb-gateway/internal/assessment/ports"
)

// StaticCredit is a deterministic CreditPort for tests and local runs.
// Registered identifiers return their fixed report; any other identifier gets
// a score derived from a hash of the identifier, so repeated lookups agree.
type StaticCredit struct {
	mu      sync.RWMutex
	reports map[string]ports.CreditReport
	now     func() time.Time
}

func NewStaticCredit() *StaticCredit {
	return &StaticCredit{reports: make(map[string]ports.CreditReport), now: time.Now}
}

// Set registers a fixed report for personalID.
func (c *StaticCredit) Set(personalID string, score int, pass bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[normaliseID(personalID)] = ports.CreditReport{
		PersonalID: personalID,
		Score:      score,
		Pass:       pass,
		Bureau:     "static",
	}
}

func (c *StaticCredit) CheckCredit(_ context.Context, personalID string) (*ports.CreditReport, error) {
	key := normaliseID(personalID)
	c.mu.RLock()
	report, ok := c.reports[key]
	c.mu.RUnlock()
	if !ok {
		report = ports.CreditReport{
			PersonalID: personalID,
			Score:      derivedScore(key),
			Pass:       true,
			Bureau:     "static",
		}
	}
	report.CheckedAt = c.now()
	return &report, nil
}

// derivedScore maps an identifier onto 600..849.
func derivedScore(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return 600 + int(h.Sum32()%250)
}

func normaliseID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
