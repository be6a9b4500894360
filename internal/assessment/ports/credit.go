package ports

import (
	"context"
	"time"
)

// CreditPort looks up an applicant's credit standing by PPS number. It is the
// only external call an assessment makes; failures abort the assessment and
// are never retried here.
type CreditPort interface {
	CheckCredit(ctx context.Context, personalID string) (*CreditReport, error)
}

// CreditReport is the bureau's answer (port model).
type CreditReport struct {
	PersonalID string
	Score      int
	// Pass is the bureau's own verdict, independent of the score floor.
	Pass      bool
	Bureau    string
	CheckedAt time.Time
}
