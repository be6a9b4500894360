package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a stored assessment.
type Status string

const (
	StatusAssessed    Status = "ASSESSED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusExpired     Status = "EXPIRED"
)

var transitions = map[Status][]Status{
	StatusAssessed:    {StatusUnderReview, StatusExpired},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

// ParseStatus validates a status name.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusAssessed, StatusUnderReview, StatusApproved, StatusRejected, StatusExpired:
		return s, nil
	}
	return "", inputError("unknown assessment status " + raw)
}

// CanTransition reports whether from → to is an allowed lifecycle step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusChange is one row of an assessment's status history.
type StatusChange struct {
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Note      string    `json:"note,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// Record is a persisted assessment with its lifecycle state.
type Record struct {
	Result        AssessmentResult `json:"result"`
	Status        Status           `json:"status"`
	SubjectIDHash string           `json:"-"`
	UpdatedAt     time.Time        `json:"updated_at"`
	History       []StatusChange   `json:"history"`
}

// Store persists assessments. Implementations return sentinel.ErrNotFound for
// unknown ids and sentinel.ErrConflict when the stored status no longer
// matches change.From.
type Store interface {
	Save(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change StatusChange) error
	// ExpireIssuedBefore moves ASSESSED records whose ValidUntil is before
	// cutoff to EXPIRED and returns their ids.
	ExpireIssuedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// Transactor runs fn so that store and outbox writes made with the ctx it
// receives commit or roll back together.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
