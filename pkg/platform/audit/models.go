package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This drives sampling, retention, and the outbox topic they are relayed to.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: every
	// issued assessment and every status decision. Never sampled.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	// Subject is the aggregate the event is about, usually an assessment id.
	Subject  string
	Action   string
	Decision string
	Reason   string
	// SubjectIDHash is the SubjectHasher digest of the applicant's PPS number so
	// events can be correlated per applicant without storing the raw identifier.
	SubjectIDHash string
	RequestID     string
	// ActorID is the authenticated caller that triggered the action.
	ActorID string
}

type AuditEvent string

const (
	EventAssessmentCompleted     AuditEvent = "assessment_completed"
	EventAssessmentFailed        AuditEvent = "assessment_failed"
	EventAssessmentStatusChanged AuditEvent = "assessment_status_changed"
	EventAssessmentsExpired      AuditEvent = "assessments_expired"
	EventRegulationsLoaded       AuditEvent = "regulations_loaded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAssessmentCompleted:     CategoryCompliance,
	EventAssessmentStatusChanged: CategoryCompliance,
	EventAssessmentFailed:        CategoryOperations,
	EventAssessmentsExpired:      CategoryOperations,
	EventRegulationsLoaded:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}

// OutboxEntry is one event row awaiting relay to the event stream.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}
