package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"htb-gateway/internal/assessment"
	"htb-gateway/pkg/platform/sentinel"
)

// Actor and note recorded on history rows written by the expiry sweep.
const (
	expiryActor = "system"
	expiryNote  = "validity elapsed"
)

// InMemoryStore keeps assessments in a map. Records are deep-copied on the
// way in and out so callers never share slices with the store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]assessment.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]assessment.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record *assessment.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := record.Result.AssessmentID
	if _, exists := s.records[id]; exists {
		return sentinel.ErrConflict
	}
	s.records[id] = clone(*record)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*assessment.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(record)
	return &out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, change assessment.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if record.Status != change.From {
		return sentinel.ErrConflict
	}
	record.Status = change.To
	record.UpdatedAt = change.ChangedAt
	record.History = append(slices.Clone(record.History), change)
	s.records[id] = record
	return nil
}

func (s *InMemoryStore) ExpireIssuedBefore(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []uuid.UUID
	for id, record := range s.records {
		if record.Status != assessment.StatusAssessed || !record.Result.ValidUntil.Before(cutoff) {
			continue
		}
		record.Status = assessment.StatusExpired
		record.UpdatedAt = cutoff
		record.History = append(slices.Clone(record.History), assessment.StatusChange{
			From:      assessment.StatusAssessed,
			To:        assessment.StatusExpired,
			Note:      expiryNote,
			Actor:     expiryActor,
			ChangedAt: cutoff,
		})
		s.records[id] = record
		expired = append(expired, id)
	}
	return expired, nil
}

func clone(r assessment.Record) assessment.Record {
	r.Result.Conditions = slices.Clone(r.Result.Conditions)
	r.Result.Warnings = slices.Clone(r.Result.Warnings)
	r.Result.NextSteps = slices.Clone(r.Result.NextSteps)
	r.Result.RequiredActions = slices.Clone(r.Result.RequiredActions)
	r.Result.RequiredDocuments = slices.Clone(r.Result.RequiredDocuments)
	r.History = slices.Clone(r.History)
	if r.History == nil {
		r.History = []assessment.StatusChange{}
	}
	return r
}
