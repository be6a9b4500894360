package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/internal/assessment"
	"htb-gateway/pkg/platform/sentinel"
)

var issued = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRecord(validUntil time.Time) *assessment.Record {
	return &assessment.Record{
		Result: assessment.AssessmentResult{
			AssessmentID: uuid.New(),
			Eligible:     true,
			IssuedAt:     issued,
			ValidUntil:   validUntil,
		},
		Status:        assessment.StatusAssessed,
		SubjectIDHash: "hash",
		UpdatedAt:     issued,
		History:       []assessment.StatusChange{},
	}
}

func TestInMemoryStore_SaveAndFind(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	rec := newRecord(issued.AddDate(0, 0, 90))

	require.NoError(t, s.Save(ctx, rec))
	assert.ErrorIs(t, s.Save(ctx, rec), sentinel.ErrConflict)

	got, err := s.FindByID(ctx, rec.Result.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, rec.Result.AssessmentID, got.Result.AssessmentID)
	assert.Equal(t, assessment.StatusAssessed, got.Status)

	_, err = s.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_RecordsDoNotAliasCallerSlices(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	rec := newRecord(issued.AddDate(0, 0, 90))
	rec.Result.Conditions = []string{"condition"}
	rec.Result.Warnings = []string{"warning"}
	rec.Result.NextSteps = []string{"step"}
	rec.Result.RequiredActions = []string{"action"}
	rec.Result.RequiredDocuments = []assessment.RequiredDocument{{ID: "salary_cert"}}
	require.NoError(t, s.Save(ctx, rec))

	rec.Result.Conditions[0] = "mutated"
	rec.Result.RequiredDocuments[0].ID = "mutated"

	got, err := s.FindByID(ctx, rec.Result.AssessmentID)
	require.NoError(t, err)
	got.Result.Warnings[0] = "mutated"
	got.Result.NextSteps[0] = "mutated"
	got.Result.RequiredActions[0] = "mutated"

	again, err := s.FindByID(ctx, rec.Result.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, []string{"condition"}, again.Result.Conditions)
	assert.Equal(t, []string{"warning"}, again.Result.Warnings)
	assert.Equal(t, []string{"step"}, again.Result.NextSteps)
	assert.Equal(t, []string{"action"}, again.Result.RequiredActions)
	assert.Equal(t, "salary_cert", again.Result.RequiredDocuments[0].ID)
}

func TestInMemoryStore_UpdateStatus(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	rec := newRecord(issued.AddDate(0, 0, 90))
	require.NoError(t, s.Save(ctx, rec))
	id := rec.Result.AssessmentID

	change := assessment.StatusChange{From: assessment.StatusAssessed, To: assessment.StatusUnderReview, ChangedAt: issued.Add(time.Hour)}
	require.NoError(t, s.UpdateStatus(ctx, id, change))

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusUnderReview, got.Status)
	assert.Equal(t, []assessment.StatusChange{change}, got.History)

	// stale From
	assert.ErrorIs(t, s.UpdateStatus(ctx, id, change), sentinel.ErrConflict)
	assert.ErrorIs(t, s.UpdateStatus(ctx, uuid.New(), change), sentinel.ErrNotFound)

	// returned copies are detached from the store
	got.History[0].Note = "mutated"
	again, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, again.History[0].Note)
}

func TestInMemoryStore_ConcurrentTransitionHasOneWinner(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	rec := newRecord(issued.AddDate(0, 0, 90))
	require.NoError(t, s.Save(ctx, rec))

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.UpdateStatus(ctx, rec.Result.AssessmentID, assessment.StatusChange{
				From: assessment.StatusAssessed,
				To:   assessment.StatusUnderReview,
			})
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestInMemoryStore_ExpireIssuedBefore(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	stale := newRecord(issued.AddDate(0, 0, -1))
	fresh := newRecord(issued.AddDate(0, 0, 30))
	reviewed := newRecord(issued.AddDate(0, 0, -1))
	reviewed.Status = assessment.StatusUnderReview
	for _, r := range []*assessment.Record{stale, fresh, reviewed} {
		require.NoError(t, s.Save(ctx, r))
	}

	ids, err := s.ExpireIssuedBefore(ctx, issued)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{stale.Result.AssessmentID}, ids)

	got, err := s.FindByID(ctx, stale.Result.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusExpired, got.Status)
	require.Len(t, got.History, 1)
	assert.Equal(t, expiryActor, got.History[0].Actor)

	ids, err = s.ExpireIssuedBefore(ctx, issued)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
