package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"htb-gateway/internal/assessment/metrics"
	"htb-gateway/internal/assessment/ports"
	"htb-gateway/internal/documents"
	"htb-gateway/internal/regulations"
	dErrors "htb-gateway/pkg/domain-errors"
	"htb-gateway/pkg/platform/audit"
	"htb-gateway/pkg/platform/sentinel"
	"htb-gateway/pkg/requestcontext"
)

const (
	defaultAssessedBy = "HTB Automated Assessment System"
	defaultBatchLimit = 8
	// MaxBatchSize caps one AssessBatch call.
	MaxBatchSize = 100
)

// Service orchestrates one assessment: validate, look up credit, evaluate,
// attach documents, persist, audit. It holds no per-call state, so concurrent
// calls need no coordination.
type Service struct {
	regs       regulations.Set
	credit     ports.CreditPort
	documents  ports.DocumentCatalog
	store      Store
	tx         Transactor
	audit      ports.AuditPort
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	assessedBy string
	batchLimit int
	newID      func() uuid.UUID
	subjects   *audit.SubjectHasher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStore enables persistence and the status lifecycle.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithTransactor(tx Transactor) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithAuditPublisher(publisher ports.AuditPort) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithAssessedBy(label string) Option {
	return func(s *Service) {
		s.assessedBy = label
	}
}

// WithBatchLimit bounds how many assessments of a batch run at once.
func WithBatchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchLimit = n
		}
	}
}

// WithSubjectHasher sets the key used to pseudonymise PPS numbers in stored
// records and audit events. Without it a per-process key is generated.
func WithSubjectHasher(h *audit.SubjectHasher) Option {
	return func(s *Service) {
		s.subjects = h
	}
}

func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService constructs a Service over an explicit regulation set.
func NewService(regs regulations.Set, credit ports.CreditPort, catalog ports.DocumentCatalog, opts ...Option) *Service {
	s := &Service{
		regs:       regs,
		credit:     credit,
		documents:  catalog,
		tx:         noTx{},
		logger:     slog.Default(),
		tracer:     otel.Tracer("htb-gateway/assessment"),
		assessedBy: defaultAssessedBy,
		batchLimit: defaultBatchLimit,
		newID:      uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.subjects == nil {
		s.subjects = audit.NewEphemeralSubjectHasher()
	}
	return s
}

// Regulations returns the rule set this service assesses against.
func (s *Service) Regulations() regulations.Set {
	return s.regs
}

// Assess runs one complete assessment. It returns either a full result or an
// error, never both; every failure is logged and audited before returning.
func (s *Service) Assess(ctx context.Context, app Application) (*AssessmentResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "assessment.Assess")
	defer span.End()

	result, err := s.assess(ctx, app)
	s.metrics.ObserveAssessLatency(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		s.metrics.IncrementError(string(dErrors.CodeOf(err)))
		s.logger.ErrorContext(ctx, "assessment failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		s.emit(ctx, audit.Event{
			Action:        string(audit.EventAssessmentFailed),
			Decision:      string(dErrors.CodeOf(err)),
			Reason:        err.Error(),
			SubjectIDHash: s.subjects.Hash(app.Applicant.Personal.PPSNumber),
		})
		return nil, err
	}

	span.SetAttributes(
		attribute.String("assessment.id", result.AssessmentID.String()),
		attribute.Bool("assessment.eligible", result.Eligible),
		attribute.Int64("assessment.actual_grant", result.ActualGrantAmount),
	)
	s.metrics.IncrementOutcome(result.Eligible, string(result.HomeType))
	s.metrics.ObserveGrant(result.ActualGrantAmount)
	s.logger.InfoContext(ctx, "assessment completed",
		"request_id", requestcontext.RequestID(ctx),
		"assessment_id", result.AssessmentID,
		"eligible", result.Eligible,
		"home_type", result.HomeType,
		"actual_grant", result.ActualGrantAmount,
		"manual_review", result.RequiresManualReview,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.emit(ctx, audit.Event{
		Subject:       result.AssessmentID.String(),
		Action:        string(audit.EventAssessmentCompleted),
		Decision:      eligibilityLabel(result.Eligible),
		Reason:        "grant=" + strconv.FormatInt(result.ActualGrantAmount, 10),
		SubjectIDHash: s.subjects.Hash(app.Applicant.Personal.PPSNumber),
	})
	return result, nil
}

func (s *Service) assess(ctx context.Context, app Application) (*AssessmentResult, error) {
	app, err := app.Validate()
	if err != nil {
		return nil, err
	}

	report, err := s.checkCredit(ctx, app.Applicant.Personal.PPSNumber)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	result, err := Evaluate(app, CreditStanding{Score: report.Score, Pass: report.Pass}, s.regs, now)
	if err != nil {
		return nil, err
	}

	result.AssessmentID = s.newID()
	result.AssessedBy = s.assessedBy
	result.IssuedAt = now
	result.ValidUntil = now.AddDate(0, 0, s.regs.Processing.ValidityDays)
	result.RequiredDocuments = s.requiredDocuments(app, result)

	if s.store != nil {
		record := &Record{
			Result:        result,
			Status:        StatusAssessed,
			SubjectIDHash: s.subjects.Hash(app.Applicant.Personal.PPSNumber),
			UpdatedAt:     now,
			History:       []StatusChange{},
		}
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.store.Save(ctx, record)
		})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist assessment")
		}
	}
	return &result, nil
}

func (s *Service) checkCredit(ctx context.Context, personalID string) (*ports.CreditReport, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.CheckCredit")
	defer span.End()

	start := time.Now()
	report, err := s.credit.CheckCredit(ctx, personalID)
	if err == nil && report == nil {
		err = errors.New("credit bureau returned no report")
	}
	if err != nil {
		s.metrics.ObserveCreditLatency("error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "credit check failed")
		if IsExternalDependency(err) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, CodeExternalDependency, "credit check failed")
	}
	s.metrics.ObserveCreditLatency("ok", time.Since(start))
	span.SetAttributes(attribute.String("credit.bureau", report.Bureau))
	return report, nil
}

func (s *Service) requiredDocuments(app Application, result AssessmentResult) []RequiredDocument {
	if s.documents == nil {
		return []RequiredDocument{}
	}
	reqs := s.documents.Required(documents.Profile{
		HomeType:       result.HomeType,
		EmploymentType: string(app.Applicant.Employment.Type),
		Eligible:       result.Eligible,
	}, result.IssuedAt)

	out := make([]RequiredDocument, len(reqs))
	for i, r := range reqs {
		out[i] = RequiredDocument{
			ID:        r.ID,
			Name:      r.Name,
			Category:  string(r.Category),
			Mandatory: r.Mandatory,
			DueBy:     r.DueBy,
		}
	}
	return out
}

// BatchItem is the outcome of one application in a batch, in input order.
type BatchItem struct {
	Index  int
	Result *AssessmentResult
	Err    error
}

// AssessBatch assesses independent applications concurrently. A failing item
// does not affect the others.
func (s *Service) AssessBatch(ctx context.Context, apps []Application) ([]BatchItem, error) {
	if len(apps) == 0 {
		return nil, inputError("batch must contain at least one application")
	}
	if len(apps) > MaxBatchSize {
		return nil, inputError(fmt.Sprintf("batch must contain at most %d applications", MaxBatchSize))
	}

	items := make([]BatchItem, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, app := range apps {
		g.Go(func() error {
			result, err := s.Assess(gctx, app)
			items[i] = BatchItem{Index: i, Result: result, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get loads a stored assessment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	if s.store == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "assessment not found")
	}
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "assessment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assessment")
	}
	return record, nil
}

// UpdateStatus moves a stored assessment along its lifecycle. The status row
// and its audit event commit together; if the audit write fails the
// transition is rolled back.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status, note string) (*Record, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(record.Status, to) {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "cannot move assessment from %s to %s", record.Status, to)
	}

	change := StatusChange{
		From:      record.Status,
		To:        to,
		Note:      note,
		Actor:     requestcontext.Caller(ctx),
		ChangedAt: requestcontext.Now(ctx),
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.UpdateStatus(ctx, id, change); err != nil {
			return err
		}
		if s.audit == nil {
			return nil
		}
		return s.audit.Emit(ctx, audit.Event{
			Timestamp:     change.ChangedAt,
			Subject:       id.String(),
			Action:        string(audit.EventAssessmentStatusChanged),
			Decision:      string(to),
			Reason:        note,
			SubjectIDHash: record.SubjectIDHash,
			RequestID:     requestcontext.RequestID(ctx),
			ActorID:       change.Actor,
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "assessment not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "assessment status changed concurrently")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update assessment status")
	}

	record.Status = to
	record.UpdatedAt = change.ChangedAt
	record.History = append(record.History, change)
	s.metrics.IncrementTransition(string(to))
	s.logger.InfoContext(ctx, "assessment status changed",
		"request_id", requestcontext.RequestID(ctx),
		"assessment_id", id,
		"from", change.From,
		"to", to,
	)
	return record, nil
}

// ExpireStale marks every ASSESSED record past its validity as EXPIRED.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	ids, err := s.store.ExpireIssuedBefore(ctx, requestcontext.Now(ctx))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire assessments")
	}
	if len(ids) > 0 {
		s.metrics.AddTransitions(string(StatusExpired), len(ids))
		s.emit(ctx, audit.Event{
			Action: string(audit.EventAssessmentsExpired),
			Reason: "expired=" + strconv.Itoa(len(ids)),
		})
	}
	return len(ids), nil
}

// emit is fire-and-forget: an audit failure never changes the caller's result.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ActorID == "" {
		event.ActorID = requestcontext.Caller(ctx)
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}

func eligibilityLabel(eligible bool) string {
	if eligible {
		return "eligible"
	}
	return "ineligible"
}
