package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/documents"
	"htb-gateway/internal/regulations"
	dErrors "htb-gateway/pkg/domain-errors"
	"htb-gateway/pkg/platform/httputil"
	"htb-gateway/pkg/requestcontext"
)

// Service defines the assessment operations exposed over HTTP.
type Service interface {
	Assess(ctx context.Context, app assessment.Application) (*assessment.AssessmentResult, error)
	AssessBatch(ctx context.Context, apps []assessment.Application) ([]assessment.BatchItem, error)
	Get(ctx context.Context, id uuid.UUID) (*assessment.Record, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to assessment.Status, note string) (*assessment.Record, error)
	Regulations() regulations.Set
}

// Checklist lists the documents that apply to a profile.
type Checklist interface {
	Checklist(p documents.Profile) []documents.Template
}

// Handler wires assessment endpoints to the assessment service.
type Handler struct {
	service   Service
	checklist Checklist
	logger    *slog.Logger
}

func New(service Service, checklist Checklist, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		checklist: checklist,
		logger:    logger,
	}
}

// Register mounts assessment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/htb/assessments", h.HandleAssess)
	r.Post("/htb/assessments/batch", h.HandleAssessBatch)
	r.Get("/htb/assessments/{id}", h.HandleGet)
	r.Patch("/htb/assessments/{id}/status", h.HandleUpdateStatus)
	r.Get("/htb/regulations", h.HandleRegulations)
	r.Get("/htb/documents", h.HandleDocuments)
}

// HandleAssess handles POST /htb/assessments.
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, err := decodeWithSchema[AssessRequest](r, applicationSchema)
	if err != nil {
		h.rejected(ctx, requestID, err)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Assess(ctx, req.Application)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "assessment served",
		"request_id", requestID,
		"assessment_id", result.AssessmentID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.Header().Set("Location", "/htb/assessments/"+result.AssessmentID.String())
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleAssessBatch handles POST /htb/assessments/batch. Per-item failures are
// reported in the body; the response itself is 200.
func (h *Handler) HandleAssessBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := decodeWithSchema[BatchRequest](r, batchSchema)
	if err != nil {
		h.rejected(ctx, requestID, err)
		httputil.WriteError(w, err)
		return
	}

	items, err := h.service.AssessBatch(ctx, req.Applications)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch assessment failed",
			"request_id", requestID,
			"size", len(req.Applications),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := fromBatch(items)
	h.logger.InfoContext(ctx, "batch assessment served",
		"request_id", requestID,
		"size", len(items),
		"failed", resp.Failed,
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /htb/assessments/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleUpdateStatus handles PATCH /htb/assessments/{id}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.UpdateStatus(ctx, id, req.ParsedStatus(), req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "status update rejected",
			"request_id", requestID,
			"assessment_id", id,
			"to", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleRegulations handles GET /htb/regulations.
func (h *Handler) HandleRegulations(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Regulations())
}

// HandleDocuments handles GET /htb/documents.
func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	homeType, err := parseHomeType(q.Get("home_type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	employment, err := parseEmploymentType(q.Get("employment_type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	templates := h.checklist.Checklist(documents.Profile{
		HomeType:       homeType,
		EmploymentType: string(employment),
		Eligible:       true,
	})
	httputil.WriteJSON(w, http.StatusOK, DocumentsResponse{
		HomeType:       string(homeType),
		EmploymentType: string(employment),
		Documents:      templates,
	})
}

func (h *Handler) rejected(ctx context.Context, requestID string, err error) {
	h.logger.WarnContext(ctx, "invalid request",
		"request_id", requestID,
		"error", err,
	)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid assessment id")
	}
	return id, nil
}
