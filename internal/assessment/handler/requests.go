package handler

import (
	"strings"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/regulations"
	dErrors "htb-gateway/pkg/domain-errors"
)

// AssessRequest is the body of POST /htb/assessments.
type AssessRequest struct {
	assessment.Application
}

// Validate is a no-op: the schema covers shape and the service owns the
// domain checks so that rejected input is still audited.
func (r *AssessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// BatchRequest is the body of POST /htb/assessments/batch.
type BatchRequest struct {
	Applications []assessment.Application `json:"applications"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Applications) == 0 {
		return dErrors.New(dErrors.CodeValidation, "applications must not be empty")
	}
	return nil
}

// StatusRequest is the body of PATCH /htb/assessments/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`

	parsedStatus assessment.Status
}

func (r *StatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Note) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "note must be at most 1000 characters")
	}
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	status, err := assessment.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsedStatus = status
	r.Note = strings.TrimSpace(r.Note)
	return nil
}

// ParsedStatus returns the validated target status.
func (r *StatusRequest) ParsedStatus() assessment.Status {
	return r.parsedStatus
}

// parseHomeType accepts the query forms used by GET /htb/documents.
func parseHomeType(raw string) (regulations.HomeType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(regulations.HomeTypeSecondHand), "second-hand", "secondhand":
		return regulations.HomeTypeSecondHand, nil
	case string(regulations.HomeTypeNew):
		return regulations.HomeTypeNew, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown home_type %q", raw)
}

func parseEmploymentType(raw string) (assessment.EmploymentType, error) {
	t := assessment.EmploymentType(strings.ToUpper(strings.TrimSpace(raw)))
	if t == "" {
		return assessment.EmploymentEmployed, nil
	}
	if !t.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown employment_type %q", raw)
	}
	return t, nil
}
