package handler

import (
	"net/http"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/documents"
	dErrors "htb-gateway/pkg/domain-errors"
	"htb-gateway/pkg/platform/httputil"
)

// BatchItemResponse carries either a result or an error for one application.
type BatchItemResponse struct {
	Index  int                          `json:"index"`
	Status int                          `json:"status"`
	Result *assessment.AssessmentResult `json:"result,omitempty"`
	Error  *httputil.ErrorResponse      `json:"error,omitempty"`
}

type BatchResponse struct {
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

func fromBatch(items []assessment.BatchItem) *BatchResponse {
	resp := &BatchResponse{Results: make([]BatchItemResponse, len(items))}
	for i, item := range items {
		if item.Err != nil {
			resp.Failed++
			resp.Results[i] = BatchItemResponse{
				Index:  item.Index,
				Status: httputil.StatusFor(dErrors.CodeOf(item.Err)),
				Error:  errorBody(item.Err),
			}
			continue
		}
		resp.Succeeded++
		resp.Results[i] = BatchItemResponse{Index: item.Index, Status: http.StatusCreated, Result: item.Result}
	}
	return resp
}

func errorBody(err error) *httputil.ErrorResponse {
	code := dErrors.CodeOf(err)
	body := &httputil.ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		if de, ok := dErrors.As(err); ok {
			body.Description = de.Message
		}
	}
	return body
}

// DocumentsResponse is the checklist for GET /htb/documents.
type DocumentsResponse struct {
	HomeType       string               `json:"home_type"`
	EmploymentType string               `json:"employment_type"`
	Documents      []documents.Template `json:"documents"`
}
