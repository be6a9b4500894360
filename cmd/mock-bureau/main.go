// Command mock-bureau serves a deterministic credit bureau for local runs.
// Point CREDIT_BUREAU_URL at it to exercise the HTTP client path.
package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"htb-gateway/internal/assessment/adapters"
	"htb-gateway/internal/platform/httpserver"
	"htb-gateway/internal/platform/logger"
	"htb-gateway/pkg/platform/httputil"
	"htb-gateway/pkg/platform/middleware/request"
)

type checkRequest struct {
	PersonalID string `json:"personal_id"`
}

// newRouter serves the bureau API over a static report source. When apiKey is
// set callers must present it as a bearer token.
func newRouter(reports *adapters.StaticCredit, apiKey string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))

	r.Post("/v1/credit-checks", func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token != apiKey {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
				return
			}
		}
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.PersonalID) == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "bad_request", Description: "personal_id is required"})
			return
		}
		report, err := reports.CheckCredit(r.Context(), req.PersonalID)
		if err != nil {
			httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "internal_error"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"score":      report.Score,
			"pass":       report.Pass,
			"bureau":     "mock-bureau",
			"checked_at": report.CheckedAt,
		})
	})
	return r
}

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))
	addr := os.Getenv("MOCK_BUREAU_ADDR")
	if addr == "" {
		addr = ":8090"
	}

	reports := adapters.NewStaticCredit()
	// a fixed failing identifier for demos of ineligible outcomes
	reports.Set("0000000XX", 480, false)

	srv := httpserver.New(addr, newRouter(reports, os.Getenv("CREDIT_BUREAU_API_KEY"), log))
	log.Info("starting mock credit bureau", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("mock bureau stopped", "error", err)
		os.Exit(1)
	}
}
