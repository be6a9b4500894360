package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"htb-gateway/internal/assessment/ports"
	dErrors "htb-gateway/pkg/domain-errors"
	"htb-gateway/pkg/platform/circuit"
)

// HTTPBureau calls a credit bureau's JSON API. Failures surface as
// dependency_unavailable errors and are never retried here. While the
// breaker is open calls fail fast without touching the network.
type HTTPBureau struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *circuit.Breaker
}

func NewHTTPBureau(baseURL, apiKey string, timeout time.Duration, breaker *circuit.Breaker) *HTTPBureau {
	if breaker == nil {
		breaker = circuit.New("credit_bureau")
	}
	return &HTTPBureau{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

type bureauRequest struct {
	PersonalID string `json:"personal_id"`
}

type bureauResponse struct {
	Score     *int      `json:"score"`
	Pass      bool      `json:"pass"`
	Bureau    string    `json:"bureau"`
	CheckedAt time.Time `json:"checked_at"`
}

func (b *HTTPBureau) CheckCredit(ctx context.Context, personalID string) (*ports.CreditReport, error) {
	if !b.breaker.Allow() {
		return nil, dErrors.New(dErrors.CodeDependencyDown, "credit bureau unavailable")
	}

	report, err := b.lookup(ctx, personalID)
	if err != nil {
		b.breaker.RecordFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyDown, "credit bureau lookup failed")
	}
	b.breaker.RecordSuccess()
	return report, nil
}

func (b *HTTPBureau) lookup(ctx context.Context, personalID string) (*ports.CreditReport, error) {
	body, err := json.Marshal(bureauRequest{PersonalID: personalID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/credit-checks", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bureau returned status %d", resp.StatusCode)
	}

	var out bureauResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode bureau response: %w", err)
	}
	if out.Score == nil {
		return nil, errors.New("bureau response missing score")
	}
	return &ports.CreditReport{
		PersonalID: personalID,
		Score:      *out.Score,
		Pass:       out.Pass,
		Bureau:     out.Bureau,
		CheckedAt:  out.CheckedAt,
	}, nil
}
