package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/pkg/testutil"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (Result, error) {
	return Result{}, errors.New("redis down")
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func request(caller, ip string) *http.Request {
	req := testutil.WithClientIP(httptest.NewRequest(http.MethodPost, "/htb/assessments", nil), ip)
	if caller != "" {
		req = testutil.WithCaller(req, caller)
	}
	return req
}

func TestLimitRejectsOverBudget(t *testing.T) {
	m := New(NewInMemoryStore(), map[Class]Policy{ClassWrite: {Limit: 2, Window: time.Minute}}, discard)
	h := m.Limit(ClassWrite)(okHandler())

	for range 2 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("lender-a", "10.0.0.1"))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("lender-a", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// another caller behind the same IP has its own budget
	w = httptest.NewRecorder()
	h.ServeHTTP(w, request("lender-b", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLimitKeysAnonymousCallersByIP(t *testing.T) {
	m := New(NewInMemoryStore(), map[Class]Policy{ClassRead: {Limit: 1, Window: time.Minute}}, discard)
	h := m.Limit(ClassRead)(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, request("", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, request("", "10.0.0.2"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLimitFailsOpen(t *testing.T) {
	m := New(failingStore{}, map[Class]Policy{ClassWrite: {Limit: 1, Window: time.Minute}}, discard)
	w := httptest.NewRecorder()
	m.Limit(ClassWrite)(okHandler()).ServeHTTP(w, request("lender-a", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLimitWithoutPolicyPassesThrough(t *testing.T) {
	m := New(failingStore{}, map[Class]Policy{}, discard)
	w := httptest.NewRecorder()
	m.Limit(ClassRead)(okHandler()).ServeHTTP(w, request("", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestByMethodSeparatesBudgets(t *testing.T) {
	m := New(NewInMemoryStore(), map[Class]Policy{
		ClassWrite: {Limit: 1, Window: time.Minute},
		ClassRead:  {Limit: 5, Window: time.Minute},
	}, discard)
	h := m.ByMethod(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("lender-a", "10.0.0.1"))
	require.Equal(t, http.StatusNoContent, w.Code)

	get := testutil.WithCaller(httptest.NewRequest(http.MethodGet, "/htb/regulations", nil), "lender-a")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, get)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, request("lender-a", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
