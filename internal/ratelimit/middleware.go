package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"htb-gateway/pkg/platform/httputil"
	"htb-gateway/pkg/requestcontext"
)

type exceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Middleware enforces per-class policies. Authenticated callers are keyed by
// token subject, anonymous ones by client IP. Store errors fail open.
type Middleware struct {
	store    Store
	policies map[Class]Policy
	logger   *slog.Logger
	now      func() time.Time
}

func New(store Store, policies map[Class]Policy, logger *slog.Logger) *Middleware {
	return &Middleware{store: store, policies: policies, logger: logger, now: time.Now}
}

// Limit returns middleware for one endpoint class. A class without a
// positive limit is not throttled.
func (m *Middleware) Limit(class Class) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		policy, ok := m.policies[class]
		if !ok || policy.Limit <= 0 || policy.Window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := string(class) + ":" + subjectKey(r)

			result, err := m.store.Allow(ctx, key, policy.Limit, policy.Window)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"class", class,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retry := result.RetryAfter(m.now())
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"class", class,
				)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
					Error:      "rate_limit_exceeded",
					Message:    "Too many requests. Please try again later.",
					RetryAfter: retry,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func subjectKey(r *http.Request) string {
	ctx := r.Context()
	if caller := requestcontext.Caller(ctx); caller != "" {
		return "caller:" + caller
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

// ByMethod applies the read budget to GET and HEAD and the write budget to
// everything else.
func (m *Middleware) ByMethod(next http.Handler) http.Handler {
	read := m.Limit(ClassRead)(next)
	write := m.Limit(ClassWrite)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			read.ServeHTTP(w, r)
			return
		}
		write.ServeHTTP(w, r)
	})
}
