// Package requesttime captures a single "now" per HTTP request so that issue
// timestamps, expiry dates, and audit records within one request agree.
package requesttime

import (
	"net/http"
	"time"

	"htb-gateway/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
