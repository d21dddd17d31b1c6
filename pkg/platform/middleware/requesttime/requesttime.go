// Package requesttime pins one "now" per request so every timestamp a request
// writes (match creation, commit, release) agrees.
package requesttime

import (
	"net/http"
	"time"

	"organmatch/pkg/requestcontext"
)

// Middleware stamps each request with the wall clock.
var Middleware = WithClock(time.Now)

// WithClock stamps each request with clock(), in UTC.
func WithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
