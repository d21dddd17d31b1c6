// Package request assigns every request an ID for log correlation.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"organmatch/pkg/requestcontext"
)

// HeaderRequestID is echoed on every response and accepted from trusted proxies.
const HeaderRequestID = "X-Request-ID"

const maxIncomingIDLength = 128

// RequestID reuses a sane incoming X-Request-ID or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > maxIncomingIDLength {
			rid = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), rid)))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
