package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "organmatch/pkg/domain"
	"organmatch/pkg/requestcontext"
)

// TenantVerifier checks a bearer token and reports who it speaks for.
type TenantVerifier interface {
	VerifyTenant(token string) (*JWTClaims, error)
}

type JWTClaims struct {
	TenantID id.TenantID
	Subject  string
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireTenant rejects requests without a valid bearer token and places the
// token's tenant and subject in the request context.
func RequireTenant(verifier TenantVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := verifier.VerifyTenant(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithTenantID(ctx, claims.TenantID)
			ctx = requestcontext.WithSubject(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
