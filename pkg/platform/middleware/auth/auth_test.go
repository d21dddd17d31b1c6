package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "organmatch/pkg/domain"
	"organmatch/pkg/requestcontext"
)

type stubValidator struct{}

func (stubValidator) VerifyTenant(token string) (*JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &JWTClaims{TenantID: "h1", Subject: "nurse"}, nil
}

func TestRequireTenant(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seenTenant id.TenantID
	var seenSubject string
	handler := RequireTenant(stubValidator{}, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTenant = requestcontext.TenantID(r.Context())
		seenSubject = requestcontext.Subject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/matches", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
	assert.Equal(t, id.TenantID("h1"), seenTenant)
	assert.Equal(t, "nurse", seenSubject)
}
