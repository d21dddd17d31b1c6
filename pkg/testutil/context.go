package testutil

import (
	"net/http"

	id "organmatch/pkg/domain"
	"organmatch/pkg/requestcontext"
)

// WithTenant adds a tenant ID to the request context.
// This simulates what the auth middleware does for a verified bearer token.
// An empty tenantID leaves the request unauthenticated.
func WithTenant(req *http.Request, tenantID string) *http.Request {
	if parsed, err := id.ParseTenantID(tenantID); err == nil {
		return req.WithContext(requestcontext.WithTenantID(req.Context(), parsed))
	}
	return req
}

// WithAuth adds both tenant and subject to the request context.
func WithAuth(req *http.Request, tenantID, subject string) *http.Request {
	req = WithTenant(req, tenantID)
	if subject != "" {
		req = req.WithContext(requestcontext.WithSubject(req.Context(), subject))
	}
	return req
}
