// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values set by middleware and read by services.
//
//	tenantID := requestcontext.TenantID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"

	id "organmatch/pkg/domain"
)

type (
	tenantIDKey    struct{}
	subjectKey     struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	ContextKeyTenantID    = tenantIDKey{}
	ContextKeySubject     = subjectKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// TenantID retrieves the authenticated hospital tenant from the context.
// Returns the zero value if not set.
func TenantID(ctx context.Context) id.TenantID {
	if tenantID, ok := ctx.Value(ContextKeyTenantID).(id.TenantID); ok {
		return tenantID
	}
	return ""
}

func WithTenantID(ctx context.Context, tenantID id.TenantID) context.Context {
	return context.WithValue(ctx, ContextKeyTenantID, tenantID)
}

// Subject is the token subject (operator) acting on behalf of the tenant.
func Subject(ctx context.Context) string {
	if sub, ok := ctx.Value(ContextKeySubject).(string); ok {
		return sub
	}
	return ""
}

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ContextKeySubject, subject)
}

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for workers, the CLI and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed time, mainly for service tests.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
