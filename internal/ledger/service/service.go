// Package service is the transplant ledger: an append-only, queryable record
// of committed matches.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"organmatch/internal/ledger/metrics"
	"organmatch/internal/ledger/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
)

var tracer = otel.Tracer("organmatch/internal/ledger")

// Store persists records. Append reports false when the record ID already exists.
type Store interface {
	Append(ctx context.Context, rec *models.Record) (bool, error)
	Query(ctx context.Context, tenantID id.TenantID, f models.Filter) ([]*models.Record, error)
}

// Outbox receives newly appended records for asynchronous publication.
type Outbox interface {
	Enqueue(rec *models.Record) error
}

type Service struct {
	store   Store
	outbox  Outbox
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithOutbox(o Outbox) Option {
	return func(s *Service) {
		s.outbox = o
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append writes rec and returns its ID. Appending a record whose ID is already
// present succeeds without writing, so a retried commit cannot duplicate history.
func (s *Service) Append(ctx context.Context, rec *models.Record) (id.RecordID, error) {
	ctx, span := tracer.Start(ctx, "ledger.Append")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant_id", rec.TenantID.String()),
		attribute.String("record_id", rec.ID.String()),
	)

	if err := rec.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	inserted, err := s.store.Append(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "ledger append timed out")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to append transplant record")
	}
	if !inserted {
		s.metrics.IncrementDuplicate()
		s.logInfo(ctx, "transplant record already present",
			"tenant_id", rec.TenantID, "record_id", rec.ID, "match_id", rec.MatchID)
		return rec.ID, nil
	}

	s.metrics.IncrementAppended()
	s.logInfo(ctx, "transplant record appended",
		"tenant_id", rec.TenantID, "record_id", rec.ID, "match_id", rec.MatchID, "organ", rec.Organ)

	if s.outbox != nil {
		if err := s.outbox.Enqueue(rec); err != nil {
			s.logWarn(ctx, "failed to enqueue transplant record for publication",
				"record_id", rec.ID, "error", err)
		}
	}
	return rec.ID, nil
}

// Query returns the tenant's records matching f, newest commit first.
func (s *Service) Query(ctx context.Context, tenantID id.TenantID, f models.Filter) ([]*models.Record, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if err := f.Normalize(); err != nil {
		return nil, err
	}
	recs, err := s.store.Query(ctx, tenantID, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query transplant records")
	}
	if recs == nil {
		recs = []*models.Record{}
	}
	return recs, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}
