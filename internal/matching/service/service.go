// Package service implements the matching engine: it reserves the most urgent
// waiting recipient against the first compatible available donor, then
// commits or releases that reservation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"

	ledger "organmatch/internal/ledger/models"
	"organmatch/internal/matching/lock"
	"organmatch/internal/matching/metrics"
	"organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/sentinel"
	"organmatch/pkg/requestcontext"
)

var tracer = otel.Tracer("organmatch/internal/matching")

const defaultCommitTimeout = 5 * time.Second

type DonorRegistry interface {
	ListAvailable(ctx context.Context, tenantID id.TenantID) ([]*models.Donor, error)
	Get(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) (*models.Donor, error)
	SetAvailable(ctx context.Context, tenantID id.TenantID, donorID id.DonorID, available bool) error
}

type RecipientRegistry interface {
	ListWaiting(ctx context.Context, tenantID id.TenantID) ([]*models.Recipient, error)
	Get(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) (*models.Recipient, error)
	SetWaiting(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID, waiting bool) error
}

type MatchStore interface {
	Create(ctx context.Context, m *models.Match) error
	FindByID(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error)
	Update(ctx context.Context, m *models.Match) error
	ListByTenant(ctx context.Context, tenantID id.TenantID, state models.MatchState) ([]*models.Match, error)
}

type Ledger interface {
	Append(ctx context.Context, rec *ledger.Record) (id.RecordID, error)
}

type Locker interface {
	Lock(ctx context.Context, tenantID id.TenantID) (lock.Unlock, error)
}

// Engine is safe for concurrent use. Operations on one tenant are serialized
// by the Locker; different tenants proceed independently.
type Engine struct {
	donors        DonorRegistry
	recipients    RecipientRegistry
	matches       MatchStore
	ledger        Ledger
	locker        Locker
	tx            StoreTx
	transactional bool
	commitTimeout time.Duration
	newMatchID    func() id.MatchID
	inflight      singleflight.Group
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLocker replaces the in-process tenant lock, e.g. with a Redis lease lock
// shared by several replicas.
func WithLocker(l Locker) Option {
	return func(e *Engine) {
		if l != nil {
			e.locker = l
		}
	}
}

// WithTx makes the writes of each operation atomic through tx.
func WithTx(tx StoreTx) Option {
	return func(e *Engine) {
		if tx != nil {
			e.tx = tx
			e.transactional = true
		}
	}
}

// WithCommitTimeout bounds the ledger append of Commit.
func WithCommitTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.commitTimeout = d
		}
	}
}

func WithMatchIDGenerator(gen func() id.MatchID) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newMatchID = gen
		}
	}
}

func New(donors DonorRegistry, recipients RecipientRegistry, matches MatchStore, ledger Ledger, opts ...Option) (*Engine, error) {
	switch {
	case donors == nil:
		return nil, errors.New("donor registry is required")
	case recipients == nil:
		return nil, errors.New("recipient registry is required")
	case matches == nil:
		return nil, errors.New("match store is required")
	case ledger == nil:
		return nil, errors.New("ledger is required")
	}
	e := &Engine{
		donors:        donors,
		recipients:    recipients,
		matches:       matches,
		ledger:        ledger,
		locker:        lock.NewInMemory(),
		tx:            directTx{},
		commitTimeout: defaultCommitTimeout,
		newMatchID:    func() id.MatchID { return id.MatchID(uuid.NewString()) },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// GetMatch returns one match of the tenant.
func (e *Engine) GetMatch(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error) {
	if err := requireIDs(tenantID, matchID); err != nil {
		return nil, err
	}
	return e.findMatch(ctx, tenantID, matchID)
}

// ListMatches returns the tenant's matches oldest first, optionally narrowed to one state.
func (e *Engine) ListMatches(ctx context.Context, tenantID id.TenantID, state models.MatchState) ([]*models.Match, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if state != "" {
		if _, err := models.ParseMatchState(string(state)); err != nil {
			return nil, err
		}
	}
	ms, err := e.matches.ListByTenant(ctx, tenantID, state)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list matches")
	}
	if ms == nil {
		ms = []*models.Match{}
	}
	return ms, nil
}

// lockTenant acquires the tenant lock, mapping cancellation to CodeTimeout.
func (e *Engine) lockTenant(ctx context.Context, tenantID id.TenantID) (lock.Unlock, error) {
	start := time.Now()
	unlock, err := e.locker.Lock(ctx, tenantID)
	e.metrics.ObserveLockWait(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for tenant lock")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire tenant lock")
	}
	return unlock, nil
}

func (e *Engine) findMatch(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error) {
	m, err := e.matches.FindByID(ctx, tenantID, matchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "match not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load match")
	}
	return m, nil
}

func requireIDs(tenantID id.TenantID, matchID id.MatchID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if matchID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "match_id is required")
	}
	return nil
}

func now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC().Truncate(time.Second)
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.InfoContext(ctx, msg, args...)
	}
}

func (e *Engine) logWarn(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.WarnContext(ctx, msg, args...)
	}
}

func (e *Engine) logError(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.ErrorContext(ctx, msg, args...)
	}
}
