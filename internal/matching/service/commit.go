package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	ledger "organmatch/internal/ledger/models"
	"organmatch/internal/matching/metrics"
	"organmatch/internal/matching/models"
	"organmatch/internal/matching/rules"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/sentinel"
)

const maxNotesLength = 4000

// errLedgerAppend marks failures that happened after the match was committed.
var errLedgerAppend = errors.New("ledger append")

// Commit finalizes a reserved match and appends it to the transplant ledger.
//
// The state change happens under the tenant lock; the ledger append happens
// after the lock is released, bounded by the commit timeout. If the append
// fails the match stays committed but unrecorded, and calling Commit again
// re-appends the same record (appends are idempotent on the record ID).
// Once recorded, further calls return CodeAlreadyCommitted, as do calls that
// arrive while another commit of the same match is in flight on this engine.
func (e *Engine) Commit(ctx context.Context, tenantID id.TenantID, matchID id.MatchID, notes string) (*ledger.Record, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "matching.Commit")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("match_id", matchID.String()),
	)

	rec, err := e.commit(ctx, tenantID, matchID, notes)
	result := commitResult(err)
	e.metrics.ObserveCommit(result, start)
	span.SetAttributes(attribute.String("result", result))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if result == metrics.CommitResultError || result == metrics.CommitResultLedgerFailed {
			e.logError(ctx, "commit failed", "tenant_id", tenantID, "match_id", matchID, "error", err)
		}
		return nil, err
	}
	e.logInfo(ctx, "match committed",
		"tenant_id", tenantID,
		"match_id", matchID,
		"record_id", rec.ID,
	)
	return rec, nil
}

func (e *Engine) commit(ctx context.Context, tenantID id.TenantID, matchID id.MatchID, notes string) (*ledger.Record, error) {
	if err := requireIDs(tenantID, matchID); err != nil {
		return nil, err
	}
	if len(notes) > maxNotesLength {
		return nil, dErrors.New(dErrors.CodeValidation, "notes must be 4000 characters or less")
	}

	var leader bool
	v, err, _ := e.inflight.Do(tenantID.String()+"/"+matchID.String(), func() (any, error) {
		leader = true
		return e.commitAndRecord(ctx, tenantID, matchID, notes)
	})
	if !leader {
		if err != nil {
			return nil, err
		}
		return nil, dErrors.New(dErrors.CodeAlreadyCommitted, "match is already committed")
	}
	if err != nil {
		return nil, err
	}
	return v.(*ledger.Record), nil
}

// commitAndRecord runs at most once at a time per match on this engine.
func (e *Engine) commitAndRecord(ctx context.Context, tenantID id.TenantID, matchID id.MatchID, notes string) (*ledger.Record, error) {
	m, err := e.transitionToCommitted(ctx, tenantID, matchID, notes)
	if err != nil {
		return nil, err
	}

	rec := ledger.NewRecord(m)
	appendCtx, cancel := context.WithTimeout(ctx, e.commitTimeout)
	defer cancel()
	if _, err := e.ledger.Append(appendCtx, rec); err != nil {
		cause := fmt.Errorf("%w: %w", errLedgerAppend, err)
		if appendCtx.Err() != nil || dErrors.HasCode(err, dErrors.CodeTimeout) {
			return nil, dErrors.Wrap(cause, dErrors.CodeTimeout, "match committed but ledger append timed out; retry commit")
		}
		return nil, dErrors.Wrap(cause, dErrors.CodeInternal, "match committed but ledger append failed; retry commit")
	}

	e.markRecorded(ctx, tenantID, matchID)
	return rec, nil
}

// transitionToCommitted validates the match and its participants and stores the
// committed state. A committed but unrecorded match is returned unchanged so
// the caller can finish its ledger append.
func (e *Engine) transitionToCommitted(ctx context.Context, tenantID id.TenantID, matchID id.MatchID, notes string) (*models.Match, error) {
	unlock, err := e.lockTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	m, err := e.findMatch(ctx, tenantID, matchID)
	if err != nil {
		return nil, err
	}
	if m.State == models.MatchStateCommitted && !m.Recorded {
		return m, nil
	}
	if err := m.CanCommit(); err != nil {
		return nil, err
	}
	if err := e.verifyParticipants(ctx, m); err != nil {
		return nil, err
	}

	m.ApplyCommit(ledger.RecordIDFor(tenantID, matchID), notes, now(ctx))
	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		return e.matches.Update(ctx, m)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit match")
	}
	return m, nil
}

// verifyParticipants re-checks that both people still exist and still match.
// The match itself is left reserved on failure; the caller should release it.
func (e *Engine) verifyParticipants(ctx context.Context, m *models.Match) error {
	donor, err := e.donors.Get(ctx, m.TenantID, m.DonorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeStaleMatch, "donor is no longer registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	recipient, err := e.recipients.Get(ctx, m.TenantID, m.RecipientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeStaleMatch, "recipient is no longer registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recipient")
	}
	if !rules.IsCompatible(donor, recipient) {
		return dErrors.New(dErrors.CodeStaleMatch, "donor and recipient are no longer compatible")
	}
	return nil
}

// markRecorded flags the match once its record is in the ledger. Failure only
// means a later Commit call re-appends a record that already exists.
func (e *Engine) markRecorded(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) {
	unlock, err := e.lockTenant(ctx, tenantID)
	if err != nil {
		e.logWarn(ctx, "could not mark match recorded", "match_id", matchID, "error", err)
		return
	}
	defer unlock()

	m, err := e.findMatch(ctx, tenantID, matchID)
	if err != nil {
		e.logWarn(ctx, "could not mark match recorded", "match_id", matchID, "error", err)
		return
	}
	if m.Recorded {
		return
	}
	m.Recorded = true
	if err := e.matches.Update(ctx, m); err != nil {
		e.logWarn(ctx, "could not mark match recorded", "match_id", matchID, "error", err)
	}
}

func commitResult(err error) string {
	switch {
	case err == nil:
		return metrics.CommitResultCommitted
	case dErrors.HasCode(err, dErrors.CodeAlreadyCommitted):
		return metrics.CommitResultAlreadyCommitted
	case dErrors.HasCode(err, dErrors.CodeStaleMatch):
		return metrics.CommitResultStale
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return metrics.CommitResultNotFound
	case errors.Is(err, errLedgerAppend):
		return metrics.CommitResultLedgerFailed
	default:
		return metrics.CommitResultError
	}
}
