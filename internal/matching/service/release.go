package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/sentinel"
)

// ReleaseMatch cancels a reserved match and returns its donor and recipient
// to the pools. Releasing an already released match is a no-op; a committed
// match cannot be released.
func (e *Engine) ReleaseMatch(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error) {
	ctx, span := tracer.Start(ctx, "matching.ReleaseMatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("match_id", matchID.String()),
	)

	if err := requireIDs(tenantID, matchID); err != nil {
		return nil, err
	}
	unlock, err := e.lockTenant(ctx, tenantID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer unlock()

	m, err := e.findMatch(ctx, tenantID, matchID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if m.State == models.MatchStateReleased {
		return m, nil
	}
	if err := m.CanRelease(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	before := *m
	m.ApplyRelease(now(ctx))
	var restored restoredFlags
	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.matches.Update(ctx, m); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release match")
		}
		var err error
		if restored.donor, err = e.restoreDonor(ctx, m); err != nil {
			return err
		}
		if restored.recipient, err = e.restoreRecipient(ctx, m); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if !e.transactional {
			e.compensateRelease(ctx, &before, restored)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "release failed")
		e.logError(ctx, "match release failed", "tenant_id", tenantID, "match_id", matchID, "error", err)
		return nil, err
	}

	e.metrics.IncrementReleased()
	e.logInfo(ctx, "match released",
		"tenant_id", tenantID,
		"match_id", matchID,
		"donor_id", m.DonorID,
		"recipient_id", m.RecipientID,
	)
	return m, nil
}

type restoredFlags struct {
	donor, recipient bool
}

// restoreDonor makes the donor available again. A donor removed from the
// registry while reserved has nothing to restore.
func (e *Engine) restoreDonor(ctx context.Context, m *models.Match) (bool, error) {
	err := e.donors.SetAvailable(ctx, m.TenantID, m.DonorID, true)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore donor")
	}
	return true, nil
}

func (e *Engine) restoreRecipient(ctx context.Context, m *models.Match) (bool, error) {
	err := e.recipients.SetWaiting(ctx, m.TenantID, m.RecipientID, true)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore recipient")
	}
	return true, nil
}

// compensateRelease puts the match and any restored flag back as they were.
func (e *Engine) compensateRelease(ctx context.Context, before *models.Match, restored restoredFlags) {
	if restored.recipient {
		if err := e.recipients.SetWaiting(ctx, before.TenantID, before.RecipientID, false); err != nil {
			e.logWarn(ctx, "failed to undo recipient restore", "match_id", before.ID, "error", err)
		}
	}
	if restored.donor {
		if err := e.donors.SetAvailable(ctx, before.TenantID, before.DonorID, false); err != nil {
			e.logWarn(ctx, "failed to undo donor restore", "match_id", before.ID, "error", err)
		}
	}
	if err := e.matches.Update(ctx, before); err != nil {
		e.logWarn(ctx, "failed to restore reserved match", "match_id", before.ID, "error", err)
	}
}
