package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"organmatch/internal/matching/models"
	"organmatch/internal/matching/rules"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/sentinel"
)

const outcomeError = "error"

// AttemptMatch reserves the highest priority waiting recipient against the
// first compatible available donor.
//
// Finding nobody waiting, or no compatible donor, is a normal outcome and
// returns a nil error. Errors are reserved for validation and infrastructure
// failures; on error no participant flag has changed.
func (e *Engine) AttemptMatch(ctx context.Context, tenantID id.TenantID) (*models.MatchOutcome, error) {
	ctx, span := tracer.Start(ctx, "matching.AttemptMatch")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID.String()))

	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}

	unlock, err := e.lockTenant(ctx, tenantID)
	if err != nil {
		e.metrics.IncrementAttempt(outcomeError)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer unlock()

	outcome, err := e.attemptLocked(ctx, tenantID)
	if err != nil {
		e.metrics.IncrementAttempt(outcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "attempt failed")
		e.logError(ctx, "match attempt failed", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	e.metrics.IncrementAttempt(string(outcome.Kind))
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))
	if outcome.Matched() {
		span.SetAttributes(attribute.String("match_id", outcome.Match.ID.String()))
		e.logInfo(ctx, "match reserved",
			"tenant_id", tenantID,
			"match_id", outcome.Match.ID,
			"donor_id", outcome.Match.DonorID,
			"recipient_id", outcome.Match.RecipientID,
			"organ", outcome.Match.Organ,
		)
	} else {
		e.logInfo(ctx, "no match made", "tenant_id", tenantID, "outcome", outcome.Kind, "recipient_id", outcome.RecipientID)
	}
	return outcome, nil
}

func (e *Engine) attemptLocked(ctx context.Context, tenantID id.TenantID) (*models.MatchOutcome, error) {
	waiting, err := e.recipients.ListWaiting(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list waiting recipients")
	}
	recipient, ok := rules.SelectNextRecipient(waiting)
	if !ok {
		return &models.MatchOutcome{Kind: models.OutcomeNoRecipientWaiting}, nil
	}

	available, err := e.donors.ListAvailable(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list available donors")
	}
	donor, ok := rules.FindCompatibleDonor(recipient, available)
	if !ok {
		return &models.MatchOutcome{Kind: models.OutcomeNoCompatibleDonor, RecipientID: recipient.ID}, nil
	}

	m := models.NewReservedMatch(e.newMatchID(), donor, recipient, now(ctx))
	if err := e.reserve(ctx, m); err != nil {
		return nil, err
	}
	return &models.MatchOutcome{Kind: models.OutcomeMatched, Match: m, RecipientID: recipient.ID}, nil
}

// reserve flips both participants and stores the match as one unit.
func (e *Engine) reserve(ctx context.Context, m *models.Match) error {
	var donorFlipped, recipientFlipped bool
	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.donors.SetAvailable(ctx, m.TenantID, m.DonorID, false); err != nil {
			return reservationErr("donor", err)
		}
		donorFlipped = true
		if err := e.recipients.SetWaiting(ctx, m.TenantID, m.RecipientID, false); err != nil {
			return reservationErr("recipient", err)
		}
		recipientFlipped = true
		if err := e.matches.Create(ctx, m); err != nil {
			return reservationErr("match", err)
		}
		return nil
	})
	if err != nil && !e.transactional {
		e.compensateReserve(ctx, m, donorFlipped, recipientFlipped)
	}
	return err
}

func (e *Engine) compensateReserve(ctx context.Context, m *models.Match, donorFlipped, recipientFlipped bool) {
	if recipientFlipped {
		if err := e.recipients.SetWaiting(ctx, m.TenantID, m.RecipientID, true); err != nil {
			e.logWarn(ctx, "failed to restore recipient after aborted reservation",
				"tenant_id", m.TenantID, "recipient_id", m.RecipientID, "error", err)
		}
	}
	if donorFlipped {
		if err := e.donors.SetAvailable(ctx, m.TenantID, m.DonorID, true); err != nil {
			e.logWarn(ctx, "failed to restore donor after aborted reservation",
				"tenant_id", m.TenantID, "donor_id", m.DonorID, "error", err)
		}
	}
}

// reservationErr maps store facts seen while reserving. A participant that
// vanished or a live match that already holds it means the registries changed
// underneath the attempt; the caller may simply try again.
func reservationErr(what string, err error) error {
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, what+" changed during reservation")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reserve "+what)
}
