package models

import (
	"time"

	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
)

// MatchState is the lifecycle state of a donor/recipient reservation.
//
//	reserved --commit--> committed (terminal)
//	reserved --release-> released  (terminal)
type MatchState string

const (
	MatchStateReserved  MatchState = "reserved"
	MatchStateCommitted MatchState = "committed"
	MatchStateReleased  MatchState = "released"
)

func ParseMatchState(s string) (MatchState, error) {
	switch MatchState(s) {
	case MatchStateReserved, MatchStateCommitted, MatchStateReleased:
		return MatchState(s), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "state: unsupported value "+s)
}

// IsLive reports whether the state still holds the donor and recipient.
func (s MatchState) IsLive() bool {
	return s == MatchStateReserved || s == MatchStateCommitted
}

// Match is the pairing of one donor with one recipient.
//
// Invariants:
//   - at most one live match references a given donor or recipient
//   - only reserved matches transition; committed and released are terminal
//   - Recorded is true once the ledger holds RecordID for a committed match
type Match struct {
	ID          id.MatchID     `json:"id"`
	TenantID    id.TenantID    `json:"tenant_id"`
	DonorID     id.DonorID     `json:"donor_id"`
	RecipientID id.RecipientID `json:"recipient_id"`
	// Snapshot taken at reservation; the ledger record is built from it so a
	// retried commit does not depend on the registries still holding both people.
	DonorName     string      `json:"donor_name"`
	RecipientName string      `json:"recipient_name"`
	Organ         Organ       `json:"organ"`
	State         MatchState  `json:"state"`
	CreatedAt     time.Time   `json:"created_at"`
	CommittedAt   *time.Time  `json:"committed_at,omitempty"`
	ReleasedAt    *time.Time  `json:"released_at,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	RecordID      id.RecordID `json:"record_id,omitempty"`
	Recorded      bool        `json:"recorded"`
}

// NewReservedMatch creates the reservation produced by a successful attempt.
func NewReservedMatch(matchID id.MatchID, d *Donor, r *Recipient, now time.Time) *Match {
	return &Match{
		ID:            matchID,
		TenantID:      d.TenantID,
		DonorID:       d.ID,
		RecipientID:   r.ID,
		DonorName:     d.Name,
		RecipientName: r.Name,
		Organ:         d.Medical.Organ,
		State:         MatchStateReserved,
		CreatedAt:     now.UTC().Truncate(time.Second),
	}
}

// CanCommit checks the reserved -> committed transition.
// A committed match reports CodeAlreadyCommitted; a released one CodeStaleMatch,
// since its donor and recipient may already be held by another reservation.
func (m *Match) CanCommit() error {
	switch m.State {
	case MatchStateReserved:
		return nil
	case MatchStateCommitted:
		return dErrors.New(dErrors.CodeAlreadyCommitted, "match is already committed")
	default:
		return dErrors.New(dErrors.CodeStaleMatch, "match was released")
	}
}

// ApplyCommit transitions to committed. Call CanCommit first.
func (m *Match) ApplyCommit(recordID id.RecordID, notes string, now time.Time) {
	t := now.UTC().Truncate(time.Second)
	m.State = MatchStateCommitted
	m.CommittedAt = &t
	m.Notes = notes
	m.RecordID = recordID
}

// CanRelease checks the reserved -> released transition.
func (m *Match) CanRelease() error {
	if m.State == MatchStateCommitted {
		return dErrors.New(dErrors.CodeAlreadyCommitted, "match is already committed")
	}
	return nil
}

// ApplyRelease transitions to released. Call CanRelease first.
func (m *Match) ApplyRelease(now time.Time) {
	t := now.UTC().Truncate(time.Second)
	m.State = MatchStateReleased
	m.ReleasedAt = &t
}

// OutcomeKind is the result of one match attempt. The two "no" kinds are
// routine and carry no error.
type OutcomeKind string

const (
	OutcomeMatched            OutcomeKind = "matched"
	OutcomeNoRecipientWaiting OutcomeKind = "no_recipient_waiting"
	OutcomeNoCompatibleDonor  OutcomeKind = "no_compatible_donor"
)

// MatchOutcome reports what AttemptMatch did. Match is set only for OutcomeMatched;
// RecipientID is set whenever a recipient was selected.
type MatchOutcome struct {
	Kind        OutcomeKind    `json:"outcome"`
	Match       *Match         `json:"match,omitempty"`
	RecipientID id.RecipientID `json:"recipient_id,omitempty"`
}

func (o *MatchOutcome) Matched() bool {
	return o != nil && o.Kind == OutcomeMatched
}
