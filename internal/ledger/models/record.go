package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	matching "organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
)

// recordNamespace scopes deterministic record IDs derived from match IDs.
var recordNamespace = uuid.MustParse("5b0b6a43-3c52-4c4e-9a43-7d0f0c5e2a61")

// RecordIDFor derives the ledger record ID for a match. Retried commits of the
// same match always produce the same ID, which makes appends idempotent.
func RecordIDFor(tenantID id.TenantID, matchID id.MatchID) id.RecordID {
	return id.RecordID(uuid.NewSHA1(recordNamespace, []byte(tenantID.String()+"/"+matchID.String())).String())
}

// Record is one committed transplant. Records are append-only.
type Record struct {
	ID            id.RecordID    `json:"id"`
	TenantID      id.TenantID    `json:"tenant_id"`
	MatchID       id.MatchID     `json:"match_id"`
	DonorID       id.DonorID     `json:"donor_id"`
	DonorName     string         `json:"donor_name"`
	RecipientID   id.RecipientID `json:"recipient_id"`
	RecipientName string         `json:"recipient_name"`
	Organ         matching.Organ `json:"organ"`
	MatchedAt     time.Time      `json:"matched_at"`
	CommittedAt   time.Time      `json:"committed_at"`
	Notes         string         `json:"notes,omitempty"`
}

// NewRecord builds the ledger entry for a committed match.
func NewRecord(m *matching.Match) *Record {
	rec := &Record{
		ID:            RecordIDFor(m.TenantID, m.ID),
		TenantID:      m.TenantID,
		MatchID:       m.ID,
		DonorID:       m.DonorID,
		DonorName:     m.DonorName,
		RecipientID:   m.RecipientID,
		RecipientName: m.RecipientName,
		Organ:         m.Organ,
		MatchedAt:     m.CreatedAt,
		Notes:         m.Notes,
	}
	if m.CommittedAt != nil {
		rec.CommittedAt = *m.CommittedAt
	}
	return rec
}

func (r *Record) Validate() error {
	switch {
	case r.ID == "":
		return dErrors.New(dErrors.CodeValidation, "id is required")
	case r.TenantID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	case r.MatchID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "match_id is required")
	case r.DonorID == "":
		return dErrors.New(dErrors.CodeValidation, "donor_id is required")
	case r.RecipientID == "":
		return dErrors.New(dErrors.CodeValidation, "recipient_id is required")
	case !r.Organ.IsValid():
		return dErrors.New(dErrors.CodeValidation, "organ: unsupported value "+string(r.Organ))
	case r.CommittedAt.IsZero():
		return dErrors.New(dErrors.CodeValidation, "committed_at is required")
	}
	return nil
}

// matchesParticipant is true when q is a case-sensitive substring of the ID or
// a case-insensitive substring of the name.
func matchesParticipant(q, participantID, name string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(participantID, q) ||
		strings.Contains(strings.ToLower(name), strings.ToLower(q))
}
