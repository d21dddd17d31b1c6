package domain

import (
	"strings"

	dErrors "organmatch/pkg/domain-errors"
)

// Identifiers are opaque strings issued by the registration workflow or the
// engine. Distinct named types keep a donor ID from being passed where a
// recipient ID is expected.
type (
	TenantID    string
	DonorID     string
	RecipientID string
	MatchID     string
	RecordID    string
)

const maxIDLength = 128

func parseID(kind, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", dErrors.New(dErrors.CodeValidation, kind+" is required")
	}
	if len(v) > maxIDLength {
		return "", dErrors.New(dErrors.CodeValidation, kind+" must be 128 characters or less")
	}
	return v, nil
}

// ParseTenantID validates a tenant (hospital) identifier at a trust boundary.
func ParseTenantID(raw string) (TenantID, error) {
	v, err := parseID("tenant_id", raw)
	return TenantID(v), err
}

func ParseDonorID(raw string) (DonorID, error) {
	v, err := parseID("donor_id", raw)
	return DonorID(v), err
}

func ParseRecipientID(raw string) (RecipientID, error) {
	v, err := parseID("recipient_id", raw)
	return RecipientID(v), err
}

func ParseMatchID(raw string) (MatchID, error) {
	v, err := parseID("match_id", raw)
	return MatchID(v), err
}

func (id TenantID) String() string    { return string(id) }
func (id DonorID) String() string     { return string(id) }
func (id RecipientID) String() string { return string(id) }
func (id MatchID) String() string     { return string(id) }
func (id RecordID) String() string    { return string(id) }

func (id TenantID) IsNil() bool { return id == "" }
func (id MatchID) IsNil() bool  { return id == "" }
