package models

import (
	"fmt"

	dErrors "organmatch/pkg/domain-errors"
)

// Urgency is the recipient's priority class. The ordinal drives ranking:
// Critical > High > Medium > Low.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

var urgencyNames = [...]string{"Low", "Medium", "High", "Critical"}

func ParseUrgency(s string) (Urgency, error) {
	for i, name := range urgencyNames {
		if name == s {
			return Urgency(i), nil
		}
	}
	return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("urgency: unsupported value %q", s))
}

func (u Urgency) IsValid() bool {
	return u >= UrgencyLow && u <= UrgencyCritical
}

func (u Urgency) String() string {
	if !u.IsValid() {
		return fmt.Sprintf("Urgency(%d)", int(u))
	}
	return urgencyNames[u]
}

func (u Urgency) MarshalText() ([]byte, error) {
	if !u.IsValid() {
		return nil, fmt.Errorf("invalid urgency %d", int(u))
	}
	return []byte(urgencyNames[u]), nil
}

func (u *Urgency) UnmarshalText(b []byte) error {
	v, err := ParseUrgency(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
