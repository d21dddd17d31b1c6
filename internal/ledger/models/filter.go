package models

import (
	"strings"
	"time"

	matching "organmatch/internal/matching/models"
	dErrors "organmatch/pkg/domain-errors"
)

// Filter narrows a ledger query. Zero values mean "any"; set criteria are ANDed.
type Filter struct {
	Donor     string
	Recipient string
	Organ     matching.Organ
	// Date selects one UTC calendar day of CommittedAt.
	Date  *time.Time
	Year  int
	Month int
	// Search matches donor id/name, recipient id/name or organ.
	Search string
	// Limit caps the page size; zero returns every matching record.
	Limit int
	// Offset skips that many records of the newest-first ordering.
	Offset int
}

// Normalize trims the text criteria and validates the rest.
func (f *Filter) Normalize() error {
	f.Donor = strings.TrimSpace(f.Donor)
	f.Recipient = strings.TrimSpace(f.Recipient)
	f.Search = strings.TrimSpace(f.Search)
	if f.Organ != "" && !f.Organ.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "organ: unsupported value "+string(f.Organ))
	}
	if f.Month != 0 && f.Year == 0 {
		return dErrors.New(dErrors.CodeValidation, "month requires year")
	}
	if f.Month < 0 || f.Month > 12 {
		return dErrors.New(dErrors.CodeValidation, "month must be between 1 and 12")
	}
	if f.Year < 0 || f.Year > 9999 {
		return dErrors.New(dErrors.CodeValidation, "year is out of range")
	}
	if f.Limit < 0 {
		return dErrors.New(dErrors.CodeValidation, "limit must not be negative")
	}
	if f.Offset < 0 {
		return dErrors.New(dErrors.CodeValidation, "offset must not be negative")
	}
	return nil
}

// Page applies Offset and Limit to n ordered results and returns the
// [lo, hi) slice bounds.
func (f Filter) Page(n int) (lo, hi int) {
	lo = min(max(f.Offset, 0), n)
	hi = n
	if f.Limit > 0 {
		hi = min(lo+f.Limit, n)
	}
	return lo, hi
}

// Window returns the half-open [from, to) CommittedAt range implied by Date,
// Year and Month. ok is false when no time criterion is set. Contradictory
// criteria yield an empty window (from >= to).
func (f Filter) Window() (from, to time.Time, ok bool) {
	if f.Date != nil {
		d := f.Date.UTC()
		from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 0, 1)
		ok = true
	}
	if f.Year != 0 {
		var yFrom, yTo time.Time
		if f.Month != 0 {
			yFrom = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
			yTo = yFrom.AddDate(0, 1, 0)
		} else {
			yFrom = time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
			yTo = yFrom.AddDate(1, 0, 0)
		}
		if !ok {
			from, to, ok = yFrom, yTo, true
		} else {
			if yFrom.After(from) {
				from = yFrom
			}
			if yTo.Before(to) {
				to = yTo
			}
		}
	}
	return from, to, ok
}

// Matches applies the filter to a single record. Durable stores push the
// same predicates down into SQL.
func (f Filter) Matches(r *Record) bool {
	if !matchesParticipant(f.Donor, r.DonorID.String(), r.DonorName) {
		return false
	}
	if !matchesParticipant(f.Recipient, r.RecipientID.String(), r.RecipientName) {
		return false
	}
	if f.Organ != "" && r.Organ != f.Organ {
		return false
	}
	if from, to, ok := f.Window(); ok {
		if r.CommittedAt.Before(from) || !r.CommittedAt.Before(to) {
			return false
		}
	}
	if f.Search != "" {
		if !matchesParticipant(f.Search, r.DonorID.String(), r.DonorName) &&
			!matchesParticipant(f.Search, r.RecipientID.String(), r.RecipientName) &&
			!strings.Contains(strings.ToLower(string(r.Organ)), strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}
