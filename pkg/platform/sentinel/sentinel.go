// Package sentinel holds the store-level facts that services translate into
// coded domain errors. Stores may wrap them with fmt.Errorf("...: %w").
package sentinel

import "errors"

var (
	// ErrNotFound: no donor, recipient, match or record with that key in the tenant.
	ErrNotFound = errors.New("not found")
	// ErrConflict: duplicate ID, or a second live match for a donor or recipient.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable: the lock service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
