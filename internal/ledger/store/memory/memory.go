// Package memory is an in-process ledger store for tests and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"organmatch/internal/ledger/models"
	id "organmatch/pkg/domain"
)

type entry struct {
	seq    int64
	record models.Record
}

type Store struct {
	mu      sync.RWMutex
	seq     int64
	byID    map[id.RecordID]struct{}
	entries []entry
}

func New() *Store {
	return &Store{byID: make(map[id.RecordID]struct{})}
}

// Append stores rec unless a record with the same ID exists.
// It reports whether a new record was written.
func (s *Store) Append(_ context.Context, rec *models.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byID[rec.ID]; dup {
		return false, nil
	}
	s.seq++
	s.byID[rec.ID] = struct{}{}
	s.entries = append(s.entries, entry{seq: s.seq, record: *rec})
	return true, nil
}

func (s *Store) Query(_ context.Context, tenantID id.TenantID, f models.Filter) ([]*models.Record, error) {
	s.mu.RLock()
	matched := make([]entry, 0)
	for _, e := range s.entries {
		if e.record.TenantID == tenantID && f.Matches(&e.record) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.record.CommittedAt.Equal(b.record.CommittedAt) {
			return a.record.CommittedAt.After(b.record.CommittedAt)
		}
		return a.seq > b.seq
	})
	lo, hi := f.Page(len(matched))
	matched = matched[lo:hi]
	out := make([]*models.Record, len(matched))
	for i := range matched {
		rec := matched[i].record
		out[i] = &rec
	}
	return out, nil
}
