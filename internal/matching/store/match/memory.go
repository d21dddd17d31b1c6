package match

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

type key struct {
	tenant id.TenantID
	match  id.MatchID
}

// InMemory stores matches and enforces the one-live-match-per-participant
// rule the postgres schema enforces with partial unique indexes.
type InMemory struct {
	mu      sync.RWMutex
	matches map[key]*models.Match
}

func NewInMemory() *InMemory {
	return &InMemory{matches: make(map[key]*models.Match)}
}

func (s *InMemory) Create(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{m.TenantID, m.ID}
	if _, exists := s.matches[k]; exists {
		return fmt.Errorf("match %s: %w", m.ID, sentinel.ErrConflict)
	}
	if err := s.checkLive(m); err != nil {
		return err
	}
	cp := *m
	s.matches[k] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[key{tenantID, matchID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{m.TenantID, m.ID}
	if _, ok := s.matches[k]; !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkLive(m); err != nil {
		return err
	}
	cp := *m
	s.matches[k] = &cp
	return nil
}

// ListByTenant returns matches oldest first; an empty state lists all.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, state models.MatchState) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Match
	for k, m := range s.matches {
		if k.tenant != tenantID || (state != "" && m.State != state) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemory) checkLive(m *models.Match) error {
	if !m.State.IsLive() {
		return nil
	}
	for k, other := range s.matches {
		if k.tenant != m.TenantID || other.ID == m.ID || !other.State.IsLive() {
			continue
		}
		if other.DonorID == m.DonorID || other.RecipientID == m.RecipientID {
			return fmt.Errorf("live match %s already holds participant: %w", other.ID, sentinel.ErrConflict)
		}
	}
	return nil
}
