package donor

import (
	"context"
	"fmt"
	"sync"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/registry/models"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

// InMemory keeps donors per tenant in registration order. Reads return copies
// so callers cannot mutate registry state behind the engine's back.
type InMemory struct {
	mu      sync.RWMutex
	tenants map[id.TenantID]*tenantDonors
}

type tenantDonors struct {
	order []id.DonorID
	byID  map[id.DonorID]*matching.Donor
}

func NewInMemory() *InMemory {
	return &InMemory{tenants: make(map[id.TenantID]*tenantDonors)}
}

func (s *InMemory) tenant(tenantID id.TenantID, create bool) *tenantDonors {
	t, ok := s.tenants[tenantID]
	if !ok && create {
		t = &tenantDonors{byID: make(map[id.DonorID]*matching.Donor)}
		s.tenants[tenantID] = t
	}
	return t
}

// Create registers a donor. Returns sentinel.ErrConflict for a duplicate ID.
func (s *InMemory) Create(_ context.Context, d *matching.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tenant(d.TenantID, true)
	if _, exists := t.byID[d.ID]; exists {
		return fmt.Errorf("donor %s: %w", d.ID, sentinel.ErrConflict)
	}
	cp := *d
	t.byID[d.ID] = &cp
	t.order = append(t.order, d.ID)
	return nil
}

func (s *InMemory) Get(_ context.Context, tenantID id.TenantID, donorID id.DonorID) (*matching.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tenant(tenantID, false)
	if t == nil {
		return nil, sentinel.ErrNotFound
	}
	d, ok := t.byID[donorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// ListAvailable returns available donors in registration order.
func (s *InMemory) ListAvailable(ctx context.Context, tenantID id.TenantID) ([]*matching.Donor, error) {
	return s.List(ctx, tenantID, models.DonorFilter{AvailableOnly: true})
}

func (s *InMemory) List(_ context.Context, tenantID id.TenantID, filter models.DonorFilter) ([]*matching.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tenant(tenantID, false)
	if t == nil {
		return nil, nil
	}
	out := make([]*matching.Donor, 0, len(t.order))
	for _, donorID := range t.order {
		d := t.byID[donorID]
		if !filter.Matches(d) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) SetAvailable(_ context.Context, tenantID id.TenantID, donorID id.DonorID, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tenant(tenantID, false)
	if t == nil {
		return sentinel.ErrNotFound
	}
	d, ok := t.byID[donorID]
	if !ok {
		return sentinel.ErrNotFound
	}
	d.Available = available
	return nil
}

// Remove deletes a donor once the registration workflow has consumed it.
func (s *InMemory) Remove(_ context.Context, tenantID id.TenantID, donorID id.DonorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tenant(tenantID, false)
	if t == nil {
		return sentinel.ErrNotFound
	}
	if _, ok := t.byID[donorID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(t.byID, donorID)
	for i, v := range t.order {
		if v == donorID {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}
