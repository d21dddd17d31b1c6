package recipient

import (
	"context"
	"fmt"
	"sync"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/registry/models"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

// InMemory keeps each tenant's waiting list in registration order.
type InMemory struct {
	mu      sync.RWMutex
	tenants map[id.TenantID]*waitlist
}

type waitlist struct {
	order []id.RecipientID
	byID  map[id.RecipientID]*matching.Recipient
}

func NewInMemory() *InMemory {
	return &InMemory{tenants: make(map[id.TenantID]*waitlist)}
}

func (s *InMemory) lookup(tenantID id.TenantID, recipientID id.RecipientID) (*matching.Recipient, bool) {
	w, ok := s.tenants[tenantID]
	if !ok {
		return nil, false
	}
	r, ok := w.byID[recipientID]
	return r, ok
}

// Create adds a recipient. Returns sentinel.ErrConflict for a duplicate ID.
func (s *InMemory) Create(_ context.Context, r *matching.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.tenants[r.TenantID]
	if !ok {
		w = &waitlist{byID: make(map[id.RecipientID]*matching.Recipient)}
		s.tenants[r.TenantID] = w
	}
	if _, exists := w.byID[r.ID]; exists {
		return fmt.Errorf("recipient %s: %w", r.ID, sentinel.ErrConflict)
	}
	cp := *r
	w.byID[r.ID] = &cp
	w.order = append(w.order, r.ID)
	return nil
}

func (s *InMemory) Get(_ context.Context, tenantID id.TenantID, recipientID id.RecipientID) (*matching.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.lookup(tenantID, recipientID)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) ListWaiting(ctx context.Context, tenantID id.TenantID) ([]*matching.Recipient, error) {
	return s.List(ctx, tenantID, models.RecipientFilter{WaitingOnly: true})
}

func (s *InMemory) List(_ context.Context, tenantID id.TenantID, filter models.RecipientFilter) ([]*matching.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.tenants[tenantID]
	if !ok {
		return nil, nil
	}
	out := make([]*matching.Recipient, 0, len(w.order))
	for _, rid := range w.order {
		r := w.byID[rid]
		if !filter.Matches(r) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) SetWaiting(_ context.Context, tenantID id.TenantID, recipientID id.RecipientID, waiting bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.lookup(tenantID, recipientID)
	if !ok {
		return sentinel.ErrNotFound
	}
	r.Waiting = waiting
	return nil
}

func (s *InMemory) Remove(_ context.Context, tenantID id.TenantID, recipientID id.RecipientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.tenants[tenantID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := w.byID[recipientID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(w.byID, recipientID)
	for i, v := range w.order {
		if v == recipientID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}
