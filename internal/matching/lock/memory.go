// Package lock serializes the reserve and commit critical sections per tenant.
// Different tenants never contend on the same lock.
package lock

import (
	"context"
	"sync"

	id "organmatch/pkg/domain"
)

// Unlock releases a held tenant lock. It is safe to call once.
type Unlock func()

// InMemory hands out one mutex per tenant. It is correct for a single process;
// use Redis when several replicas share a store.
type InMemory struct {
	mu    sync.Mutex
	locks map[id.TenantID]chan struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{locks: make(map[id.TenantID]chan struct{})}
}

// Lock blocks until the tenant lock is held or ctx is done.
func (l *InMemory) Lock(ctx context.Context, tenantID id.TenantID) (Unlock, error) {
	sem := l.semaphore(tenantID)
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-sem })
	}, nil
}

func (l *InMemory) semaphore(tenantID id.TenantID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.locks[tenantID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[tenantID] = sem
	}
	return sem
}
