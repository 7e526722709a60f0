package storage

import (
	"sync"

	"github.com/example/omnipath/internal/models"
)

type MemoryPoolStore struct {
	mu    sync.RWMutex
	pools map[string]*models.Pool
}

func NewMemoryPoolStore() *MemoryPoolStore {
	return &MemoryPoolStore{pools: make(map[string]*models.Pool)}
}

func (m *MemoryPoolStore) Get(id string) (*models.Pool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pools[id]
	if !ok {
		return nil, false
	}
	cp := clonePool(p)
	return cp, true
}

func (m *MemoryPoolStore) Put(p *models.Pool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[p.ID] = clonePool(p)
	return nil
}

func (m *MemoryPoolStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pools, id)
	return nil
}

func (m *MemoryPoolStore) List() []*models.Pool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Pool, 0, len(m.pools))
	for _, p := range m.pools {
		out = append(out, clonePool(p))
	}
	return out
}

// clonePool copies the pool and its member slice so callers can mutate
// their copy without racing the store.
func clonePool(p *models.Pool) *models.Pool {
	cp := *p
	cp.Members = append([]models.PoolMember(nil), p.Members...)
	if p.Vehicle != nil {
		v := *p.Vehicle
		cp.Vehicle = &v
	}
	return &cp
}
