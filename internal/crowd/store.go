package crowd

import (
	"sync"

	"github.com/example/omnipath/internal/models"
)

// Store holds the latest crowd sample per station.
type Store interface {
	Get(stationID string) (*models.CrowdSample, bool)
	Put(sample *models.CrowdSample) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	samples map[string]*models.CrowdSample
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{samples: make(map[string]*models.CrowdSample)}
}

func (m *MemoryStore) Get(stationID string) (*models.CrowdSample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.samples[stationID]
	if !ok {
		return nil, false
	}
	cp := *s
	cp.Contributors = append([]models.Contributor(nil), s.Contributors...)
	return &cp, true
}

func (m *MemoryStore) Put(sample *models.CrowdSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sample
	cp.Contributors = append([]models.Contributor(nil), sample.Contributors...)
	m.samples[sample.StationID] = &cp
	return nil
}
