package zonestore

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory zone store for tests and one-shot runs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	zones  map[string]Record
	closed bool
	now    func() time.Time
}

// NewMemoryStore creates a new in-memory zone store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		zones: make(map[string]Record),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Put implements Store.
func (m *MemoryStore) Put(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	rec.UpdatedAt = m.now()
	m.zones[rec.ID] = rec
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}

	rec, ok := m.zones[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	recs := make([]Record, 0, len(m.zones))
	for _, rec := range m.zones {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ID < recs[j].ID
	})
	return recs, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if _, ok := m.zones[id]; !ok {
		return ErrNotFound
	}
	delete(m.zones, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.zones = nil
	return nil
}

// Len returns the number of stored zones (for testing).
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.zones)
}
