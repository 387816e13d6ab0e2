package statestore

import (
	"context"
	"sync"
)

// memoryKV is an in-memory backend, safe for concurrent use. Data is lost on
// restart; it is the default backend and the one tests run against.
type memoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a store over an in-memory backend.
func NewMemoryStore() *Store {
	return &Store{backend: &memoryKV{values: make(map[string]string)}}
}

func (m *memoryKV) get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *memoryKV) delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *memoryKV) close() error {
	return nil
}
