package notes

import (
	"context"
	"sync"
)

// MemoryStore keeps notes in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notes: make(map[string]string)}
}

func (m *MemoryStore) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[key] = value
	return nil
}

func (m *MemoryStore) Read(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.notes[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
