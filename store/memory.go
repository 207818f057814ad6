package store

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps documents in memory. It is meant for tests and dry runs.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory { return &Memory{docs: make(map[string][]byte)} }

func (m *Memory) Load(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return slices.Clone(data), nil
}

func (m *Memory) Save(_ context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = slices.Clone(data)
	return nil
}

func (m *Memory) Close() error { return nil }
