package best

import (
	"context"
	"sync"
)

// memory is an in-memory map-based Store implementation.
// State is lost when the process restarts.
type memory struct {
	mu      sync.RWMutex
	entries map[string]string // keyed by playerID + "\x00" + name
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{entries: make(map[string]string)}
}

func memKey(playerID, name string) string { return playerID + "\x00" + name }

func (m *memory) Get(_ context.Context, playerID, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.entries[memKey(playerID, name)]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *memory) Set(_ context.Context, playerID, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(playerID, name)] = value
	return nil
}

func (m *memory) Delete(_ context.Context, playerID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, memKey(playerID, name))
	return nil
}
