// internal/session/memory.go
//
// In-memory store of per-player widget state.
//
// Characteristics:
//   - Stores *Player objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle players are evicted by Sweep; their game timers are stopped.
//   - State is lost when the process restarts (the best score is not; it
//     lives in the best package).

package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for unknown player IDs.
var ErrNotFound = errors.New("session: player not found")

// Store defines the persistence interface for player sessions.
type Store interface {
	// Save adds or replaces a player.
	Save(ctx context.Context, p *Player) error

	// Get retrieves a player by ID and marks it as seen.
	// Returns ErrNotFound if the player is unknown.
	Get(ctx context.Context, id string) (*Player, error)

	// GetOrCreate returns the player for id, calling build only when it is
	// unknown. Concurrent callers for one id all get the same player.
	GetOrCreate(ctx context.Context, id string, build func() (*Player, error)) (*Player, error)

	// Delete removes a player and stops its timers.
	Delete(ctx context.Context, id string) error

	// Sweep evicts players not seen for ttl and reports how many went.
	// Players with a live game subscriber are kept.
	Sweep(ttl time.Duration) int

	// Close stops every player's timers.
	Close()
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	players map[string]*Player
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{players: make(map[string]*Player), now: time.Now}
}

func (m *memory) Save(_ context.Context, p *Player) error {
	if p == nil || p.ID == "" {
		return errors.New("session: player without ID")
	}
	p.Touch(m.now())
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.players[p.ID]; ok && old != p {
		old.Close()
	}
	m.players[p.ID] = p
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*Player, error) {
	m.mu.RLock()
	p, ok := m.players[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	p.Touch(m.now())
	return p, nil
}

func (m *memory) GetOrCreate(ctx context.Context, id string, build func() (*Player, error)) (*Player, error) {
	if p, err := m.Get(ctx, id); err == nil {
		return p, nil
	}
	// build runs unlocked. If another caller inserted meanwhile, theirs is
	// kept and ours is closed.
	p, err := build()
	if err != nil {
		return nil, err
	}
	if p == nil || p.ID != id {
		return nil, errors.New("session: built player has the wrong ID")
	}
	p.Touch(m.now())
	m.mu.Lock()
	if cur, ok := m.players[id]; ok {
		m.mu.Unlock()
		p.Close()
		cur.Touch(m.now())
		return cur, nil
	}
	m.players[id] = p
	m.mu.Unlock()
	return p, nil
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	p, ok := m.players[id]
	delete(m.players, id)
	m.mu.Unlock()
	if ok {
		p.Close()
	}
	return nil
}

func (m *memory) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)
	var gone []*Player
	m.mu.Lock()
	for id, p := range m.players {
		if p.seenBefore(cutoff) && !p.watched() {
			gone = append(gone, p)
			delete(m.players, id)
		}
	}
	m.mu.Unlock()
	for _, p := range gone {
		p.Close()
	}
	return len(gone)
}

func (m *memory) Close() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		p.Close()
	}
}
