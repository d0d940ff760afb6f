// Package best persists a player's best score as a named value.
//
// Values are kept as text, the same way a browser keeps them in local
// storage, so anything that does not parse as a non-negative integer reads
// back as zero.
package best

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound is returned by Store.Get when no entry exists.
var ErrNotFound = errors.New("best: entry not found")

// Store keeps named text values per player.
// Implementations may be backed by memory (this package) or SQLite.
type Store interface {
	Get(ctx context.Context, playerID, name string) (string, error)
	Set(ctx context.Context, playerID, name, value string) error
	Delete(ctx context.Context, playerID, name string) error
}

// Parse converts a stored value to a score. Empty, malformed and
// negative values are treated as zero.
func Parse(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Entry binds a Store to one player's named value.
type Entry struct {
	store    Store
	playerID string
	name     string
}

// NewEntry returns the entry called name for playerID.
func NewEntry(s Store, playerID, name string) *Entry {
	return &Entry{store: s, playerID: playerID, name: name}
}

// Load reads the score. A missing entry is zero, not an error.
func (e *Entry) Load(ctx context.Context) (int, error) {
	v, err := e.store.Get(ctx, e.playerID, e.name)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return Parse(v), nil
}

// Save writes score.
func (e *Entry) Save(ctx context.Context, score int) error {
	return e.store.Set(ctx, e.playerID, e.name, strconv.Itoa(score))
}

// Clear removes the entry.
func (e *Entry) Clear(ctx context.Context) error {
	return e.store.Delete(ctx, e.playerID, e.name)
}
