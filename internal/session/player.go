package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rubisha/heartsite/internal/minegame"
	"github.com/rubisha/heartsite/internal/quiz"
	"github.com/rubisha/heartsite/internal/valentine"
)

// Player holds one visitor's widgets. The widgets do not know about each
// other.
type Player struct {
	ID        string
	Game      *minegame.Game // locks itself
	Mu        sync.Mutex     // guards Quiz and Valentine
	Quiz      *quiz.Quiz
	Valentine *valentine.Widget

	seenMu   sync.Mutex
	lastSeen time.Time
}

// NewID returns a fresh random player ID.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like an ID from NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Close stops the player's game timer.
func (p *Player) Close() {
	if p.Game != nil {
		p.Game.Stop()
	}
}

// Touch marks the player as seen at t, keeping it from being swept.
func (p *Player) Touch(t time.Time) {
	p.seenMu.Lock()
	p.lastSeen = t
	p.seenMu.Unlock()
}

// watched reports whether a live connection is subscribed to the game.
func (p *Player) watched() bool {
	return p.Game != nil && p.Game.Subscribers() > 0
}

func (p *Player) seenBefore(t time.Time) bool {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	return p.lastSeen.Before(t)
}
