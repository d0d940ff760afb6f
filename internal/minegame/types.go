// internal/minegame/types.go
//
// Core type definitions for the heart-reveal mini-game.
// Defines:
//   - Rules: timing and board dimensions.
//   - State: idle/active.
//   - Snapshot/TileView: render-ready view of a game.

package minegame

import (
	"errors"
	"time"
)

// Glyphs shown on tiles.
const (
	GlyphHidden = "•"
	GlyphHeart  = "💖"
	GlyphMiss   = "✨"
)

// Messages reported in the game text line.
const (
	MsgIdle    = "Tap Play to start the challenge."
	MsgStarted = "Find hearts 💖 — wrong tiles cost time!"
	MsgWon     = "All hearts found! Champion 🏆"
	msgTimeUp  = "Time's up! You scored %d."
)

// BestKey is the name under which the best score is persisted.
const BestKey = "rubishaBestScore"

// Rules configures a game. The zero value is not usable; start from DefaultRules.
type Rules struct {
	Duration time.Duration // time on the clock at start
	GridSize int           // board is GridSize x GridSize
	Hearts   int           // number of hidden hearts
	Penalty  time.Duration // subtracted on a miss
	Tick     time.Duration // timer period
}

// DefaultRules returns the standard 30s / 6x6 / 10 hearts setup.
func DefaultRules() Rules {
	return Rules{
		Duration: 30 * time.Second,
		GridSize: 6,
		Hearts:   10,
		Penalty:  2 * time.Second,
		Tick:     time.Second,
	}
}

// Validate reports whether the rules describe a playable board.
func (r Rules) Validate() error {
	switch {
	case r.GridSize <= 0:
		return errors.New("minegame: grid size must be positive")
	case r.Hearts <= 0 || r.Hearts > r.GridSize*r.GridSize:
		return errors.New("minegame: hearts must be in 1..grid²")
	case r.Duration < time.Second:
		return errors.New("minegame: duration must be at least one second")
	case r.Tick <= 0:
		return errors.New("minegame: tick must be positive")
	case r.Penalty < 0:
		return errors.New("minegame: penalty must not be negative")
	}
	return nil
}

// Tiles is the number of cells on the board.
func (r Rules) Tiles() int { return r.GridSize * r.GridSize }

// State is the coarse lifecycle state of a game.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
)

// Outcome describes what a Reveal did.
type Outcome string

const (
	OutcomeIgnored Outcome = "ignored"
	OutcomeHeart   Outcome = "heart"
	OutcomeMiss    Outcome = "miss"
)

// TileView is one tile as the page renders it.
// Heart is only ever true for revealed tiles.
type TileView struct {
	Index    int    `json:"index"`
	Revealed bool   `json:"revealed"`
	Heart    bool   `json:"heart"`
	Glyph    string `json:"glyph"`
}

// Snapshot is a copy of the visible game state.
type Snapshot struct {
	State    State      `json:"state"`
	TimeLeft int        `json:"timeLeft"` // whole seconds
	Score    int        `json:"score"`
	Best     int        `json:"best"`
	Message  string     `json:"message"`
	Grid     int        `json:"grid"`
	Tiles    []TileView `json:"tiles"`
	Version  uint64     `json:"version"` // grows with every change
}
