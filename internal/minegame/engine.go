// internal/minegame/engine.go
//
// Game engine for the heart-reveal mini-game.
// Responsibilities:
//   - Lay out hidden hearts on a square board.
//   - Run a countdown while a round is active and end the round at zero.
//   - Apply reveals: hearts score, misses cost time.
//   - Track and persist the best score.
//
// Notes:
//   - Every method locks g.mu; timer callbacks take the same lock, so all
//     state changes are serialised as if they ran on one event loop.
//   - Each timer carries the generation it was started for. A tick that
//     loses a race with Start or end sees a stale generation and is dropped.
//   - Subscribers are called after the lock is released, so two changes
//     may reach a subscriber out of order. Snapshot.Version is taken under
//     the lock and only grows; subscribers keep the highest they have seen.

package minegame

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BestStore persists the best score outside the game.
type BestStore interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, score int) error
	Clear(ctx context.Context) error
}

// Options configures New. Zero fields fall back to defaults.
type Options struct {
	Rules     Rules
	Scheduler Scheduler
	Rand      *rand.Rand
	Best      BestStore // nil disables persistence
}

// Game is one player's heart-reveal board and clock.
type Game struct {
	mu        sync.Mutex
	rules     Rules
	sched     Scheduler
	rng       *rand.Rand
	store     BestStore
	board     *board
	state     State
	timeLeft  int
	score     int
	best      int
	message   string
	gen       int
	version   uint64
	cancel    func()
	subs      map[int]func(Snapshot)
	nextSubID int
}

// storeTimeout bounds best-score writes made from timer callbacks.
const storeTimeout = 2 * time.Second

// New constructs an idle game and reads the persisted best score once.
func New(ctx context.Context, opts Options) (*Game, error) {
	if opts.Rules == (Rules{}) {
		opts.Rules = DefaultRules()
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TickerScheduler{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		rules: opts.Rules,
		sched: opts.Scheduler,
		rng:   opts.Rand,
		store: opts.Best,
		subs:  make(map[int]func(Snapshot)),
	}
	if g.store != nil {
		best, err := g.store.Load(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("load best score")
		}
		g.best = best
	}
	g.resetLocked()
	return g, nil
}

// resetLocked puts the game back to a fresh idle board.
func (g *Game) resetLocked() {
	g.stopTimerLocked()
	g.timeLeft = g.seconds(g.rules.Duration)
	g.score = 0
	g.state = StateIdle
	g.message = MsgIdle
	g.board = newBoard(g.rng, g.rules.GridSize, g.rules.Hearts)
}

// Start begins a new round, discarding any round in progress.
func (g *Game) Start() Snapshot {
	g.mu.Lock()
	g.resetLocked()
	g.state = StateActive
	g.message = MsgStarted
	g.gen++
	gen := g.gen
	g.cancel = g.sched.Every(g.rules.Tick, func() { g.tick(gen) })
	return g.unlockAndNotify()
}

// Reveal uncovers tile index. Reveals on an idle game, out-of-range
// tiles and already revealed tiles are ignored.
func (g *Game) Reveal(ctx context.Context, index int) (Outcome, Snapshot) {
	g.mu.Lock()
	if g.state != StateActive || !g.board.reveal(index) {
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return OutcomeIgnored, snap
	}

	outcome := OutcomeMiss
	if g.board.isHeart(index) {
		outcome = OutcomeHeart
		g.score++
		if g.score >= g.rules.Hearts {
			g.endLocked(ctx, MsgWon)
		}
	} else {
		g.timeLeft = max(0, g.timeLeft-g.seconds(g.rules.Penalty))
		if g.timeLeft <= 0 {
			g.endLocked(ctx, fmt.Sprintf(msgTimeUp, g.score))
		}
	}
	return outcome, g.unlockAndNotify()
}

// Tick advances the clock by one period as if the timer had fired.
func (g *Game) Tick() Snapshot {
	g.mu.Lock()
	gen := g.gen
	g.mu.Unlock()
	g.tick(gen)
	return g.Snapshot()
}

func (g *Game) tick(gen int) {
	g.mu.Lock()
	if g.state != StateActive || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.timeLeft = max(0, g.timeLeft-g.seconds(g.rules.Tick))
	if g.timeLeft <= 0 {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		g.endLocked(ctx, fmt.Sprintf(msgTimeUp, g.score))
	}
	g.unlockAndNotify()
}

// endLocked moves an active round to idle and records a new best.
func (g *Game) endLocked(ctx context.Context, msg string) {
	g.state = StateIdle
	g.stopTimerLocked()
	g.message = msg
	if g.score <= g.best {
		return
	}
	g.best = g.score
	if g.store == nil {
		return
	}
	if err := g.store.Save(ctx, g.best); err != nil {
		log.Warn().Err(err).Int("best", g.best).Msg("save best score")
	}
}

// ResetBest zeroes the best score in memory and in the store.
// A round in progress keeps running.
func (g *Game) ResetBest(ctx context.Context) Snapshot {
	g.mu.Lock()
	g.best = 0
	if g.store != nil {
		if err := g.store.Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("clear best score")
		}
	}
	return g.unlockAndNotify()
}

// Snapshot returns the current visible state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change.
func (g *Game) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextSubID
	g.nextSubID++
	g.subs[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// Subscribers reports how many subscribers are registered.
func (g *Game) Subscribers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Stop cancels the timer without changing visible state.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimerLocked()
	g.gen++
}

func (g *Game) stopTimerLocked() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

func (g *Game) snapshotLocked() Snapshot {
	return Snapshot{
		State:    g.state,
		TimeLeft: g.timeLeft,
		Score:    g.score,
		Best:     g.best,
		Message:  g.message,
		Grid:     g.rules.GridSize,
		Tiles:    g.board.tiles(),
		Version:  g.version,
	}
}

// unlockAndNotify releases g.mu and fans the new snapshot out to subscribers.
func (g *Game) unlockAndNotify() Snapshot {
	g.version++
	snap := g.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// seconds converts d to whole seconds, rounding sub-second values up to one.
func (g *Game) seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	s := int(d / time.Second)
	if s == 0 {
		return 1
	}
	return s
}
