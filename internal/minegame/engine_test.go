package minegame

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"
)

type fakeBest struct {
	value   int
	loadErr error
	saves   []int
	clears  int
}

func (f *fakeBest) Load(context.Context) (int, error) { return f.value, f.loadErr }

func (f *fakeBest) Save(_ context.Context, n int) error {
	f.saves = append(f.saves, n)
	f.value = n
	return nil
}

func (f *fakeBest) Clear(context.Context) error {
	f.clears++
	f.value = 0
	return nil
}

func newTestGame(t *testing.T, store BestStore) (*Game, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler()
	g, err := New(context.Background(), Options{
		Scheduler: sched,
		Rand:      rand.New(rand.NewSource(42)),
		Best:      store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, sched
}

// split returns the heart and empty tile indices of the current board.
func split(g *Game) (hearts, empty []int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < g.board.total(); i++ {
		if g.board.isHeart(i) {
			hearts = append(hearts, i)
		} else {
			empty = append(empty, i)
		}
	}
	sort.Ints(hearts)
	return hearts, empty
}

func TestNewGameIsIdle(t *testing.T) {
	g, sched := newTestGame(t, &fakeBest{value: 4})
	snap := g.Snapshot()
	if snap.State != StateIdle || snap.Message != MsgIdle {
		t.Fatalf("state = %s %q, want idle", snap.State, snap.Message)
	}
	if snap.TimeLeft != 30 || snap.Score != 0 || snap.Best != 4 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(snap.Tiles) != 36 {
		t.Fatalf("tiles = %d, want 36", len(snap.Tiles))
	}
	if sched.Pending() != 0 {
		t.Fatalf("idle game must not schedule a timer")
	}
}

func TestNewGameLoadErrorFallsBackToZero(t *testing.T) {
	g, _ := newTestGame(t, &fakeBest{loadErr: errors.New("disk gone")})
	if got := g.Snapshot().Best; got != 0 {
		t.Fatalf("best = %d, want 0", got)
	}
}

func TestNewRejectsBadRules(t *testing.T) {
	rules := DefaultRules()
	rules.Hearts = 37
	if _, err := New(context.Background(), Options{Rules: rules}); err == nil {
		t.Fatalf("expected error for more hearts than tiles")
	}
}

func TestRevealIgnoredWhenIdle(t *testing.T) {
	g, _ := newTestGame(t, nil)
	out, snap := g.Reveal(context.Background(), 0)
	if out != OutcomeIgnored || snap.Tiles[0].Revealed {
		t.Fatalf("reveal on idle game should be ignored, got %s", out)
	}
}

func TestRevealSameTileTwice(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	hearts, empty := split(g)
	ctx := context.Background()

	g.Reveal(ctx, hearts[0])
	out, snap := g.Reveal(ctx, hearts[0])
	if out != OutcomeIgnored || snap.Score != 1 {
		t.Fatalf("second heart reveal: outcome %s score %d", out, snap.Score)
	}

	g.Reveal(ctx, empty[0])
	out, snap = g.Reveal(ctx, empty[0])
	if out != OutcomeIgnored || snap.TimeLeft != 28 {
		t.Fatalf("second miss reveal: outcome %s timeLeft %d", out, snap.TimeLeft)
	}
}

func TestScoreMatchesRevealedHearts(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	hearts, empty := split(g)
	ctx := context.Background()

	order := []int{hearts[0], empty[0], hearts[1], hearts[2], empty[1], 99, -3}
	for _, idx := range order {
		g.Reveal(ctx, idx)
	}
	snap := g.Snapshot()
	found := 0
	for _, tile := range snap.Tiles {
		if tile.Revealed && tile.Heart {
			found++
		}
	}
	if snap.Score != found || found != 3 {
		t.Fatalf("score = %d, revealed hearts = %d, want 3", snap.Score, found)
	}
}

func TestMissPenaltyClampsAtZero(t *testing.T) {
	g, sched := newTestGame(t, nil)
	g.Start()
	_, empty := split(g)
	ctx := context.Background()

	want := 30
	for i := 0; i < 15; i++ {
		_, snap := g.Reveal(ctx, empty[i])
		want -= 2
		if snap.TimeLeft != want {
			t.Fatalf("miss %d: timeLeft = %d, want %d", i, snap.TimeLeft, want)
		}
	}
	snap := g.Snapshot()
	if snap.State != StateIdle || snap.Message != "Time's up! You scored 0." {
		t.Fatalf("expected time-up, got %s %q", snap.State, snap.Message)
	}
	if sched.Pending() != 0 {
		t.Fatalf("timer still pending after game end")
	}
}

func TestPenaltyNeverNegative(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	_, empty := split(g)
	for i := 0; i < 29; i++ {
		g.Tick()
	}
	_, snap := g.Reveal(context.Background(), empty[0])
	if snap.TimeLeft != 0 {
		t.Fatalf("timeLeft = %d, want 0", snap.TimeLeft)
	}
	if snap.Message != "Time's up! You scored 0." {
		t.Fatalf("message = %q", snap.Message)
	}
}

func TestAllHeartsWins(t *testing.T) {
	store := &fakeBest{}
	g, sched := newTestGame(t, store)
	g.Start()
	hearts, _ := split(g)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		sched.Fire()
	}
	var snap Snapshot
	for _, idx := range hearts {
		_, snap = g.Reveal(ctx, idx)
	}
	if snap.State != StateIdle || snap.Message != MsgWon {
		t.Fatalf("expected win, got %s %q", snap.State, snap.Message)
	}
	if snap.Score != 10 || snap.TimeLeft != 5 {
		t.Fatalf("score %d timeLeft %d, want 10 and 5", snap.Score, snap.TimeLeft)
	}
	if snap.Best != 10 || len(store.saves) != 1 || store.saves[0] != 10 {
		t.Fatalf("best not persisted: snap %d saves %v", snap.Best, store.saves)
	}
	if sched.Pending() != 0 {
		t.Fatalf("timer still pending after win")
	}
}

func TestTimerRunsOut(t *testing.T) {
	g, sched := newTestGame(t, nil)
	g.Start()
	hearts, _ := split(g)
	g.Reveal(context.Background(), hearts[0])
	g.Reveal(context.Background(), hearts[1])

	for i := 0; i < 29; i++ {
		sched.Fire()
	}
	if snap := g.Snapshot(); snap.State != StateActive || snap.TimeLeft != 1 {
		t.Fatalf("after 29 ticks: %s timeLeft %d", snap.State, snap.TimeLeft)
	}
	sched.Fire()
	snap := g.Snapshot()
	if snap.State != StateIdle || snap.TimeLeft != 0 {
		t.Fatalf("after 30 ticks: %s timeLeft %d", snap.State, snap.TimeLeft)
	}
	if snap.Message != "Time's up! You scored 2." {
		t.Fatalf("message = %q", snap.Message)
	}
	sched.Fire()
	if g.Snapshot().TimeLeft != 0 {
		t.Fatalf("ticks after the end must not change the clock")
	}
}

func TestRestartCancelsPreviousTimer(t *testing.T) {
	g, sched := newTestGame(t, nil)
	g.Start()
	g.Start()
	if sched.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", sched.Pending())
	}
	sched.Fire()
	if got := g.Snapshot().TimeLeft; got != 29 {
		t.Fatalf("timeLeft = %d, want 29", got)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	g.mu.Lock()
	stale := g.gen
	g.mu.Unlock()
	g.Start()
	g.tick(stale)
	if got := g.Snapshot().TimeLeft; got != 30 {
		t.Fatalf("stale tick changed clock to %d", got)
	}
}

func TestBestOnlyIncreases(t *testing.T) {
	store := &fakeBest{value: 3}
	g, sched := newTestGame(t, store)
	g.Start()
	hearts, _ := split(g)
	g.Reveal(context.Background(), hearts[0])
	for i := 0; i < 30; i++ {
		sched.Fire()
	}
	snap := g.Snapshot()
	if snap.Best != 3 || len(store.saves) != 0 {
		t.Fatalf("lower score must not replace best: best %d saves %v", snap.Best, store.saves)
	}
}

func TestResetBestKeepsRoundRunning(t *testing.T) {
	store := &fakeBest{value: 8}
	g, sched := newTestGame(t, store)
	g.Start()
	sched.Fire()
	snap := g.ResetBest(context.Background())
	if snap.Best != 0 || store.clears != 1 {
		t.Fatalf("best %d clears %d", snap.Best, store.clears)
	}
	if snap.State != StateActive || snap.TimeLeft != 29 {
		t.Fatalf("round disturbed: %s %d", snap.State, snap.TimeLeft)
	}
}

func TestSubscribeReceivesTicks(t *testing.T) {
	g, sched := newTestGame(t, nil)
	var got []int
	unsub := g.Subscribe(func(s Snapshot) { got = append(got, s.TimeLeft) })
	g.Start()
	sched.Fire()
	sched.Fire()
	unsub()
	sched.Fire()
	want := []int{30, 29, 28}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}

func TestVersionGrowsWithEveryChange(t *testing.T) {
	g, sched := newTestGame(t, nil)
	idle := g.Snapshot()
	if g.Snapshot().Version != idle.Version {
		t.Fatalf("reading a snapshot changed the version")
	}
	if _, snap := g.Reveal(context.Background(), 0); snap.Version != idle.Version {
		t.Fatalf("ignored reveal changed the version")
	}

	var versions []uint64
	unsub := g.Subscribe(func(s Snapshot) { versions = append(versions, s.Version) })
	defer unsub()
	g.Start()
	sched.Fire()
	_, empty := split(g)
	g.Reveal(context.Background(), empty[0])
	g.ResetBest(context.Background())

	if len(versions) != 4 {
		t.Fatalf("notifications = %v, want 4", versions)
	}
	prev := idle.Version
	for _, v := range versions {
		if v <= prev {
			t.Fatalf("versions not increasing: %v after %d", versions, idle.Version)
		}
		prev = v
	}
	if g.Snapshot().Version != prev {
		t.Fatalf("snapshot version %d, want last notified %d", g.Snapshot().Version, prev)
	}
}

func TestStopCancelsTimer(t *testing.T) {
	g, sched := newTestGame(t, nil)
	g.Start()
	g.Stop()
	if sched.Pending() != 0 {
		t.Fatalf("Stop left a timer behind")
	}
}

func TestTickerSchedulerFiresAndCancels(t *testing.T) {
	fired := make(chan struct{}, 8)
	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("ticker never fired")
	}
	cancel()
	cancel()
}
