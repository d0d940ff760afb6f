package minegame

import "math/rand"

// board is one layout of hidden hearts plus the set of revealed tiles.
type board struct {
	size     int
	hearts   map[int]struct{}
	revealed map[int]struct{}
}

// newBoard places n hearts on size*size tiles by shuffling every index
// and keeping the first n.
func newBoard(rng *rand.Rand, size, n int) *board {
	total := size * size
	candidates := make([]int, total)
	for i := range candidates {
		candidates[i] = i
	}
	rng.Shuffle(total, func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	b := &board{
		size:     size,
		hearts:   make(map[int]struct{}, n),
		revealed: make(map[int]struct{}),
	}
	for _, idx := range candidates[:n] {
		b.hearts[idx] = struct{}{}
	}
	return b
}

func (b *board) total() int { return b.size * b.size }

func (b *board) in(idx int) bool { return idx >= 0 && idx < b.total() }

func (b *board) isHeart(idx int) bool {
	_, ok := b.hearts[idx]
	return ok
}

func (b *board) isRevealed(idx int) bool {
	_, ok := b.revealed[idx]
	return ok
}

// reveal marks idx revealed and reports whether that changed anything.
func (b *board) reveal(idx int) bool {
	if !b.in(idx) || b.isRevealed(idx) {
		return false
	}
	b.revealed[idx] = struct{}{}
	return true
}

func (b *board) tiles() []TileView {
	out := make([]TileView, b.total())
	for i := range out {
		t := TileView{Index: i, Glyph: GlyphHidden}
		if b.isRevealed(i) {
			t.Revealed = true
			if b.isHeart(i) {
				t.Heart = true
				t.Glyph = GlyphHeart
			} else {
				t.Glyph = GlyphMiss
			}
		}
		out[i] = t
	}
	return out
}
