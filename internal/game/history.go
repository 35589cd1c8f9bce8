// Package game tracks the position history of one game in progress, the
// layer above the search-local machinery in package board/engine: it is
// what lets "position ... moves ..." and iterative deepening agree on
// whether a position now repeats one played earlier in the game.
package game

import "chessplaycore/internal/board"

// History accumulates the Zobrist hash of every position reached so far in
// one game, in play order, so threefold repetition can be detected against
// the positions recorded with Push, both at the root and inside search (via
// RepetitionHistory). Search does not push the positions of the line it
// explores, so only positions actually played are consulted.
type History struct {
	hashes []uint64
}

// NewHistory returns an empty history seeded with the starting position's
// hash.
func NewHistory(startHash uint64) *History {
	h := &History{hashes: make([]uint64, 0, 128)}
	h.hashes = append(h.hashes, startHash)
	return h
}

// Push records a position reached by playing a move.
func (h *History) Push(hash uint64) {
	h.hashes = append(h.hashes, hash)
}

// Pop removes the most recently pushed position.
func (h *History) Pop() {
	if len(h.hashes) > 0 {
		h.hashes = h.hashes[:len(h.hashes)-1]
	}
}

// Reset clears the history back to a single starting hash, for ucinewgame.
func (h *History) Reset(startHash uint64) {
	h.hashes = h.hashes[:0]
	h.hashes = append(h.hashes, startHash)
}

// Len returns the number of positions recorded.
func (h *History) Len() int { return len(h.hashes) }

// Hashes returns the recorded hashes in play order; callers must not mutate
// the returned slice.
func (h *History) Hashes() []uint64 { return h.hashes }

// IsRepetition reports whether hash has already occurred at least twice
// within the irreversible-move window bounded by halfMoveClock (a pawn move
// or capture resets the clock and, with it, the repetition count — an older
// occurrence of the same hash from before that event can't be repeated by
// any move available now). Search also calls it as its in-line draw check;
// only positions recorded with Push are consulted, so a position that
// repeats only within the line being searched is not reported.
func (h *History) IsRepetition(hash uint64, halfMoveClock int) bool {
	n := len(h.hashes)
	limit := halfMoveClock
	if limit > n {
		limit = n
	}
	count := 0
	for i := 1; i <= limit; i++ {
		if h.hashes[n-i] == hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// IsThreefold reports whether the current (last-pushed) position has
// already appeared at least twice earlier in the recorded history, i.e.
// this is its third occurrence — the UCI-visible, played-moves-only version
// of the same rule IsRepetition applies mid-search.
func (h *History) IsThreefold(halfMoveClock int) bool {
	if len(h.hashes) == 0 {
		return false
	}
	current := h.hashes[len(h.hashes)-1]
	n := len(h.hashes) - 1
	limit := halfMoveClock
	if limit > n {
		limit = n
	}
	count := 0
	for i := 1; i <= limit; i++ {
		if h.hashes[n-i] == current {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// IsDraw reports whether pos is drawn by the 50-move rule, insufficient
// material, or threefold repetition against the recorded history.
func (h *History) IsDraw(pos *board.Position) bool {
	if pos.HalfMoveClock >= 100 {
		return true
	}
	if pos.IsInsufficientMaterial() {
		return true
	}
	return h.IsThreefold(pos.HalfMoveClock)
}
