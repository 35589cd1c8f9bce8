package engine

import (
	"sync/atomic"

	"chessplaycore/internal/board"
)

// Worker drives iterative deepening for one search tree. Each worker in a
// Lazy-SMP search owns its own Position clone, Searcher (and with it, its
// own killer/history tables), per §5's "each worker owns its own ...
// history heuristic table" — only the transposition table is shared.
type Worker struct {
	id       int
	pos      *board.Position
	searcher *Searcher

	depth    int
	bestMove board.Move
	score    int
}

// NewWorker builds a worker against a shared transposition table and a
// shared halt flag (stopFlag is the same atomic.Bool for every worker of
// one Engine, so Stop() halts them all at once).
func NewWorker(id int, tt *TranspositionTable, stopFlag *atomic.Bool) *Worker {
	return &Worker{
		id:       id,
		searcher: NewSearcher(tt, stopFlag),
	}
}

// ID returns the worker's index within its engine.
func (w *Worker) ID() int { return w.id }

// Nodes returns the node count of the worker's current search.
func (w *Worker) Nodes() uint64 { return w.searcher.Nodes() }

// Init prepares the worker for a new root search against its own clone of
// pos, with history carried over for repetition detection.
func (w *Worker) Init(pos *board.Position, history RepetitionHistory) {
	w.pos = pos.Clone()
	w.searcher.Reset(w.pos)
	w.searcher.SetHistory(history)
	w.bestMove = board.NoMove
	w.score = 0
	w.depth = 0
}

// IterativeDeepen runs SearchRoot at increasing depths, using an aspiration
// window around the previous iteration's score once the search has settled
// enough (depth >= 5) to make one worthwhile; a window miss in either
// direction re-searches with the window doubled, falling back to
// (-Infinity, Infinity) after a couple of misses. report is invoked after
// every completed (non-aborted) iteration.
func (w *Worker) IterativeDeepen(maxDepth int, stopFlag *atomic.Bool, report func(depth, score int, move board.Move, pv []board.Move, nodes uint64)) {
	var prevScore int
	haveScore := false

	for depth := 1; depth <= maxDepth; depth++ {
		if stopFlag.Load() {
			return
		}

		w.depth = depth
		var move board.Move
		var score int

		if depth >= 5 && haveScore {
			window := 25
			alpha, beta := prevScore-window, prevScore+window
			for attempt := 0; ; attempt++ {
				move, score = w.searchWindow(depth, alpha, beta)
				if stopFlag.Load() {
					return
				}
				if score <= alpha && attempt < 3 {
					alpha = max(alpha-window*(1<<uint(attempt+1)), -Infinity)
					continue
				}
				if score >= beta && attempt < 3 {
					beta = min(beta+window*(1<<uint(attempt+1)), Infinity)
					continue
				}
				if (score <= alpha || score >= beta) && attempt >= 3 {
					alpha, beta = -Infinity, Infinity
					move, score = w.searchWindow(depth, alpha, beta)
				}
				break
			}
		} else {
			move, score = w.searchWindow(depth, -Infinity, Infinity)
		}

		if stopFlag.Load() {
			return
		}

		if move != board.NoMove {
			w.bestMove = move
		}
		w.score = score
		prevScore, haveScore = score, true

		if report != nil {
			report(depth, score, w.bestMove, w.searcher.GetPV(), w.searcher.Nodes())
		}

		if score > MateScore-MaxPly || score < -MateScore+MaxPly {
			return
		}
	}
}

func (w *Worker) searchWindow(depth, alpha, beta int) (board.Move, int) {
	score := w.searcher.negamax(depth, 0, alpha, beta, true, true)
	var best board.Move
	if w.searcher.pv.length[0] > 0 {
		best = w.searcher.pv.moves[0][0]
	}
	return best, score
}

// BestMove returns the best move found by the most recent IterativeDeepen
// call.
func (w *Worker) BestMove() board.Move { return w.bestMove }

// Score returns the score of the most recently completed iteration.
func (w *Worker) Score() int { return w.score }

// Depth returns the depth of the most recently completed iteration.
func (w *Worker) Depth() int { return w.depth }

// SelDepth returns the deepest ply actually visited during the current
// search, beyond the nominal iterative-deepening depth.
func (w *Worker) SelDepth() int { return w.searcher.GetSelDepth() }

// PV returns the principal variation of the most recently completed
// iteration.
func (w *Worker) PV() []board.Move { return w.searcher.GetPV() }
