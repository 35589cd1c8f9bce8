package engine

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"chessplaycore/internal/board"
)

// SearchInfo is one iterative-deepening progress report, shaped to map
// directly onto a UCI "info" line.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int
}

// Engine owns the shared transposition table and a pool of search workers
// implementing Lazy SMP: every worker searches the same root independently
// to growing depth, sharing only the table, so a deeper or luckier worker's
// TT writes can speed up the others without any explicit work division.
type Engine struct {
	tt       *TranspositionTable
	workers  []*Worker
	stopFlag atomic.Bool

	// OnInfo is invoked after every completed iteration of the primary
	// worker (worker 0), the one whose result is reported back to UCI.
	OnInfo func(SearchInfo)
}

// NewEngine allocates a transposition table of approximately ttSizeMB
// megabytes and a worker per available CPU, matching §5's "one or more
// search workers per search root".
func NewEngine(ttSizeMB int) *Engine {
	return NewEngineWithWorkers(ttSizeMB, runtime.GOMAXPROCS(0))
}

// NewEngineWithWorkers is like NewEngine but lets the caller (UCI's
// "setoption name Threads") fix the worker count explicitly.
func NewEngineWithWorkers(ttSizeMB, numWorkers int) *Engine {
	if numWorkers < 1 {
		numWorkers = 1
	}
	tt := NewTranspositionTable(ttSizeMB)
	e := &Engine{tt: tt, workers: make([]*Worker, numWorkers)}
	for i := range e.workers {
		e.workers[i] = NewWorker(i, tt, &e.stopFlag)
	}
	return e
}

// Stop requests that the current search unwind as soon as every worker next
// checks the shared halt flag.
func (e *Engine) Stop() { e.stopFlag.Store(true) }

// Clear empties the transposition table and, for every worker, resets the
// killer and counter-move tables and halves the history scores, for
// "ucinewgame".
func (e *Engine) Clear() {
	e.tt.Clear()
	for _, w := range e.workers {
		w.searcher.orderer.Clear()
	}
}

// Perft counts leaf nodes at depth below pos without touching the search
// machinery, for the UCI "perft" debug command.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// Evaluate returns the static evaluation of pos from the side-to-move's
// perspective.
func (e *Engine) Evaluate(pos *board.Position) int { return Evaluate(pos) }

func (e *Engine) totalNodes() uint64 {
	var total uint64
	for _, w := range e.workers {
		total += w.Nodes()
	}
	return total
}

// Search runs a Lazy-SMP search governed by limits and returns the best
// move found. history supplies repetition detection against moves already
// played in the game; ply is the game ply at the root, used to scale the
// time budget. Every worker searches independently to increasing depth;
// worker 0 drives time management and is the one whose completed
// iterations are reported via OnInfo.
func (e *Engine) Search(pos *board.Position, limits UCILimits, history RepetitionHistory, ply int) board.Move {
	e.stopFlag.Store(false)
	e.tt.NewSearch()

	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	maxDepth := MaxPly
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}

	for _, w := range e.workers {
		w.Init(pos, history)
	}

	if limits.MoveTime == 0 && !limits.Infinite {
		go func() {
			for !e.stopFlag.Load() {
				if tm.ShouldStop() {
					e.stopFlag.Store(true)
					return
				}
				time.Sleep(5 * time.Millisecond)
			}
		}()
	} else if limits.MoveTime > 0 {
		timer := time.AfterFunc(limits.MoveTime, func() { e.stopFlag.Store(true) })
		defer timer.Stop()
	}

	var wg sync.WaitGroup
	startTime := time.Now()

	var lastMove board.Move
	var stability int

	for i, w := range e.workers {
		if i == 0 {
			continue
		}
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.IterativeDeepen(maxDepth, &e.stopFlag, nil)
		}(w)
	}

	main := e.workers[0]
	main.IterativeDeepen(maxDepth, &e.stopFlag, func(depth, score int, move board.Move, pv []board.Move, nodes uint64) {
		if move == lastMove {
			stability++
		} else {
			stability = 0
			lastMove = move
		}
		tm.AdjustForStability(stability)

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				SelDepth: main.SelDepth(),
				Score:    score,
				Nodes:    e.totalNodes(),
				Time:     time.Since(startTime),
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}

		if limits.Nodes > 0 && e.totalNodes() >= limits.Nodes {
			e.stopFlag.Store(true)
			return
		}
		if !limits.Infinite && limits.MoveTime == 0 && tm.PastOptimum() && stability >= 4 {
			e.stopFlag.Store(true)
		}
	})

	e.stopFlag.Store(true)
	wg.Wait()

	best := main.BestMove()
	if best == board.NoMove {
		var legal board.MoveList
		board.GenerateLegalMoves(pos, &legal)
		if legal.Len() > 0 {
			best = legal.Get(0)
		}
	}
	return best
}
