package engine

import (
	"time"

	"chessplaycore/internal/board"
)

// UCILimits carries the parsed arguments of a UCI "go" command.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime
	Inc       [2]time.Duration // winc, binc
	MovesToGo int              // moves until next time control; 0 = sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the time-control fields
	Depth     int              // maximum depth, 0 = unbounded
	Nodes     uint64           // maximum node count, 0 = unbounded
	Infinite  bool             // search until "stop"
}

// TimeManager allocates a this-move time budget from the remaining clock
// and decides when iterative deepening should stop.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager returns an unconfigured time manager; call Init before use.
func NewTimeManager() *TimeManager { return &TimeManager{} }

// Init computes the optimum and maximum time budget for one search, given
// the UCI limits, the side to move, and the current game ply. The specific
// constants here (the assumed-50-move game, the stability scaling factors)
// are calibration knobs, not load-bearing contracts.
func (tm *TimeManager) Init(limits UCILimits, us board.Side, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}
	if limits.Infinite || limits.Time[us] == 0 {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft/time.Duration(mtg) + inc*9/10
	tm.optimumTime = baseTime
	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft * 95 / 100
	if tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

// Elapsed returns the time spent since Init.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.startTime) }

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration { return tm.optimumTime }

// MaximumTime returns the hard cap for this move.
func (tm *TimeManager) MaximumTime() time.Duration { return tm.maximumTime }

// ShouldStop reports whether the hard cap has been reached.
func (tm *TimeManager) ShouldStop() bool { return tm.Elapsed() >= tm.maximumTime }

// PastOptimum reports whether the soft target has been reached; iterative
// deepening uses this to decide whether to begin one more iteration.
func (tm *TimeManager) PastOptimum() bool { return tm.Elapsed() >= tm.optimumTime }

// AdjustForStability shortens the optimum budget once the best move has
// stopped changing across consecutive completed iterations.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability extends the optimum budget (capped at the hard
// maximum) when the best move keeps changing between iterations.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = min(tm.optimumTime*200/100, tm.maximumTime)
	case changes >= 2:
		tm.optimumTime = min(tm.optimumTime*150/100, tm.maximumTime)
	}
}
