package engine

import (
	"sync/atomic"

	"chessplaycore/internal/board"
)

// Search score bounds. MateScore is the score of an immediate checkmate at
// the root; a mate found at ply plies deep reports MateScore-ply, so the
// full family of mate scores occupies [MateScore-MaxPly, MateScore] and
// never collides with a centipawn evaluation (kept well under 9999 in
// magnitude).
const (
	Infinity  = 32000
	MateScore = 20100
	MaxPly    = 100
)

// PVTable accumulates the principal variation discovered during search:
// row ply holds the continuation from that ply onward, copied up from
// ply+1 every time a move improves alpha.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// RepetitionHistory is the minimal view of game history the search needs to
// detect a drawn-by-repetition position without importing the game package
// (which itself depends only on board).
type RepetitionHistory interface {
	IsRepetition(hash uint64, halfMoveClock int) bool
}

// Searcher runs negamax/PVS/quiescence against one position. Each worker in
// a parallel search owns its own Searcher (and its own copy of the
// position and its own MoveOrderer); only the *TranspositionTable is shared
// between Searchers, per the Lazy-SMP model: many independent trees write
// into one table.
type Searcher struct {
	pos       *board.Position
	tt        *TranspositionTable
	orderer   *MoveOrderer
	pawnCache *PawnCache
	history   RepetitionHistory

	nodes    uint64
	stopFlag *atomic.Bool

	pv        PVTable
	undoStack [MaxPly]board.UndoRecord
	prevMove  [MaxPly]board.Move
	selDepth  int
}

// NewSearcher builds a Searcher against a shared transposition table. stop
// is shared across every worker of one engine so a single Stop() call
// halts them all.
func NewSearcher(tt *TranspositionTable, stop *atomic.Bool) *Searcher {
	return &Searcher{
		tt:        tt,
		orderer:   NewMoveOrderer(),
		pawnCache: NewPawnCache(512),
		stopFlag:  stop,
	}
}

// SetHistory attaches the repetition-detecting game history to consult
// during search.
func (s *Searcher) SetHistory(h RepetitionHistory) { s.history = h }

// Reset clears per-search state (not the shared TT) before a new root
// search begins.
func (s *Searcher) Reset(pos *board.Position) {
	s.pos = pos
	s.nodes = 0
	s.selDepth = 0
	s.orderer.Clear()
}

// Nodes returns the node count accumulated since the last Reset.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// SearchRoot runs one fixed-depth negamax pass from the root and returns
// the best move and its score; it is the unit of work iterative deepening
// calls once per depth.
func (s *Searcher) SearchRoot(depth int) (board.Move, int) {
	score := s.negamax(depth, 0, -Infinity, Infinity, true, true)
	var best board.Move
	if s.pv.length[0] > 0 {
		best = s.pv.moves[0][0]
	}
	return best, score
}

func (s *Searcher) stopped() bool {
	return s.nodes&2047 == 0 && s.stopFlag.Load()
}

// negamax searches pos (s.pos) to depth, returning a score from the side to
// move's perspective. allowNull gates null-move pruning, turned off on the
// node right after a null move (two nulls in a row prove nothing) and
// always off while isPV, since null-move pruning is a fail-high shortcut
// that has no meaning against an exact-score window.
func (s *Searcher) negamax(depth, ply int, alpha, beta int, isPV bool, allowNull bool) int {
	if ply >= MaxPly-1 {
		return s.quiescence(ply, alpha, beta)
	}
	s.pv.length[ply] = ply
	if ply > s.selDepth {
		s.selDepth = ply
	}
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	if ply > 0 {
		if s.pos.HalfMoveClock >= 100 || s.pos.IsInsufficientMaterial() {
			return 0
		}
		if s.history != nil && s.history.IsRepetition(s.pos.Hash, s.pos.HalfMoveClock) {
			return 0
		}
	}

	var ttMove board.Move
	entry := s.tt.Probe(s.pos.Hash)
	if entry.Found {
		ttMove = entry.Move
		if entry.Depth >= depth && !isPV {
			score := AdjustScoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score >= beta {
					return score
				}
			case TTUpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	inCheck := s.pos.InCheck()
	ttDepth := depth // the requested depth, which later probes compare against
	if inCheck {
		depth++ // check extension: never let a forcing line hit the horizon mid-check
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	// Null-move pruning: pass the turn and verify the opponent still
	// can't achieve beta even with a free move; if they can't, our side
	// is doing so well that a real move surely holds beta too. Disabled
	// in pawn/king-only endgames where passing can itself be the best
	// move (zugzwang).
	if allowNull && !isPV && !inCheck && depth >= 3 && s.pos.HasNonPawnMaterial(s.pos.SideToMove) && beta < MateScore-MaxPly {
		var undo board.UndoRecord
		s.pos.MakeNullMove(&undo)
		reduction := 3 + depth/6
		score := -s.negamax(depth-1-reduction, ply+1, -beta, -beta+1, false, false)
		s.pos.UnmakeNullMove(&undo)
		if s.stopFlag.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	var counterMove board.Move
	if ply > 0 {
		counterMove = s.orderer.GetCounterMove(s.prevMove[ply-1], s.pos)
	}
	picker := NewMovePicker(s.pos, s.orderer, ttMove, counterMove, ply)
	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	moveCount := 0

	for {
		move, ok := picker.Next()
		if !ok {
			break
		}
		moveCount++
		isQuiet := !move.IsCapture(s.pos) && !move.IsPromotion()

		s.pos.MakeMove(move, &s.undoStack[ply])
		s.prevMove[ply] = move

		var score int
		switch {
		case moveCount == 1:
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, isPV, true)
		default:
			reduction := 0
			if isQuiet && depth >= 3 && moveCount > 3 && !inCheck {
				reduction = lmrReduction(depth, moveCount)
			}
			score = -s.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha, false, true)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, isPV, true)
			}
		}

		s.pos.UnmakeMove(move, &s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
			if score > alpha {
				alpha = score
				flag = TTExact
				s.pv.moves[ply][ply] = move
				copy(s.pv.moves[ply][ply+1:s.pv.length[ply+1]], s.pv.moves[ply+1][ply+1:s.pv.length[ply+1]])
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			flag = TTLowerBound
			if isQuiet {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
				if ply > 0 {
					s.orderer.UpdateCounterMove(s.prevMove[ply-1], move, s.pos)
				}
			}
			break
		}
	}

	if moveCount == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	s.tt.Store(s.pos.Hash, ttDepth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// lmrReduction gives a Stockfish-style logarithmic late-move reduction: the
// deeper the remaining search and the later the move in the ordering, the
// more plies get cut, on the expectation that a well-ordered late quiet
// move is unlikely to be best.
func lmrReduction(depth, moveCount int) int {
	r := 1
	if depth >= 6 && moveCount >= 8 {
		r = 2
	}
	if depth >= 10 && moveCount >= 16 {
		r = 3
	}
	return r
}

const quiescenceMaxPly = 32

// quiescence extends the search along capture sequences only, to avoid
// mistaking a position mid-exchange for a quiet one (the horizon effect).
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	if ply > s.selDepth {
		s.selDepth = ply
	}
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	inCheck := s.pos.InCheck()
	standPat := EvaluateWithPawnCache(s.pos, s.pawnCache)
	if !inCheck {
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		if standPat+board.PieceValue[board.Queen] < alpha {
			return alpha
		}
	}

	if ply >= MaxPly || ply > quiescenceMaxPly {
		return standPat
	}

	var list board.MoveList
	if inCheck {
		board.GeneratePseudoLegal(s.pos, &list)
	} else {
		board.GenerateCaptures(s.pos, &list)
	}

	type candidate struct {
		move board.Move
		see  int
	}
	candidates := make([]candidate, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		if !s.pos.IsLegal(m) {
			continue
		}
		if !inCheck && !m.IsCapture(s.pos) && !m.IsPromotion() {
			continue
		}
		see := 0
		if m.IsCapture(s.pos) {
			see = SEE(s.pos, m)
			if !inCheck && see < 0 {
				continue // bad captures can't help a quiescence stand-pat position
			}
		}
		candidates = append(candidates, candidate{m, see})
	}
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].see > candidates[j-1].see; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	legalMoves := 0
	for _, c := range candidates {
		legalMoves++
		s.pos.MakeMove(c.move, &s.undoStack[min(ply, MaxPly-1)])
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(c.move, &s.undoStack[min(ply, MaxPly-1)])

		if s.stopFlag.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	if inCheck && legalMoves == 0 {
		return -MateScore + ply
	}
	return alpha
}

// GetPV returns the principal variation discovered by the most recent
// SearchRoot call.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// GetSelDepth returns the deepest ply actually visited during the most
// recent search, counting check-extensions and quiescence beyond the
// nominal iterative-deepening depth.
func (s *Searcher) GetSelDepth() int { return s.selDepth }
