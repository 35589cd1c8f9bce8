package engine

import "chessplaycore/internal/board"

// MoveOrderer owns the search-wide learning tables that bias move ordering
// across the whole tree: killers per ply, a from/to history counter, and a
// counter-move table. One instance is shared by every ply of one search;
// each worker in a parallel search keeps its own, since killer moves are
// ply-indexed and not safe to share across workers searching different
// subtrees at the same ply.
type MoveOrderer struct {
	killers      [MaxPly][2]board.Move
	history      [64][64]int
	counterMoves [13][64]board.Move
}

// NewMoveOrderer returns a zeroed move orderer.
func NewMoveOrderer() *MoveOrderer { return &MoveOrderer{} }

// Clear resets killers and counter moves and ages history scores for a new
// search (rather than zeroing it outright, so ordering quality persists
// somewhat across moves played in the same game).
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
	for i := range mo.counterMoves {
		for j := range mo.counterMoves[i] {
			mo.counterMoves[i][j] = board.NoMove
		}
	}
}

// UpdateKillers records m as a killer at ply, shifting the existing first
// killer down.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory adjusts the history counter for a quiet move that caused
// (isGood=true) or was tried and failed to cause (isGood=false) a cutoff,
// scaled by depth squared so deep cutoffs dominate shallow ones.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int, isGood bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth
	if isGood {
		mo.history[from][to] += bonus
		if mo.history[from][to] > 400000 {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[from][to] -= bonus
		if mo.history[from][to] < -400000 {
			mo.history[from][to] = -400000
		}
	}
}

// GetHistoryScore returns the accumulated cutoff counter for a (from, to)
// pair.
func (mo *MoveOrderer) GetHistoryScore(m board.Move) int {
	return mo.history[m.From()][m.To()]
}

// UpdateCounterMove records goodMove as the reply that refuted prevMove.
func (mo *MoveOrderer) UpdateCounterMove(prevMove, goodMove board.Move, prevPos *board.Position) {
	if prevMove == board.NoMove {
		return
	}
	piece := prevPos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return
	}
	mo.counterMoves[piece][prevMove.To()] = goodMove
}

// GetCounterMove returns the recorded counter to prevMove, if any.
func (mo *MoveOrderer) GetCounterMove(prevMove board.Move, prevPos *board.Position) board.Move {
	if prevMove == board.NoMove {
		return board.NoMove
	}
	piece := prevPos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return board.NoMove
	}
	return mo.counterMoves[piece][prevMove.To()]
}
