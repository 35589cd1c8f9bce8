package engine

import (
	"sort"

	"chessplaycore/internal/board"
)

// pickerPhase names one stage of the lazy move iterator below.
type pickerPhase int

const (
	phaseHash pickerPhase = iota
	phaseQueenPromotions
	phaseGoodCaptures
	phaseEqualCaptures
	phaseKillers
	phaseQuiet
	phaseBadCaptures
	phaseUnderpromotions
	phaseDone
)

type scoredMove struct {
	move  board.Move
	score int
}

// MovePicker yields legal moves in the phased order the search wants them
// in. The pseudo-legal move list is generated up front by NewMovePicker; the
// hash move is yielded before any classification, and the first later phase
// reached classifies and sorts every bucket in one pass. A cutoff on the hash
// move skips that pass; a cutoff in any later phase does not skip the
// classification or sorting of the phases after it.
type MovePicker struct {
	pos         *board.Position
	orderer     *MoveOrderer
	ttMove      board.Move
	counterMove board.Move
	ply         int

	pseudo board.MoveList
	built  bool // whether the one-time per-move classification pass has run

	queenPromos     []board.Move
	goodCaptures    []scoredMove
	equalCaptures   []board.Move
	killers         []board.Move
	quiet           []scoredMove
	badCaptures     []scoredMove
	underpromotions []board.Move

	phase pickerPhase
	idx   int
}

// NewMovePicker starts a move iterator for pos. ttMove (or board.NoMove)
// and ply select the HashTable and Killers phases; counterMove (or
// board.NoMove) gets sorted to the front of the Quiet phase, ahead of
// plain history score, since a move that refuted the opponent's last move
// elsewhere in the tree is a stronger prior than aggregate history alone.
func NewMovePicker(pos *board.Position, orderer *MoveOrderer, ttMove, counterMove board.Move, ply int) *MovePicker {
	mp := &MovePicker{pos: pos, orderer: orderer, ttMove: ttMove, counterMove: counterMove, ply: ply}
	board.GeneratePseudoLegal(pos, &mp.pseudo)
	return mp
}

// counterMoveBonus outranks any plausible history score so the counter
// move sorts first among quiets without needing to beat history on merit.
const counterMoveBonus = 1 << 20

// classify runs once, bucketing every legal move other than the TT move
// into exactly one of the remaining seven phases.
func (mp *MovePicker) classify() {
	if mp.built {
		return
	}
	mp.built = true

	killer1, killer2 := mp.orderer.killers[mp.ply][0], mp.orderer.killers[mp.ply][1]

	for i := 0; i < mp.pseudo.Len(); i++ {
		m := mp.pseudo.Get(i)
		if m == mp.ttMove {
			continue
		}
		if !mp.pos.IsLegal(m) {
			continue
		}

		if m.IsPromotion() {
			if m.Promotion() == board.Queen {
				mp.queenPromos = append(mp.queenPromos, m)
			} else {
				mp.underpromotions = append(mp.underpromotions, m)
			}
			continue
		}

		if m.IsCapture(mp.pos) {
			see := SEE(mp.pos, m)
			switch {
			case see > 0:
				mp.goodCaptures = append(mp.goodCaptures, scoredMove{m, see})
			case see == 0:
				mp.equalCaptures = append(mp.equalCaptures, m)
			default:
				mp.badCaptures = append(mp.badCaptures, scoredMove{m, see})
			}
			continue
		}

		if m == killer1 || m == killer2 {
			mp.killers = append(mp.killers, m)
			continue
		}

		score := mp.orderer.GetHistoryScore(m)
		if mp.counterMove != board.NoMove && m == mp.counterMove {
			score += counterMoveBonus
		}
		mp.quiet = append(mp.quiet, scoredMove{m, score})
	}

	sort.Slice(mp.goodCaptures, func(i, j int) bool { return mp.goodCaptures[i].score > mp.goodCaptures[j].score })
	sort.Slice(mp.badCaptures, func(i, j int) bool { return mp.badCaptures[i].score > mp.badCaptures[j].score })
	sort.Slice(mp.quiet, func(i, j int) bool { return mp.quiet[i].score > mp.quiet[j].score })
	// Killers keep cutoff-recency order (killer1 before killer2); queen
	// promotions, equal captures, and underpromotions are left unordered
	// within their phase.
}

// Next returns the next move in phase order, or (NoMove, false) once every
// phase is exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	for mp.phase != phaseDone {
		switch mp.phase {
		case phaseHash:
			mp.phase = phaseQueenPromotions
			if mp.ttMove != board.NoMove && mp.pseudo.Contains(mp.ttMove) && mp.pos.IsLegal(mp.ttMove) {
				return mp.ttMove, true
			}
		case phaseQueenPromotions:
			mp.classify()
			if mp.idx < len(mp.queenPromos) {
				m := mp.queenPromos[mp.idx]
				mp.idx++
				return m, true
			}
			mp.phase, mp.idx = phaseGoodCaptures, 0
		case phaseGoodCaptures:
			if mp.idx < len(mp.goodCaptures) {
				m := mp.goodCaptures[mp.idx].move
				mp.idx++
				return m, true
			}
			mp.phase, mp.idx = phaseEqualCaptures, 0
		case phaseEqualCaptures:
			if mp.idx < len(mp.equalCaptures) {
				m := mp.equalCaptures[mp.idx]
				mp.idx++
				return m, true
			}
			mp.phase, mp.idx = phaseKillers, 0
		case phaseKillers:
			if mp.idx < len(mp.killers) {
				m := mp.killers[mp.idx]
				mp.idx++
				return m, true
			}
			mp.phase, mp.idx = phaseQuiet, 0
		case phaseQuiet:
			if mp.idx < len(mp.quiet) {
				m := mp.quiet[mp.idx].move
				mp.idx++
				return m, true
			}
			mp.phase, mp.idx = phaseBadCaptures, 0
		case phaseBadCaptures:
			if mp.idx < len(mp.badCaptures) {
				m := mp.badCaptures[mp.idx].move
				mp.idx++
				return m, true
			}
			mp.phase, mp.idx = phaseUnderpromotions, 0
		case phaseUnderpromotions:
			if mp.idx < len(mp.underpromotions) {
				m := mp.underpromotions[mp.idx]
				mp.idx++
				return m, true
			}
			mp.phase = phaseDone
		}
	}
	return board.NoMove, false
}
