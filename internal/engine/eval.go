package engine

import "chessplaycore/internal/board"

// Piece-square tables, White's perspective; mirrored via Square.Mirror for
// Black. Index 0 is a1, matching board's little-endian rank-file square
// numbering.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var kingEndgamePST = [64]int{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

var psts = [7][64]int{
	board.NoPieceType: {},
	board.Pawn:        pawnPST,
	board.Knight:       knightPST,
	board.Bishop:       bishopPST,
	board.Rook:         rookPST,
	board.Queen:        queenPST,
}

const tempoBonus = 10
const maxPhase = 24

// Evaluate returns a static score in centipawns from the side-to-move's
// perspective: material plus piece-square positioning, tapered between a
// middlegame and endgame king table by a material-derived game phase, plus
// a bishop-pair bonus and a small tempo bonus for the side on move.
func Evaluate(pos *board.Position) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb.Any() {
				sq := bb.PopLSB()
				mg += sign * board.PieceValue[pt]
				eg += sign * board.PieceValue[pt]

				pstSq := sq
				if c == board.Black {
					pstSq = sq.Mirror()
				}
				if pt == board.King {
					mg += sign * kingMidgamePST[pstSq]
					eg += sign * kingEndgamePST[pstSq]
				} else {
					mg += sign * psts[pt][pstSq]
					eg += sign * psts[pt][pstSq]
				}

				switch pt {
				case board.Knight, board.Bishop:
					phase++
				case board.Rook:
					phase += 2
				case board.Queen:
					phase += 4
				}
			}
		}
	}

	bpMg, bpEg := evaluateBishopPair(pos)
	mg += bpMg
	eg += bpEg

	psMg, psEg := computePawnStructure(pos)
	mg += psMg
	eg += psEg

	return taper(mg, eg, phase, pos.SideToMove)
}

// EvaluateWithPawnCache is like Evaluate but consults cache for the
// pawn-structure term, the one subtree of the evaluation expensive enough
// (scanning every file twice per side) to be worth memoizing by pawn
// skeleton across the many nodes that share one.
func EvaluateWithPawnCache(pos *board.Position, cache *PawnCache) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb.Any() {
				sq := bb.PopLSB()
				mg += sign * board.PieceValue[pt]
				eg += sign * board.PieceValue[pt]

				pstSq := sq
				if c == board.Black {
					pstSq = sq.Mirror()
				}
				if pt == board.King {
					mg += sign * kingMidgamePST[pstSq]
					eg += sign * kingEndgamePST[pstSq]
				} else {
					mg += sign * psts[pt][pstSq]
					eg += sign * psts[pt][pstSq]
				}

				switch pt {
				case board.Knight, board.Bishop:
					phase++
				case board.Rook:
					phase += 2
				case board.Queen:
					phase += 4
				}
			}
		}
	}

	bpMg, bpEg := evaluateBishopPair(pos)
	mg += bpMg
	eg += bpEg

	psMg, psEg := PawnStructureScore(pos, cache)
	mg += psMg
	eg += psEg

	return taper(mg, eg, phase, pos.SideToMove)
}

func taper(mg, eg, phase int, sideToMove board.Side) int {
	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase
	if sideToMove == board.Black {
		score = -score
	}
	return score + tempoBonus
}

func evaluateBishopPair(pos *board.Position) (mg, eg int) {
	const bonusMg, bonusEg = 30, 50
	if pos.Pieces[board.White][board.Bishop].PopCount() >= 2 {
		mg += bonusMg
		eg += bonusEg
	}
	if pos.Pieces[board.Black][board.Bishop].PopCount() >= 2 {
		mg -= bonusMg
		eg -= bonusEg
	}
	return mg, eg
}
