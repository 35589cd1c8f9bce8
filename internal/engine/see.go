package engine

import "chessplaycore/internal/board"

// seeValue gives the piece values the static exchange evaluator swaps with;
// these are fixed by contract and intentionally distinct from the
// evaluation function's material table.
var seeValue = [7]int{0, 100, 300, 300, 500, 900, 10000}

// SEE runs the iterative swap algorithm on the target square of m: the
// least valuable attacker recaptures at each step (automatically revealing
// x-rayed sliders behind it, since each step simply recomputes attackers
// against the shrunken occupancy), and the result is minimaxed back into a
// single centipawn balance for the side initiating the exchange.
func SEE(pos *board.Position, m board.Move) int {
	to, from := m.To(), m.From()
	mover := pos.PieceAt(from)

	capturedSq := to
	if m.IsEnPassant() {
		capturedSq = board.NewSquare(to.File(), from.Rank())
	}
	captured := pos.PieceAt(capturedSq)

	occ := pos.All
	occ &^= board.SquareBB(from)
	if m.IsEnPassant() {
		occ &^= board.SquareBB(capturedSq)
	}
	occ |= board.SquareBB(to)

	var gain [32]int
	gain[0] = seeValue[captured.Type()]
	attackerValue := seeValue[mover.Type()]
	side := pos.SideToMove.Other()

	d := 0
	for d < 31 {
		attackers := pos.AttackersToOccupancy(to, occ) & occ
		sq, pt, found := leastValuableAttacker(pos, attackers, side)
		if !found {
			break
		}
		d++
		gain[d] = attackerValue - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			d--
			break
		}
		occ &^= board.SquareBB(sq)
		attackerValue = seeValue[pt]
		side = side.Other()
	}
	for d > 0 {
		gain[d-1] = -max(-gain[d-1], gain[d])
		d--
	}
	return gain[0]
}

func leastValuableAttacker(pos *board.Position, attackers board.Bitboard, side board.Side) (board.Square, board.PieceType, bool) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		bb := attackers & pos.Pieces[side][pt]
		if bb.Any() {
			return bb.LSB(), pt, true
		}
	}
	return board.NoSquare, board.NoPieceType, false
}
