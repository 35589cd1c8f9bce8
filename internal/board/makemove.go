package board

// UndoRecord captures exactly the state MakeMove cannot cheaply reverse by
// XOR alone, so UnmakeMove can restore a position without recomputing
// derived state from scratch. Checkers/Blockers/Pinners are not stored here;
// UnmakeMove recomputes them once via UpdateCheckersAndPins, which is
// cheaper than snapshotting three more bitboards per ply.
type UndoRecord struct {
	CapturedPiece  Piece
	CapturedSquare Square
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int32
	Hash           uint64
	PawnKey        uint64
}

// castlingLossMask returns the castling rights forfeited the moment a piece
// moves to or from sq (king start squares forfeit both rights on that side,
// rook start squares forfeit the matching single right).
func castlingLossMask(sq Square) CastlingRights {
	switch sq {
	case E1:
		return WhiteKingside | WhiteQueenside
	case H1:
		return WhiteKingside
	case A1:
		return WhiteQueenside
	case E8:
		return BlackKingside | BlackQueenside
	case H8:
		return BlackKingside
	case A8:
		return BlackQueenside
	default:
		return NoCastling
	}
}

// castleRookSquares returns the rook's origin and destination for a king
// move to kingTo (one of G1/C1/G8/C8).
func castleRookSquares(us Side, kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	default:
		panic("board: castleRookSquares: invalid king destination")
	}
}

// MakeMove applies m to pos, recording enough state in undo for UnmakeMove
// to reverse it exactly. m must be pseudo-legal in pos.
func (pos *Position) MakeMove(m Move, undo *UndoRecord) {
	undo.Hash = pos.Hash
	undo.PawnKey = pos.PawnKey
	undo.Castling = pos.Castling
	undo.EnPassant = pos.EnPassant
	undo.HalfMoveClock = int32(pos.HalfMoveClock)
	undo.CapturedPiece = NoPiece
	undo.CapturedSquare = NoSquare

	us := pos.SideToMove
	from, to := m.From(), m.To()
	moving := pos.PieceAt(from)

	if pos.EnPassant != NoSquare {
		pos.Hash ^= ZobristEnPassant(pos.EnPassant.File())
	}
	pos.Hash ^= ZobristCastling(pos.Castling)

	capturedSq := to
	if m.IsEnPassant() {
		capturedSq = NewSquare(to.File(), from.Rank())
	}
	if captured := pos.PieceAt(capturedSq); m.IsEnPassant() || captured != NoPiece {
		undo.CapturedPiece = captured
		undo.CapturedSquare = capturedSq
		pos.removePiece(captured, capturedSq)
	}

	switch {
	case m.IsCastle():
		pos.movePiece(moving, from, to)
		rookFrom, rookTo := castleRookSquares(us, to)
		pos.movePiece(NewPiece(Rook, us), rookFrom, rookTo)
	case m.IsPromotion():
		pos.removePiece(moving, from)
		pos.setPiece(NewPiece(m.Promotion(), us), to)
	default:
		pos.movePiece(moving, from, to)
	}

	pos.Castling &^= castlingLossMask(from) | castlingLossMask(to)

	pos.EnPassant = NoSquare
	if moving.Type() == Pawn && abs(int(to)-int(from)) == 16 {
		epSq := Square((int(from) + int(to)) / 2)
		// Only record the en-passant target when an enemy pawn can
		// actually capture there; an unreachable ep square would make
		// the Zobrist hash depend on a fact with no bearing on legal
		// play, splitting otherwise-identical transpositions.
		if PawnAttacks(us, epSq)&pos.Pieces[us.Other()][Pawn] != 0 {
			pos.EnPassant = epSq
		}
	}

	if pos.EnPassant != NoSquare {
		pos.Hash ^= ZobristEnPassant(pos.EnPassant.File())
	}
	pos.Hash ^= ZobristCastling(pos.Castling)
	pos.Hash ^= ZobristSideToMove()

	if moving.Type() == Pawn || undo.CapturedPiece != NoPiece {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
	if us == Black {
		pos.FullMoveNumber++
	}

	pos.SideToMove = us.Other()
	pos.UpdateCheckersAndPins()
}

// UnmakeMove reverses the most recent MakeMove(m, undo). Calls must nest
// exactly (unmake the most recently made move first).
func (pos *Position) UnmakeMove(m Move, undo *UndoRecord) {
	us := pos.SideToMove.Other()
	from, to := m.From(), m.To()

	switch {
	case m.IsCastle():
		pos.movePiece(pos.PieceAt(to), to, from)
		rookFrom, rookTo := castleRookSquares(us, to)
		pos.movePiece(NewPiece(Rook, us), rookTo, rookFrom)
	case m.IsPromotion():
		pos.removePiece(pos.PieceAt(to), to)
		pos.setPiece(NewPiece(Pawn, us), from)
	default:
		pos.movePiece(pos.PieceAt(to), to, from)
	}

	if undo.CapturedPiece != NoPiece {
		pos.setPiece(undo.CapturedPiece, undo.CapturedSquare)
	}

	pos.Castling = undo.Castling
	pos.EnPassant = undo.EnPassant
	pos.HalfMoveClock = int(undo.HalfMoveClock)
	if us == Black {
		pos.FullMoveNumber--
	}
	pos.SideToMove = us
	pos.Hash = undo.Hash
	pos.PawnKey = undo.PawnKey
	pos.UpdateCheckersAndPins()
}

// MakeNullMove passes the turn without moving a piece, used by null-move
// pruning. EnPassant is cleared since no pawn can capture en passant after
// a null move.
func (pos *Position) MakeNullMove(undo *UndoRecord) {
	undo.Hash = pos.Hash
	undo.EnPassant = pos.EnPassant
	if pos.EnPassant != NoSquare {
		pos.Hash ^= ZobristEnPassant(pos.EnPassant.File())
	}
	pos.EnPassant = NoSquare
	pos.Hash ^= ZobristSideToMove()
	pos.SideToMove = pos.SideToMove.Other()
	pos.UpdateCheckersAndPins()
}

// UnmakeNullMove reverses MakeNullMove.
func (pos *Position) UnmakeNullMove(undo *UndoRecord) {
	pos.SideToMove = pos.SideToMove.Other()
	pos.EnPassant = undo.EnPassant
	pos.Hash = undo.Hash
	pos.UpdateCheckersAndPins()
}
