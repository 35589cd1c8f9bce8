package board

// Move generation produces pseudo-legal moves per piece kind and filters
// them into legal moves using the position's precomputed pin state
// (Blockers/Pinners/Checkers) rather than the slower make-move-then-see-if-
// the-king-is-attacked approach: only the king's own destination, the
// squares a castling king crosses, and the handful of en-passant
// discovered-check cases need an attack probe at generation time.

// GeneratePseudoLegal appends every pseudo-legal move (including castling
// and en passant) to list. Pseudo-legal means the moving side's king may be
// left in check; callers needing only legal moves should call IsLegal on
// each, or use GenerateLegalMoves.
func GeneratePseudoLegal(pos *Position, list *MoveList) {
	us := pos.SideToMove
	own := pos.Occupied[us]
	generatePawnMoves(pos, list, us, ^own)
	generateKnightMoves(pos, list, us, ^own)
	generateBishopMoves(pos, list, us, ^own)
	generateRookMoves(pos, list, us, ^own)
	generateQueenMoves(pos, list, us, ^own)
	generateKingMoves(pos, list, us, ^own)
	if pos.Checkers.None() {
		generateCastling(pos, list, us)
	}
}

// GenerateCaptures appends only pseudo-legal captures (and straight-push
// promotions to all four piece types, which quiescence search also wants to
// consider) to list.
func GenerateCaptures(pos *Position, list *MoveList) {
	us := pos.SideToMove
	enemy := pos.Occupied[us.Other()]
	generatePawnCaptures(pos, list, us, enemy)
	generateKnightMoves(pos, list, us, enemy)
	generateBishopMoves(pos, list, us, enemy)
	generateRookMoves(pos, list, us, enemy)
	generateQueenMoves(pos, list, us, enemy)
	generateKingMoves(pos, list, us, enemy)
}

// GenerateLegalMoves appends every fully legal move to list.
func GenerateLegalMoves(pos *Position, list *MoveList) {
	var pseudo MoveList
	GeneratePseudoLegal(pos, &pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if pos.IsLegal(m) {
			list.Add(m)
		}
	}
}

// IsLegal reports whether the pseudo-legal move m leaves the side to move's
// own king safe. It relies on pos.Checkers/Blockers/Pinners already being
// current for pos (i.e. UpdateCheckersAndPins has run since the last
// mutation), which MakeMove/UnmakeMove/ParseFEN guarantee.
func (pos *Position) IsLegal(m Move) bool {
	us := pos.SideToMove
	from, to := m.From(), m.To()
	king := pos.KingSquare[us]

	if m.IsEnPassant() {
		return pos.enPassantIsLegal(m)
	}

	if from == king {
		if m.IsCastle() {
			return true // generateCastling only emits already-vetted moves
		}
		occWithoutKing := pos.All &^ SquareBB(king)
		return pos.attackersTo(to, occWithoutKing)&pos.Occupied[us.Other()] == 0
	}

	switch pos.Checkers.PopCount() {
	case 2:
		return false // double check: only the king may move
	case 1:
		checker := pos.Checkers.LSB()
		safeSquares := SquareBB(checker) | Between(king, checker)
		if safeSquares&SquareBB(to) == 0 {
			return false
		}
	}

	if pos.Blockers[us]&SquareBB(from) == 0 {
		return true // not pinned
	}
	return Aligned(king, from, to)
}

// enPassantIsLegal handles the one pin shape the generic blockers test
// cannot see: the captured pawn sitting beside the capturing pawn can itself
// unmask a rank pin once both pawns leave the rank in the same move.
func (pos *Position) enPassantIsLegal(m Move) bool {
	us := pos.SideToMove
	from, to := m.From(), m.To()
	king := pos.KingSquare[us]
	capturedSq := NewSquare(to.File(), from.Rank())

	occ := pos.All
	occ &^= SquareBB(from)
	occ &^= SquareBB(capturedSq)
	occ |= SquareBB(to)

	them := us.Other()
	attackers := (RookAttacks(king, occ) & (pos.Pieces[them][Rook] | pos.Pieces[them][Queen])) |
		(BishopAttacks(king, occ) & (pos.Pieces[them][Bishop] | pos.Pieces[them][Queen]))
	return attackers == 0
}

func generatePawnMoves(pos *Position, list *MoveList, us Side, targetMask Bitboard) {
	them := us.Other()
	enemy := pos.Occupied[them]
	empty := ^pos.All

	pushRank := Rank3
	promoRank := Rank8
	if us == Black {
		pushRank = Rank6
		promoRank = Rank1
	}

	pawns := pos.Pieces[us][Pawn]
	for bb := pawns; bb.Any(); {
		from := bb.PopLSB()
		single := PawnPush(us, from) & empty
		if single.Any() && single&targetMask != 0 {
			to := single.LSB()
			addPawnMove(list, from, to, promoRank)
		}
		if single.Any() && single&pushRank != 0 {
			var double Bitboard
			if us == White {
				double = single.North() & empty
			} else {
				double = single.South() & empty
			}
			if double.Any() && double&targetMask != 0 {
				list.Add(NewMove(from, double.LSB()))
			}
		}

		attacks := PawnAttacks(us, from) & enemy & targetMask
		for attacks.Any() {
			to := attacks.PopLSB()
			addPawnMove(list, from, to, promoRank)
		}

		if pos.EnPassant != NoSquare && PawnAttacks(us, from).IsSet(pos.EnPassant) {
			list.Add(NewEnPassant(from, pos.EnPassant))
		}
	}
}

func generatePawnCaptures(pos *Position, list *MoveList, us Side, enemy Bitboard) {
	generatePawnMoves(pos, list, us, enemy)
	// Promotions to a quiet square still matter for quiescence material
	// swings, so include straight-push promotions here as well.
	promoRank := Rank8
	if us == Black {
		promoRank = Rank1
	}
	empty := ^pos.All
	for bb := pos.Pieces[us][Pawn]; bb.Any(); {
		from := bb.PopLSB()
		single := PawnPush(us, from) & empty
		if single.Any() && single&promoRank != 0 {
			addPawnMove(list, from, single.LSB(), promoRank)
		}
	}
}

func addPawnMove(list *MoveList, from, to Square, promoRank Bitboard) {
	if promoRank.IsSet(to) {
		list.Add(NewPromotion(from, to, Queen))
		list.Add(NewPromotion(from, to, Rook))
		list.Add(NewPromotion(from, to, Bishop))
		list.Add(NewPromotion(from, to, Knight))
		return
	}
	list.Add(NewMove(from, to))
}

func generateKnightMoves(pos *Position, list *MoveList, us Side, targetMask Bitboard) {
	for bb := pos.Pieces[us][Knight]; bb.Any(); {
		from := bb.PopLSB()
		for att := KnightAttacks(from) & targetMask; att.Any(); {
			list.Add(NewMove(from, att.PopLSB()))
		}
	}
}

func generateBishopMoves(pos *Position, list *MoveList, us Side, targetMask Bitboard) {
	for bb := pos.Pieces[us][Bishop]; bb.Any(); {
		from := bb.PopLSB()
		for att := BishopAttacks(from, pos.All) & targetMask; att.Any(); {
			list.Add(NewMove(from, att.PopLSB()))
		}
	}
}

func generateRookMoves(pos *Position, list *MoveList, us Side, targetMask Bitboard) {
	for bb := pos.Pieces[us][Rook]; bb.Any(); {
		from := bb.PopLSB()
		for att := RookAttacks(from, pos.All) & targetMask; att.Any(); {
			list.Add(NewMove(from, att.PopLSB()))
		}
	}
}

func generateQueenMoves(pos *Position, list *MoveList, us Side, targetMask Bitboard) {
	for bb := pos.Pieces[us][Queen]; bb.Any(); {
		from := bb.PopLSB()
		for att := QueenAttacks(from, pos.All) & targetMask; att.Any(); {
			list.Add(NewMove(from, att.PopLSB()))
		}
	}
}

func generateKingMoves(pos *Position, list *MoveList, us Side, targetMask Bitboard) {
	from := pos.KingSquare[us]
	for att := KingAttacks(from) & targetMask; att.Any(); {
		list.Add(NewMove(from, att.PopLSB()))
	}
}

func generateCastling(pos *Position, list *MoveList, us Side) {
	them := us.Other()
	if us == White {
		if pos.Castling.Has(WhiteKingside) &&
			pos.All&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			!pos.IsSquareAttacked(F1, them) && !pos.IsSquareAttacked(G1, them) {
			list.Add(NewCastle(E1, G1))
		}
		if pos.Castling.Has(WhiteQueenside) &&
			pos.All&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			!pos.IsSquareAttacked(D1, them) && !pos.IsSquareAttacked(C1, them) {
			list.Add(NewCastle(E1, C1))
		}
		return
	}
	if pos.Castling.Has(BlackKingside) &&
		pos.All&(SquareBB(F8)|SquareBB(G8)) == 0 &&
		!pos.IsSquareAttacked(F8, them) && !pos.IsSquareAttacked(G8, them) {
		list.Add(NewCastle(E8, G8))
	}
	if pos.Castling.Has(BlackQueenside) &&
		pos.All&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
		!pos.IsSquareAttacked(D8, them) && !pos.IsSquareAttacked(C8, them) {
		list.Add(NewCastle(E8, C8))
	}
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, without materializing the full list.
func (pos *Position) HasLegalMoves() bool {
	var pseudo MoveList
	GeneratePseudoLegal(pos, &pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		if pos.IsLegal(pseudo.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is in check with no legal
// reply.
func (pos *Position) IsCheckmate() bool {
	return pos.InCheck() && !pos.HasLegalMoves()
}

// IsStalemate reports whether the side to move is not in check but has no
// legal move.
func (pos *Position) IsStalemate() bool {
	return !pos.InCheck() && !pos.HasLegalMoves()
}

// IsInsufficientMaterial reports whether neither side has enough material
// to deliver checkmate by any sequence of legal moves (K vs K, K+N vs K,
// K+B vs K, and same-colour-bishop K+B vs K+B).
func (pos *Position) IsInsufficientMaterial() bool {
	if pos.Pieces[White][Pawn]|pos.Pieces[Black][Pawn] != 0 {
		return false
	}
	if pos.Pieces[White][Rook]|pos.Pieces[Black][Rook]|pos.Pieces[White][Queen]|pos.Pieces[Black][Queen] != 0 {
		return false
	}
	wMinor := pos.Pieces[White][Knight].PopCount() + pos.Pieces[White][Bishop].PopCount()
	bMinor := pos.Pieces[Black][Knight].PopCount() + pos.Pieces[Black][Bishop].PopCount()
	if wMinor == 0 && bMinor == 0 {
		return true
	}
	if wMinor == 1 && bMinor == 0 && pos.Pieces[White][Knight] == 0 {
		return true // lone bishop
	}
	if bMinor == 1 && wMinor == 0 && pos.Pieces[Black][Knight] == 0 {
		return true
	}
	if wMinor == 1 && bMinor == 1 && pos.Pieces[White][Bishop] != 0 && pos.Pieces[Black][Bishop] != 0 {
		wDark := pos.Pieces[White][Bishop]&darkSquares != 0
		bDark := pos.Pieces[Black][Bishop]&darkSquares != 0
		if wDark == bDark {
			return true
		}
	}
	if wMinor == 1 && bMinor == 0 && pos.Pieces[White][Knight] != 0 {
		return true
	}
	if bMinor == 1 && wMinor == 0 && pos.Pieces[Black][Knight] != 0 {
		return true
	}
	return false
}

const darkSquares Bitboard = 0xAA55AA55AA55AA55
