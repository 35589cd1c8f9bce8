package board

// CastlingRights packs the four castling privileges into one nibble.
type CastlingRights uint8

// Castling right bits.
const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Has reports whether all bits of other are set in cr.
func (cr CastlingRights) Has(other CastlingRights) bool { return cr&other == other }

// Position holds the full state of a chess position: piece placement, side
// to move, castling/en-passant/clock state, and the derived attack state
// (checkers, pin blockers/pinners) that legality filtering and search both
// depend on. UnmakeMove restores the clocks, castling, en-passant and hash
// fields from an UndoRecord snapshot, moves the pieces back, and recomputes
// Checkers/Blockers/Pinners via UpdateCheckersAndPins, so derived state must
// be kept consistent by every mutator in this package.
type Position struct {
	Pieces   [2][7]Bitboard // [Side][PieceType]; index 0 (NoPieceType) unused
	Occupied [2]Bitboard
	All      Bitboard

	SideToMove     Side
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	Hash    uint64
	PawnKey uint64

	KingSquare [2]Square

	// Checkers is the set of enemy pieces currently giving check to the
	// side to move's king.
	Checkers Bitboard
	// Blockers[c] are the pieces (either color) standing between an enemy
	// slider and side c's king; moving one away from the pin line exposes
	// check unless it stays aligned.
	Blockers [2]Bitboard
	// Pinners[c] are the enemy sliders pinning a piece in Blockers[c].
	Pinners [2]Bitboard
}

// NewPosition returns the standard starting position. Init must have run
// first.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: start FEN must parse: " + err.Error())
	}
	return pos
}

// PieceAt returns the piece occupying sq, or NoPiece.
func (pos *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	for c := White; c <= Black; c++ {
		if pos.Occupied[c]&bb == 0 {
			continue
		}
		for pt := Pawn; pt <= King; pt++ {
			if pos.Pieces[c][pt]&bb != 0 {
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

func (pos *Position) setPiece(p Piece, sq Square) {
	c, pt := p.Side(), p.Type()
	bb := SquareBB(sq)
	pos.Pieces[c][pt] |= bb
	pos.Occupied[c] |= bb
	pos.All |= bb
	pos.Hash ^= ZobristPiece(c, pt, sq)
	if pt == Pawn {
		pos.PawnKey ^= ZobristPiece(c, pt, sq)
	}
	if pt == King {
		pos.KingSquare[c] = sq
	}
}

func (pos *Position) removePiece(p Piece, sq Square) {
	c, pt := p.Side(), p.Type()
	bb := SquareBB(sq)
	pos.Pieces[c][pt] &^= bb
	pos.Occupied[c] &^= bb
	pos.All &^= bb
	pos.Hash ^= ZobristPiece(c, pt, sq)
	if pt == Pawn {
		pos.PawnKey ^= ZobristPiece(c, pt, sq)
	}
}

func (pos *Position) movePiece(p Piece, from, to Square) {
	c, pt := p.Side(), p.Type()
	mask := SquareBB(from) | SquareBB(to)
	pos.Pieces[c][pt] ^= mask
	pos.Occupied[c] ^= mask
	pos.All ^= mask
	pos.Hash ^= ZobristPiece(c, pt, from) ^ ZobristPiece(c, pt, to)
	if pt == Pawn {
		pos.PawnKey ^= ZobristPiece(c, pt, from) ^ ZobristPiece(c, pt, to)
	}
	if pt == King {
		pos.KingSquare[c] = to
	}
}

// UpdateCheckersAndPins recomputes Checkers (for the side to move) and the
// Blockers/Pinners pin state for both kings. Called after every make/unmake
// so that IsLegal needs an attack probe only for king moves and en passant.
func (pos *Position) UpdateCheckersAndPins() {
	us := pos.SideToMove
	pos.Checkers = pos.attackersTo(pos.KingSquare[us], pos.All) & pos.Occupied[us.Other()]

	for _, c := range [2]Side{White, Black} {
		pos.computePins(c)
	}
}

// computePins fills Blockers[c] and Pinners[c] for the king of side c: the
// enemy sliders that would give check along a ray to the king if not for a
// single piece sitting between them, and that blocking piece itself.
func (pos *Position) computePins(c Side) {
	var blockers, pinners Bitboard
	them := c.Other()
	king := pos.KingSquare[c]

	snipers := ((bishopMaskAttacks(king) & (pos.Pieces[them][Bishop] | pos.Pieces[them][Queen])) |
		(rookMaskAttacks(king) & (pos.Pieces[them][Rook] | pos.Pieces[them][Queen])))

	occludedByOwn := pos.All &^ snipers
	for s := snipers; s.Any(); {
		sniperSq := s.PopLSB()
		between := Between(king, sniperSq) & occludedByOwn
		if between.PopCount() == 1 {
			blockers |= between
			pinners |= SquareBB(sniperSq)
		}
	}
	pos.Blockers[c] = blockers
	pos.Pinners[c] = pinners
}

// bishopMaskAttacks/rookMaskAttacks return an empty-board slider attack set,
// used only to find candidate pinning sliders cheaply before the precise
// Between() test.
func bishopMaskAttacks(sq Square) Bitboard { return BishopAttacks(sq, Empty) }
func rookMaskAttacks(sq Square) Bitboard   { return RookAttacks(sq, Empty) }

// attackersTo returns every piece of either color attacking sq, given an
// explicit occupancy (so callers can probe through a hypothetically moved
// piece during SEE).
func (pos *Position) attackersTo(sq Square, occupied Bitboard) Bitboard {
	var attackers Bitboard
	attackers |= PawnAttacks(White, sq) & pos.Pieces[Black][Pawn]
	attackers |= PawnAttacks(Black, sq) & pos.Pieces[White][Pawn]
	attackers |= KnightAttacks(sq) & (pos.Pieces[White][Knight] | pos.Pieces[Black][Knight])
	attackers |= KingAttacks(sq) & (pos.Pieces[White][King] | pos.Pieces[Black][King])
	bishops := pos.Pieces[White][Bishop] | pos.Pieces[Black][Bishop] | pos.Pieces[White][Queen] | pos.Pieces[Black][Queen]
	attackers |= BishopAttacks(sq, occupied) & bishops
	rooks := pos.Pieces[White][Rook] | pos.Pieces[Black][Rook] | pos.Pieces[White][Queen] | pos.Pieces[Black][Queen]
	attackers |= RookAttacks(sq, occupied) & rooks
	return attackers
}

// AttackersTo returns every piece of either color attacking sq on the
// current occupancy.
func (pos *Position) AttackersTo(sq Square) Bitboard { return pos.attackersTo(sq, pos.All) }

// AttackersToOccupancy returns every piece of either color attacking sq
// given an explicit occupancy bitboard, letting callers such as SEE probe
// attacks through a hypothetically shrunken board without mutating pos.
func (pos *Position) AttackersToOccupancy(sq Square, occupied Bitboard) Bitboard {
	return pos.attackersTo(sq, occupied)
}

// IsSquareAttacked reports whether sq is attacked by side c.
func (pos *Position) IsSquareAttacked(sq Square, c Side) bool {
	return pos.attackersTo(sq, pos.All)&pos.Occupied[c] != 0
}

// InCheck reports whether the side to move's king is currently attacked.
func (pos *Position) InCheck() bool { return pos.Checkers.Any() }

// HasNonPawnMaterial reports whether side c has any piece other than pawns
// and king, used to gate null-move pruning against zugzwang-prone endgames.
func (pos *Position) HasNonPawnMaterial(c Side) bool {
	return pos.Pieces[c][Knight]|pos.Pieces[c][Bishop]|pos.Pieces[c][Rook]|pos.Pieces[c][Queen] != 0
}

// Clone returns an independent copy of pos. Position has no pointer or slice
// fields, so a value copy is a full deep copy; this exists so callers (one
// per search worker) don't need to know that.
func (pos *Position) Clone() *Position {
	clone := *pos
	return &clone
}
