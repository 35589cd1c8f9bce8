package board

// PieceType is the kind of chess piece, independent of color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type's English name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase FEN letter for the piece type.
func (pt PieceType) Char() byte {
	chars := [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}
	if int(pt) >= len(chars) {
		return ' '
	}
	return chars[pt]
}

// IsPromotable reports whether pt is one of the four promotion-eligible
// piece types {Knight, Bishop, Rook, Queen}.
func (pt PieceType) IsPromotable() bool {
	return pt >= Knight && pt <= Queen
}

// PieceValue gives the material value of each piece type in centipawns,
// indexed by PieceType. The None entry is unused; the King entry is a
// placeholder that cancels out in evaluation, since each side has one king.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// Piece packs PieceType and Side into one value: piece = 6*side + pieceType
// for non-empty pieces, with None = 0.
type Piece uint8

const (
	NoPiece Piece = 0

	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)

	BlackPawn   Piece = Piece(Pawn) + 6
	BlackKnight Piece = Piece(Knight) + 6
	BlackBishop Piece = Piece(Bishop) + 6
	BlackRook   Piece = Piece(Rook) + 6
	BlackQueen  Piece = Piece(Queen) + 6
	BlackKing   Piece = Piece(King) + 6
)

// NewPiece combines a PieceType and Side into a Piece.
func NewPiece(pt PieceType, c Side) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(6*uint8(c)) + Piece(pt)
}

// Type extracts the PieceType from a Piece.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	if p > 6 {
		return PieceType(p - 6)
	}
	return PieceType(p)
}

// Side extracts the Side (color) from a Piece; undefined for NoPiece.
func (p Piece) Side() Side {
	if p > 6 {
		return Black
	}
	return White
}

// String returns the FEN letter for the piece: uppercase for White,
// lowercase for Black, "." for NoPiece.
func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	c := p.Type().Char()
	if p.Side() == White {
		c -= 'a' - 'A'
	}
	return string(c)
}

// PieceFromChar maps a FEN piece letter to a Piece, or NoPiece if c is not
// a recognized letter.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
