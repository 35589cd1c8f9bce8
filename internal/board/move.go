package board

import "fmt"

// Move packs a chess move into 16 bits: bits 0-5 destination square, bits
// 6-11 origin square, bits 12-13 promotion piece type minus Knight (only
// meaningful when the promotion flag is set), bits 14-15 the special-move
// flag. A null move uses origin==destination as its sentinel.
type Move uint16

// Special-move flags, packed into bits 14-15.
const (
	flagNormal    uint16 = 0 << 14
	flagPromotion uint16 = 1 << 14
	flagEnPassant uint16 = 2 << 14
	flagCastle    uint16 = 3 << 14
	flagMask      uint16 = 3 << 14
)

// NoMove is the null/invalid move: origin equals destination (A1A1).
const NoMove Move = 0

func packMove(from, to Square, extra uint16) Move {
	return Move(to) | Move(from)<<6 | Move(extra)
}

// NewMove builds a normal (non-special) move.
func NewMove(from, to Square) Move { return packMove(from, to, flagNormal) }

// NewPromotion builds a promotion move; promo must be one of
// {Knight, Bishop, Rook, Queen}.
func NewPromotion(from, to Square, promo PieceType) Move {
	idx := uint16(promo - Knight)
	return packMove(from, to, flagPromotion|(idx<<12))
}

// NewEnPassant builds an en passant capture move.
func NewEnPassant(from, to Square) Move { return packMove(from, to, flagEnPassant) }

// NewCastle builds a castling move, encoded as the king's own move.
func NewCastle(from, to Square) Move { return packMove(from, to, flagCastle) }

// To returns the destination square.
func (m Move) To() Square { return Square(m & 0x3F) }

// From returns the origin square.
func (m Move) From() Square { return Square((m >> 6) & 0x3F) }

func (m Move) flag() uint16 { return uint16(m) & flagMask }

// IsPromotion reports whether m is a promotion move.
func (m Move) IsPromotion() bool { return m.flag() == flagPromotion }

// IsCastle reports whether m is a castling move.
func (m Move) IsCastle() bool { return m.flag() == flagCastle }

// IsEnPassant reports whether m is an en passant capture.
func (m Move) IsEnPassant() bool { return m.flag() == flagEnPassant }

// Promotion returns the promotion piece type; only meaningful when
// IsPromotion reports true.
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// String renders the move in UCI long algebraic notation, e.g. "e2e4" or
// "e7e8q". NoMove renders as "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// MaxMoves bounds the number of moves any legal chess position can produce,
// with headroom above the known worst case of 218.
const MaxMoves = 254

// MoveList is a fixed-capacity, allocation-free list of moves.
type MoveList struct {
	moves [MaxMoves]Move
	n     int
}

// Len returns the number of moves currently stored.
func (ml *MoveList) Len() int { return ml.n }

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }

// Swap exchanges the moves at indices i and j.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() { ml.n = 0 }

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the stored moves as a slice sharing the list's backing
// array; callers must not retain it past the next Clear/Add.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.n] }

// ParseUCIMove parses a UCI long-algebraic move string (e.g. "e2e4",
// "e7e8q") against pos to recover its special-move flags. The from/to
// squares must name a piece actually on pos; callers that already have a
// legal-move list should prefer matching against it directly.
func ParseUCIMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("board: invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("board: invalid promotion piece %q", s[4:])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("board: no piece on %s", from)
	}
	if piece.Type() == King && abs(int(to)-int(from)) == 2 {
		return NewCastle(from, to), nil
	}
	if piece.Type() == Pawn && to == pos.EnPassant {
		return NewEnPassant(from, to), nil
	}
	return NewMove(from, to), nil
}
