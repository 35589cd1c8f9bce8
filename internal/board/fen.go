package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a Position from Forsyth-Edwards Notation. The half-move
// clock and move-counter fields are optional; when absent they default to
// 0 and 1 respectively, matching engines that accept trimmed FENs.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, newFenError(FenErrBadFieldCount, fen, nil)
	}

	pos := &Position{EnPassant: NoSquare, FullMoveNumber: 1}

	if err := parsePlacement(pos, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, newFenError(FenErrBadSideToMove, fields[1], nil)
	}

	cr, err := parseCastling(fields[2])
	if err != nil {
		return nil, err
	}
	pos.Castling = cr

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, newFenError(FenErrBadEnPassant, fields[3], err)
		}
		// Only keep the target when a pawn of the side to move can actually
		// capture there, matching the condition MakeMove applies when it
		// sets EnPassant after a double push; otherwise two FENs that
		// differ only in an uncapturable ep square would hash differently
		// for no reason tied to legal play.
		if PawnAttacks(pos.SideToMove.Other(), sq)&pos.Pieces[pos.SideToMove][Pawn] != 0 {
			pos.EnPassant = sq
		}
	}

	if len(fields) > 4 {
		hc, err := strconv.Atoi(fields[4])
		if err != nil || hc < 0 {
			return nil, newFenError(FenErrBadHalfmoveClock, fields[4], err)
		}
		pos.HalfMoveClock = hc
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return nil, newFenError(FenErrBadFullmoveNumber, fields[5], err)
		}
		pos.FullMoveNumber = fm
	}

	pos.Hash = computeHash(pos)
	pos.PawnKey = computePawnKey(pos)
	if pos.KingSquare[White] == 0 && pos.Pieces[White][King] != 0 {
		pos.KingSquare[White] = pos.Pieces[White][King].LSB()
	}
	if pos.Pieces[Black][King] != 0 {
		pos.KingSquare[Black] = pos.Pieces[Black][King].LSB()
	}
	pos.UpdateCheckersAndPins()
	return pos, nil
}

func parsePlacement(pos *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return newFenError(FenErrBadPlacement, field, nil)
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := PieceFromChar(byte(ch))
			if p == NoPiece {
				return newFenError(FenErrBadPlacement, field, nil)
			}
			if file > 7 {
				return newFenError(FenErrBadPlacement, field, nil)
			}
			sq := NewSquare(file, rank)
			c, pt := p.Side(), p.Type()
			bb := SquareBB(sq)
			pos.Pieces[c][pt] |= bb
			pos.Occupied[c] |= bb
			pos.All |= bb
			file++
		}
		if file != 8 {
			return newFenError(FenErrBadPlacement, field, nil)
		}
	}
	return nil
}

func parseCastling(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}
	var cr CastlingRights
	for _, ch := range field {
		switch ch {
		case 'K':
			cr |= WhiteKingside
		case 'Q':
			cr |= WhiteQueenside
		case 'k':
			cr |= BlackKingside
		case 'q':
			cr |= BlackQueenside
		default:
			return NoCastling, newFenError(FenErrBadCastling, field, nil)
		}
	}
	return cr, nil
}

// ToFEN renders pos as a FEN string.
func (pos *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.PieceAt(NewSquare(file, rank))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if pos.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if pos.Castling == NoCastling {
		sb.WriteByte('-')
	} else {
		if pos.Castling.Has(WhiteKingside) {
			sb.WriteByte('K')
		}
		if pos.Castling.Has(WhiteQueenside) {
			sb.WriteByte('Q')
		}
		if pos.Castling.Has(BlackKingside) {
			sb.WriteByte('k')
		}
		if pos.Castling.Has(BlackQueenside) {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullMoveNumber))

	return sb.String()
}

// computeHash derives the full Zobrist hash from scratch; used only when
// building a Position directly (ParseFEN). MakeMove/UnmakeMove maintain
// pos.Hash incrementally afterward.
func computeHash(pos *Position) uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				h ^= ZobristPiece(c, pt, sq)
			}
		}
	}
	if pos.EnPassant != NoSquare {
		h ^= ZobristEnPassant(pos.EnPassant.File())
	}
	h ^= ZobristCastling(pos.Castling)
	if pos.SideToMove == Black {
		h ^= ZobristSideToMove()
	}
	return h
}

func computePawnKey(pos *Position) uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		bb := pos.Pieces[c][Pawn]
		for bb != 0 {
			sq := bb.PopLSB()
			h ^= ZobristPiece(c, Pawn, sq)
		}
	}
	return h
}
