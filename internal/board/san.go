package board

import (
	"fmt"
	"strings"
)

// IsCapture reports whether m captures a piece in pos (including en
// passant). m must be pseudo-legal in pos.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return pos.Occupied[pos.SideToMove.Other()].IsSet(m.To())
}

// ToSAN renders m in Standard Algebraic Notation relative to pos, including
// check/checkmate suffixes. m must be legal in pos.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}
	if m.IsCastle() {
		san := "O-O"
		if m.To().File() == C1.File() {
			san = "O-O-O"
		}
		return san + checkSuffix(pos, m)
	}

	from, to := m.From(), m.To()
	piece := pos.PieceAt(from)
	pt := piece.Type()

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteByte("_NBRQK"[pt-Knight+1])
		sb.WriteString(disambiguation(pos, m, pt))
	}
	if m.IsCapture(pos) {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("_NBRQ"[m.Promotion()-Knight+1])
	}
	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

func checkSuffix(pos *Position, m Move) string {
	var undo UndoRecord
	pos.MakeMove(m, &undo)
	defer pos.UnmakeMove(m, &undo)
	switch {
	case pos.IsCheckmate():
		return "#"
	case pos.InCheck():
		return "+"
	default:
		return ""
	}
}

func disambiguation(pos *Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	us := pos.SideToMove

	var list MoveList
	GenerateLegalMoves(pos, &list)

	sameFile, sameRank, any := false, false, false
	for i := 0; i < list.Len(); i++ {
		other := list.Get(i)
		if other.To() != to || other.From() == from {
			continue
		}
		if !pos.Pieces[us][pt].IsSet(other.From()) {
			continue
		}
		any = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !any:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN parses a Standard Algebraic Notation move string against the
// legal moves available in pos.
func ParseSAN(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)
	var list MoveList
	GenerateLegalMoves(pos, &list)

	s = strings.TrimSuffix(s, "+")
	s = strings.TrimSuffix(s, "#")
	s = strings.TrimSuffix(s, "!")
	s = strings.TrimSuffix(s, "?")

	if s == "O-O" || s == "0-0" {
		return findCastle(&list, pos.SideToMove, false)
	}
	if s == "O-O-O" || s == "0-0-0" {
		return findCastle(&list, pos.SideToMove, true)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 >= len(s) {
			return NoMove, fmt.Errorf("board: san %q: missing promotion piece", s)
		}
		var err error
		promo, err = pieceTypeFromSANChar(s[idx+1])
		if err != nil {
			return NoMove, err
		}
		s = s[:idx]
	}

	isCapture := strings.ContainsRune(s, 'x')
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		var err error
		pt, err = pieceTypeFromSANChar(s[0])
		if err != nil {
			return NoMove, err
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("board: san %q: missing destination square", s)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("board: san %q: %w", s, err)
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		}
	}

	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		if m.To() != dest {
			continue
		}
		from := m.From()
		if pos.PieceAt(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture != m.IsCapture(pos) {
			continue
		}
		if promo != NoPieceType && (!m.IsPromotion() || m.Promotion() != promo) {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("board: san %q: no matching legal move", s)
}

func findCastle(list *MoveList, us Side, queenside bool) (Move, error) {
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		if !m.IsCastle() {
			continue
		}
		isQueenside := m.To().File() == C1.File()
		if isQueenside == queenside {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("board: no legal castle available")
}

func pieceTypeFromSANChar(c byte) (PieceType, error) {
	switch c {
	case 'N':
		return Knight, nil
	case 'B':
		return Bishop, nil
	case 'R':
		return Rook, nil
	case 'Q':
		return Queen, nil
	case 'K':
		return King, nil
	default:
		return NoPieceType, fmt.Errorf("board: san: unrecognized piece letter %q", c)
	}
}
