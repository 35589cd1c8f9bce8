package engine

import (
	"testing"

	"chessplaycore/internal/board"
)

func init() {
	board.Init()
}

func TestSEEExactValues(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int
	}{
		{"rook takes pawn, undefended", "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1", "e1e5", 100},
		{"knight takes pawn, recaptured by bishop", "1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1", "d3e5", -200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
			}
			move, err := board.ParseUCIMove(tc.move, pos)
			if err != nil {
				t.Fatalf("ParseUCIMove(%q): %v", tc.move, err)
			}
			got := SEE(pos, move)
			if got != tc.want {
				t.Errorf("SEE(%s, %s) = %d, want %d", tc.fen, tc.move, got, tc.want)
			}
		})
	}
}
