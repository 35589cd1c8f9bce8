package engine

import (
	"sync/atomic"
	"testing"

	"chessplaycore/internal/board"
)

func TestSearchFindsMate(t *testing.T) {
	fens := []string{
		"8/2R2pp1/k3p3/8/5Bn1/6P1/5r1r/1R4K1 w - - 4 3",
		"5R2/1p1r2pk/p1n1B2p/2P1q3/2Pp4/P6b/1B1P4/2K3R1 w - - 5 3",
		"2q4k/3r3p/2p2P2/p7/2P5/P2Q2P1/5bK1/1R6 w - - 0 36",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := board.ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			var stop atomic.Bool
			tt := NewTranspositionTable(16)
			s := NewSearcher(tt, &stop)
			s.Reset(pos)

			_, score := s.SearchRoot(6)
			if score <= MateScore-MaxPly {
				t.Errorf("SearchRoot(6) on %q scored %d, want a mate score (> %d)", fen, score, MateScore-MaxPly)
			}
		})
	}
}
