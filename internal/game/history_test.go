package game

import (
	"testing"

	"chessplaycore/internal/board"
)

func init() {
	board.Init()
}

func TestThreefoldRepetitionDetection(t *testing.T) {
	pos := board.NewPosition()
	h := NewHistory(pos.Hash)

	moves := []string{
		"g1f3", "g8f6",
		"f3g1", "f6g8",
		"g1f3", "g8f6",
		"f3g1", "f6g8",
	}

	var undo board.UndoRecord
	for i, s := range moves {
		m, err := board.ParseUCIMove(s, pos)
		if err != nil {
			t.Fatalf("move %d (%s): %v", i, s, err)
		}
		pos.MakeMove(m, &undo)
		h.Push(pos.Hash)

		if i < len(moves)-1 && h.IsThreefold(pos.HalfMoveClock) {
			t.Fatalf("after move %d (%s) reported threefold too early", i, s)
		}
	}

	if !h.IsThreefold(pos.HalfMoveClock) {
		t.Errorf("startpos reached a third time via knight shuffle, want threefold repetition")
	}
	if !h.IsDraw(pos) {
		t.Errorf("IsDraw should report true once IsThreefold does")
	}
}

func TestNoRepetitionAfterSingleRepeat(t *testing.T) {
	pos := board.NewPosition()
	h := NewHistory(pos.Hash)

	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	var undo board.UndoRecord
	for _, s := range moves {
		m, err := board.ParseUCIMove(s, pos)
		if err != nil {
			t.Fatalf("move %s: %v", s, err)
		}
		pos.MakeMove(m, &undo)
		h.Push(pos.Hash)
	}

	if h.IsThreefold(pos.HalfMoveClock) {
		t.Errorf("only two occurrences of startpos so far, want no threefold yet")
	}
}
