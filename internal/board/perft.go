package board

// Perft walks the legal move tree to depth and returns the leaf count, the
// standard movegen correctness and performance benchmark.
func Perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var list MoveList
	GenerateLegalMoves(pos, &list)
	if depth == 1 {
		return uint64(list.Len())
	}
	var nodes uint64
	var undo UndoRecord
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		pos.MakeMove(m, &undo)
		nodes += Perft(pos, depth-1)
		pos.UnmakeMove(m, &undo)
	}
	return nodes
}

// PerftDivide returns the leaf count contributed by each root move,
// keyed by its UCI string, for diagnosing a perft mismatch against a
// reference engine.
func PerftDivide(pos *Position, depth int) map[string]uint64 {
	var list MoveList
	GenerateLegalMoves(pos, &list)
	out := make(map[string]uint64, list.Len())
	var undo UndoRecord
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		pos.MakeMove(m, &undo)
		var nodes uint64
		if depth <= 1 {
			nodes = 1
		} else {
			nodes = Perft(pos, depth-1)
		}
		pos.UnmakeMove(m, &undo)
		out[m.String()] = nodes
	}
	return out
}
