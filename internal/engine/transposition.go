package engine

import (
	"sync/atomic"

	"chessplaycore/internal/board"
)

// TTFlag indicates how the stored score relates to the window it was
// computed in.
type TTFlag uint8

// Bound kinds.
const (
	TTExact      TTFlag = iota // score is exact
	TTLowerBound               // score failed high (a lower bound on the true value)
	TTUpperBound               // score failed low (an upper bound on the true value)
)

// ttEntry is a lock-free slot: two words written independently with plain
// atomic stores, no mutex. A torn read (one goroutine's store landing
// between another's two word writes) is caught because key is written as
// hash XOR data; unless both words belong to the same write, the XOR on
// Probe won't reproduce the probed hash, and the entry is treated as a miss.
type ttEntry struct {
	key  atomic.Uint64 // hash ^ data, as written
	data atomic.Uint64 // packed move/score/depth/flag/generation
}

// data field layout (bit offsets):
//
//	0..15  move          (board.Move)
//	16..31 score+32768    (uint16, bias-encoded so it round-trips through uint64 cleanly)
//	32..39 depth          (uint8)
//	40..41 flag           (TTFlag)
//	42..49 generation     (uint8)
const (
	dataShiftMove  = 0
	dataShiftScore = 16
	dataShiftDepth = 32
	dataShiftFlag  = 40
	dataShiftGen   = 42

	scoreBias = 1 << 15
)

func packData(move board.Move, score int, depth int, flag TTFlag, gen uint8) uint64 {
	biased := uint64(int64(score)+scoreBias) & 0xFFFF
	return uint64(move)<<dataShiftMove |
		biased<<dataShiftScore |
		uint64(uint8(depth))<<dataShiftDepth |
		uint64(flag)<<dataShiftFlag |
		uint64(gen)<<dataShiftGen
}

func unpackData(data uint64) (move board.Move, score int, depth int, flag TTFlag, gen uint8) {
	move = board.Move(data >> dataShiftMove & 0xFFFF)
	score = int((data>>dataShiftScore&0xFFFF)) - scoreBias
	depth = int(data >> dataShiftDepth & 0xFF)
	flag = TTFlag(data >> dataShiftFlag & 0x3)
	gen = uint8(data >> dataShiftGen & 0xFF)
	return
}

// TTEntry is the caller-facing, unpacked view of a probed slot.
type TTEntry struct {
	Move  board.Move
	Score int
	Depth int
	Flag  TTFlag
	Found bool
}

// TranspositionTable is a fixed-size, racy shared hash table: multiple
// search workers probe and store concurrently with no synchronization
// beyond the per-word atomics in ttEntry. Collisions and stale reads from a
// concurrent writer are expected and self-heal on the next store; the table
// trades perfect correctness for zero contention, same tradeoff every
// engine with a shared Lazy-SMP hash table makes.
type TranspositionTable struct {
	entries []ttEntry
	mask    uint64
	gen     atomic.Uint32
}

// NewTranspositionTable allocates a table sized to approximately sizeMB
// megabytes, rounded down to a power of two number of entries.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const entrySize = 16 // two uint64 words
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	return &TranspositionTable{
		entries: make([]ttEntry, numEntries),
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up hash. Found is false on a miss or a torn/colliding read.
func (tt *TranspositionTable) Probe(hash uint64) TTEntry {
	idx := hash & tt.mask
	slot := &tt.entries[idx]
	data := slot.data.Load()
	key := slot.key.Load()
	if key^data != hash {
		return TTEntry{}
	}
	move, score, depth, flag, _ := unpackData(data)
	return TTEntry{Move: move, Score: score, Depth: depth, Flag: flag, Found: true}
}

// Store writes an entry, preferring to keep deeper same-generation entries
// over shallower ones but always overwriting entries from a prior
// generation (a new NewSearch call).
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, move board.Move) {
	idx := hash & tt.mask
	slot := &tt.entries[idx]
	gen := uint8(tt.gen.Load())

	if existing := slot.data.Load(); existing != 0 {
		_, _, existingDepth, _, existingGen := unpackData(existing)
		if existingGen == gen && existingDepth > depth {
			return
		}
	}

	data := packData(move, score, depth, flag, gen)
	slot.data.Store(data)
	slot.key.Store(hash ^ data)
}

// NewSearch bumps the generation counter so Store can distinguish entries
// from the just-finished search from ones written in earlier roots.
func (tt *TranspositionTable) NewSearch() { tt.gen.Add(1) }

// Clear zeroes every slot.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i].key.Store(0)
		tt.entries[i].data.Store(0)
	}
	tt.gen.Store(0)
}

// Size returns the number of slots in the table.
func (tt *TranspositionTable) Size() uint64 { return uint64(len(tt.entries)) }

// HashFull estimates, in permille, how full the table is by sampling its
// first 1000 slots against the current generation.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if uint64(sample) > tt.Size() {
		sample = int(tt.Size())
	}
	gen := uint8(tt.gen.Load())
	used := 0
	for i := 0; i < sample; i++ {
		data := tt.entries[i].data.Load()
		if data == 0 {
			continue
		}
		_, _, depth, _, entryGen := unpackData(data)
		if depth > 0 && entryGen == gen {
			used++
		}
	}
	return used * 1000 / sample
}

// AdjustScoreFromTT converts a mate score stored relative to the root back
// into one relative to the current ply.
func AdjustScoreFromTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score - ply
	case score < -MateScore+MaxPly:
		return score + ply
	default:
		return score
	}
}

// AdjustScoreToTT converts a ply-relative mate score into one relative to
// the root, for stable storage regardless of which ply first found it.
func AdjustScoreToTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score + ply
	case score < -MateScore+MaxPly:
		return score - ply
	default:
		return score
	}
}
