package engine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"chessplaycore/internal/board"
)

// pawnCacheEntry caches the evaluated pawn-structure term for one pawn
// skeleton (doubled/isolated penalties). The slot is chosen by the xxhash of
// the Zobrist pawn key, and the entry is verified against the pawn key
// itself, so two skeletons whose Zobrist pawn keys collide share one entry.
type pawnCacheEntry struct {
	key       uint64
	mgScore   int32
	egScore   int32
	populated bool
}

// PawnCache memoizes the pawn-structure evaluation term by pawn skeleton,
// since the same handful of pawn shapes recur across thousands of nodes
// that differ only in piece placement elsewhere on the board.
type PawnCache struct {
	entries []pawnCacheEntry
	mask    uint64
}

// NewPawnCache allocates a cache with roughly sizeKB kilobytes of entries,
// rounded down to a power of two.
func NewPawnCache(sizeKB int) *PawnCache {
	const entrySize = 24
	n := roundDownToPowerOf2(uint64(sizeKB) * 1024 / entrySize)
	if n == 0 {
		n = 1
	}
	return &PawnCache{entries: make([]pawnCacheEntry, n), mask: n - 1}
}

func pawnCacheIndex(pawnKey uint64, mask uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], pawnKey)
	return xxhash.Sum64(buf[:]) & mask
}

// Probe returns the cached middlegame/endgame pawn-structure scores for
// pawnKey, if present.
func (pc *PawnCache) Probe(pawnKey uint64) (mg, eg int, found bool) {
	e := &pc.entries[pawnCacheIndex(pawnKey, pc.mask)]
	if e.populated && e.key == pawnKey {
		return int(e.mgScore), int(e.egScore), true
	}
	return 0, 0, false
}

// Store records the pawn-structure scores for pawnKey.
func (pc *PawnCache) Store(pawnKey uint64, mg, eg int) {
	e := &pc.entries[pawnCacheIndex(pawnKey, pc.mask)]
	e.key = pawnKey
	e.mgScore = int32(mg)
	e.egScore = int32(eg)
	e.populated = true
}

// Clear empties the cache.
func (pc *PawnCache) Clear() {
	for i := range pc.entries {
		pc.entries[i] = pawnCacheEntry{}
	}
}

// PawnStructureScore returns the doubled/isolated pawn penalty for pos,
// from White's perspective, consulting cache first.
func PawnStructureScore(pos *board.Position, cache *PawnCache) (mg, eg int) {
	if cache != nil {
		if cmg, ceg, ok := cache.Probe(pos.PawnKey); ok {
			return cmg, ceg
		}
	}
	mg, eg = computePawnStructure(pos)
	if cache != nil {
		cache.Store(pos.PawnKey, mg, eg)
	}
	return mg, eg
}

func computePawnStructure(pos *board.Position) (mg, eg int) {
	const doubledPenaltyMg, doubledPenaltyEg = -10, -20
	const isolatedPenaltyMg, isolatedPenaltyEg = -15, -10

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		pawns := pos.Pieces[c][board.Pawn]
		for file := 0; file < 8; file++ {
			onFile := pawns & board.FileMask[file]
			count := onFile.PopCount()
			if count > 1 {
				mg += sign * doubledPenaltyMg * (count - 1)
				eg += sign * doubledPenaltyEg * (count - 1)
			}
			if count == 0 {
				continue
			}
			var neighbors board.Bitboard
			if file > 0 {
				neighbors |= board.FileMask[file-1]
			}
			if file < 7 {
				neighbors |= board.FileMask[file+1]
			}
			if pawns&neighbors == 0 {
				mg += sign * isolatedPenaltyMg
				eg += sign * isolatedPenaltyEg
			}
		}
	}
	return mg, eg
}
