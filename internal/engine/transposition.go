package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry is one slot of a bucket. Verification is the low 32 bits of the
// Zobrist key; a zero verification means the slot is vacant (this costs
// one key in 2^32 being mistaken for empty, the usual TT tradeoff).
type TTEntry struct {
	Verification uint32
	BestMove     board.ShortMove
	Score        int16
	Depth        int8
	Flag         TTFlag
}

// ttBucket holds three entries sharing one bucket index. Probing all
// three catches collisions that a single-entry table would simply evict.
type ttBucket struct {
	entries [3]TTEntry
}

// TranspositionTable is a bucketed, open-addressed hash table keyed by
// Zobrist hash. There is no generation/age field: replacement is decided
// purely by depth within a bucket, so a table persists meaningfully
// across searches without an explicit aging pass.
type TranspositionTable struct {
	buckets    []ttBucket
	numBuckets uint64
	used       uint64

	hits   uint64
	probes uint64
}

const bucketSize = 3*(4+4+2+1+1) // bytes in one three-entry bucket, for sizing math

// NewTranspositionTable creates a transposition table sized from a
// megabyte budget: buckets = (1 MiB / sizeof(bucket)) * sizeMB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize reallocates the table for a new megabyte budget, zeroing it. If
// the computed bucket count is unchanged, this is equivalent to Clear.
func (tt *TranspositionTable) Resize(sizeMB int) {
	numBuckets := uint64(0)
	if sizeMB > 0 {
		numBuckets = (uint64(sizeMB) * 1024 * 1024) / uint64(bucketSize)
	}
	if numBuckets == tt.numBuckets && tt.buckets != nil {
		tt.Clear()
		return
	}
	tt.numBuckets = numBuckets
	tt.buckets = make([]ttBucket, numBuckets)
	tt.used = 0
	tt.hits = 0
	tt.probes = 0
}

func (tt *TranspositionTable) addr(key uint64) (bucket uint64, verification uint32) {
	return (key >> 32) % tt.numBuckets, uint32(key)
}

// Probe searches a bucket's three entries for one whose verification
// matches the key's lower half.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	if tt.numBuckets == 0 {
		return TTEntry{}, false
	}
	tt.probes++

	idx, verification := tt.addr(key)
	b := &tt.buckets[idx]
	for i := range b.entries {
		if b.entries[i].Verification == verification && verification != 0 {
			tt.hits++
			return b.entries[i], true
		}
	}
	return TTEntry{}, false
}

// Store inserts into the bucket, replacing the entry with the smallest
// depth. Replacement is unconditional: a shallow stale entry always
// loses to a new one, even a shallower new one, so depth is the only
// thing that decides who stays in a bucket over time.
func (tt *TranspositionTable) Store(key uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	if tt.numBuckets == 0 {
		return
	}
	idx, verification := tt.addr(key)
	b := &tt.buckets[idx]

	slot := 0
	for i := 1; i < len(b.entries); i++ {
		if b.entries[i].Depth < b.entries[slot].Depth {
			slot = i
		}
	}

	// used counts buckets holding at least one entry, so it only grows
	// when a store lands in a bucket that was entirely vacant.
	vacant := true
	for i := range b.entries {
		if b.entries[i].Verification != 0 {
			vacant = false
			break
		}
	}
	if vacant {
		tt.used++
	}
	b.entries[slot] = TTEntry{
		Verification: verification,
		BestMove:     bestMove.Short(),
		Score:        int16(score),
		Depth:        int8(depth),
		Flag:         flag,
	}
}

// Clear empties every bucket and resets the usage counter.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.used = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFullPermille returns the exact (non-sampled) fraction of buckets
// holding at least one entry, in parts per thousand.
func (tt *TranspositionTable) HashFullPermille() int {
	if tt.numBuckets == 0 {
		return 0
	}
	return int((tt.used * 1000) / tt.numBuckets)
}

// HitRate returns the cache hit rate as a percentage, for diagnostics.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// AdjustScoreFromTT converts a stored mate-distance-from-node score back
// into a mate-distance-from-root score when retrieving at ply.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateThreshold {
		return score - ply
	}
	if score < -MateThreshold {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a mate-distance-from-root score into a
// mate-distance-from-node score for storage at ply.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateThreshold {
		return score + ply
	}
	if score < -MateThreshold {
		return score - ply
	}
	return score
}
