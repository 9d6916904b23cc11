package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

// TestTTClearResetsHashFull verifies clear() followed by hash_full_permille()
// returns 0, per spec.md 8's named TT idempotence properties.
func TestTTClearResetsHashFull(t *testing.T) {
	tt := NewTranspositionTable(1)

	for i := uint64(0); i < 1000; i++ {
		tt.Store(i*2654435761, 4, 10, TTExact, board.NoMove)
	}
	if tt.HashFullPermille() == 0 {
		t.Fatal("expected a non-zero fill before Clear, setup is broken")
	}

	tt.Clear()
	if got := tt.HashFullPermille(); got != 0 {
		t.Errorf("HashFullPermille() after Clear() = %d, want 0", got)
	}
	if _, found := tt.Probe(12345); found {
		t.Error("Probe found an entry after Clear()")
	}
}

// TestTTResizeSameSizeActsAsClear verifies resize(mb) with the same mb
// behaves as clear(), per spec.md 8.
func TestTTResizeSameSizeActsAsClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	numBucketsBefore := tt.numBuckets

	for i := uint64(0); i < 1000; i++ {
		tt.Store(i*2654435761, 4, 10, TTExact, board.NoMove)
	}

	tt.Resize(1)

	if tt.numBuckets != numBucketsBefore {
		t.Fatalf("Resize with unchanged mb changed bucket count: %d -> %d", numBucketsBefore, tt.numBuckets)
	}
	if got := tt.HashFullPermille(); got != 0 {
		t.Errorf("HashFullPermille() after same-size Resize = %d, want 0", got)
	}
}

// TestAdjustScoreRoundTrip verifies the mate-distance adjustment functions
// round-trip through a store/retrieve at the same ply, per spec.md 8's
// "storing value = +MATE - k at ply p and retrieving at ply p' returns
// +MATE - k + (p - p') * sign" property.
func TestAdjustScoreRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		root int
		ply  int
	}{
		{"mate for side to move, shallow ply", Mate - 1, 2},
		{"mate for side to move, deep ply", Mate - 5, 40},
		{"mate against side to move", -Mate + 3, 7},
		{"ordinary score is untouched", 150, 10},
		{"exactly at threshold is untouched", MateThreshold, 10},
		{"exactly at negative threshold is untouched", -MateThreshold, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stored := AdjustScoreToTT(tc.root, tc.ply)
			got := AdjustScoreFromTT(stored, tc.ply)
			if got != tc.root {
				t.Errorf("round trip at ply %d: got %d, want %d", tc.ply, got, tc.root)
			}
		})
	}
}

// TestAdjustScoreCrossPly verifies the cross-ply formula directly: a score
// stored at ply p and retrieved at a different ply p' is shifted by
// (p - p') in the direction appropriate to its sign.
func TestAdjustScoreCrossPly(t *testing.T) {
	tests := []struct {
		name     string
		root     int
		storePly int
		fetchPly int
	}{
		{"positive mate score, retrieved shallower", Mate - 2, 10, 4},
		{"positive mate score, retrieved deeper", Mate - 2, 4, 10},
		{"negative mate score, retrieved shallower", -Mate + 6, 10, 4},
		{"negative mate score, retrieved deeper", -Mate + 6, 4, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stored := AdjustScoreToTT(tc.root, tc.storePly)
			got := AdjustScoreFromTT(stored, tc.fetchPly)

			sign := 1
			if tc.root < 0 {
				sign = -1
			}
			want := tc.root + (tc.storePly-tc.fetchPly)*sign
			if got != want {
				t.Errorf("got %d, want %d", got, want)
			}
		})
	}
}
