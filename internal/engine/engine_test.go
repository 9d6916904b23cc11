package engine

import (
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tt := NewTranspositionTable(4)
	s := NewSearcher(tt)

	move, score := s.Search(pos, 2)
	if move.String() != "a1a8" {
		t.Errorf("best move = %s, want a1a8", move.String())
	}
	if score != Mate-1 {
		t.Errorf("score = %d, want %d", score, Mate-1)
	}
}

func TestSearchFindsStalemate(t *testing.T) {
	pos, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tt := NewTranspositionTable(4)
	s := NewSearcher(tt)

	_, score := s.Search(pos, 1)
	if score != Draw {
		t.Errorf("score = %d, want %d (stalemate)", score, Draw)
	}
}

func TestSearchStartingPositionReturnsLegalMove(t *testing.T) {
	pos := board.NewPosition()
	tt := NewTranspositionTable(4)
	s := NewSearcher(tt)

	move, _ := s.Search(pos, 4)
	if move == board.NoMove {
		t.Fatal("Search returned NoMove for starting position")
	}
	if !pos.GenerateLegalMoves().Contains(move) {
		t.Errorf("Search returned %s, which is not legal in the starting position", move.String())
	}
}

// TestTTCutoffStability searches the same position at the same depth
// twice, with a warm transposition table the second time. The best move
// and score must not change: a TT cutoff must never substitute a worse
// decision for a deeper, correct one.
func TestTTCutoffStability(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tt := NewTranspositionTable(8)
	s1 := NewSearcher(tt)
	move1, score1 := s1.Search(pos, 4)

	s2 := NewSearcher(tt)
	move2, score2 := s2.Search(pos, 4)

	if move1 != move2 || score1 != score2 {
		t.Errorf("search with warm TT diverged: (%s, %d) vs (%s, %d)",
			move1.String(), score1, move2.String(), score2)
	}
}

func TestControllerDepthSearch(t *testing.T) {
	tt := NewTranspositionTable(4)
	c := NewController(tt)

	<-c.Reports() // Ready

	c.Send(StartCommand{
		Pos:    board.NewPosition(),
		Params: SearchParams{Mode: ModeDepth, Depth: 3, Verbosity: Quiet},
	})

	var finished *FinishedReport
	deadline := time.After(5 * time.Second)
	for finished == nil {
		select {
		case r := <-c.Reports():
			if f, ok := r.(FinishedReport); ok {
				finished = &f
			}
		case <-deadline:
			t.Fatal("timed out waiting for Finished report")
		}
	}

	if finished.BestMove == board.NoMove {
		t.Error("Finished report carried NoMove")
	}

	c.Send(QuitCommand{})
}

func TestMateDistance(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{Mate - 1, 1},
		{-Mate + 3, -3},
		{MateThreshold, 0},
	}
	for _, tc := range tests {
		if got := mateDistance(tc.score); got != tc.want {
			t.Errorf("mateDistance(%d) = %d, want %d", tc.score, got, tc.want)
		}
	}
}
