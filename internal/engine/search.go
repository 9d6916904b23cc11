package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Search constants, per spec.md 4.4: MATE ~= 24000, INF ~= 25000,
// MATE_THRESHOLD = MATE - 100. A mate-in-n score equals MATE minus the
// number of plies from the scoring node to the mate.
const (
	Infinity       = 25000
	Mate           = 24000
	MateThreshold  = Mate - 100
	Draw           = 0
	MaxPly         = 128
	maxQuiescence  = 64 // recursion guard inside quiescence, well beyond any realistic capture chain
	checkTermEvery = 2048
	sendStatsEvery = 524288
)

// PVTable stores, for each ply, the principal variation rooted there.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly + 1][MaxPly + 1]board.Move
}

func (pv *PVTable) clear(ply int) {
	pv.length[ply] = ply
}

func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for j := ply + 1; j < pv.length[ply+1]; j++ {
		pv.moves[ply][j] = pv.moves[ply+1][j]
	}
	pv.length[ply] = pv.length[ply+1]
}

// Line returns the PV rooted at ply 0 as a slice.
func (pv *PVTable) Line() []board.Move {
	return append([]board.Move(nil), pv.moves[0][:pv.length[0]]...)
}

// terminate is the reason a search stopped mid-iteration.
type terminate int32

const (
	terminateNone terminate = iota
	terminateStopped
	terminateQuit
)

// Searcher runs alpha-beta search over a single position; the Controller
// drives it through iterative deepening. It is single-threaded and reused across searches; Reset
// clears per-search state (nodes, killers, PV, terminate flag) while
// keeping the transposition table.
type Searcher struct {
	pos *board.Position
	tt  *TranspositionTable
	k   killers

	nodes     uint64
	seldepth  int
	pv        PVTable
	terminate terminate

	// pollFn is consulted every checkTermEvery nodes; it returns a reason
	// other than terminateNone if the search should stop now. nil means never stop early (used by
	// tests that just want a fixed-depth search with no controller).
	pollFn func() terminate

	// statsFn, when non-nil, is called every sendStatsEvery nodes with
	// the current node count; the controller uses it to emit SearchStats.
	statsFn func(nodes uint64)

	// currentMoveFn, when non-nil, is called once per root move as it
	// starts being searched; the controller throttles and wraps it into
	// a SearchCurrentMove report.
	currentMoveFn func(move board.Move, index int)

	nodeLimit uint64
}

// NewSearcher creates a searcher bound to a transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{tt: tt}
}

// SetPollFunc installs the callback consulted for early termination.
func (s *Searcher) SetPollFunc(fn func() terminate) {
	s.pollFn = fn
}

// SetStatsFunc installs the callback used for intra-search stats reports.
func (s *Searcher) SetStatsFunc(fn func(nodes uint64)) {
	s.statsFn = fn
}

// SetNodeLimit bounds the search by node count (0 = unbounded); used by
// SearchParams.Mode == Nodes.
func (s *Searcher) SetNodeLimit(n uint64) {
	s.nodeLimit = n
}

// SetCurrentMoveFunc installs the callback used for SearchCurrentMove
// reports.
func (s *Searcher) SetCurrentMoveFunc(fn func(move board.Move, index int)) {
	s.currentMoveFn = fn
}

// Reset clears per-search state ahead of a new Start command.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.seldepth = 0
	s.terminate = terminateNone
	s.k.Clear()
	s.pv.clear(0)
}

// Nodes returns the number of nodes searched so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Seldepth returns the deepest ply reached so far.
func (s *Searcher) Seldepth() int {
	return s.seldepth
}

// Terminated reports whether the last search stopped early.
func (s *Searcher) Terminated() bool {
	return s.terminate != terminateNone
}

// Search runs alpha-beta at a fixed depth from the root and returns the
// best move and its score. pos is not mutated (Search copies it).
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()
	score := s.alphaBeta(depth, 0, -Infinity, Infinity)

	var best board.Move
	if s.pv.length[0] > 0 {
		best = s.pv.moves[0][0]
	}
	return best, score
}

func (s *Searcher) checkTermination() bool {
	if s.nodes%checkTermEvery != 0 {
		return s.terminate != terminateNone
	}
	if s.nodeLimit != 0 && s.nodes >= s.nodeLimit {
		s.terminate = terminateStopped
	}
	if s.terminate == terminateNone && s.pollFn != nil {
		if t := s.pollFn(); t != terminateNone {
			s.terminate = t
		}
	}
	return s.terminate != terminateNone
}

// alphaBeta implements spec.md 4.4's 12-step algorithm.
func (s *Searcher) alphaBeta(depth, ply, alpha, beta int) int {
	// Step 1: termination check.
	if s.checkTermination() {
		return 0
	}

	// Step 2: max ply guard.
	if ply >= MaxPly {
		return Evaluate(s.pos)
	}

	s.pv.clear(ply)

	// Step 3: check extension, before the depth<=0 test.
	inCheck := s.pos.InCheck()
	if inCheck {
		depth++
	}

	// Step 4: leaf -> quiescence.
	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	// Step 5: node counting.
	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}

	// Step 6: TT probe. A cutoff is never taken at the root.
	var ttMove board.Move
	entry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = entry.BestMove.ToMove()
		if ply > 0 && int(entry.Depth) >= depth {
			ttScore := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return ttScore
			case TTLowerBound:
				if ttScore >= beta {
					return ttScore
				}
			case TTUpperBound:
				if ttScore <= alpha {
					return ttScore
				}
			}
		}
	}

	// Step 7: move generation and ordering.
	moves := s.pos.GeneratePseudoLegalMoves()
	scoreMoves(moves, ply, ttMove, &s.k)

	// Step 8: stats emission.
	if s.statsFn != nil && s.nodes%sendStatsEvery == 0 {
		s.statsFn(s.nodes)
	}

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	legalMovesFound := 0

	// Step 9: move loop.
	for i := 0; i < moves.Len(); i++ {
		moves.PickMove(i)
		move := moves.Get(i)

		if !s.pos.Make(move) {
			continue
		}
		legalMovesFound++

		if ply == 0 && s.currentMoveFn != nil {
			s.currentMoveFn(move, legalMovesFound)
		}

		var score int
		if s.pos.IsDraw() {
			score = Draw
		} else {
			foundPV := flag == TTExact
			if foundPV {
				score = -s.alphaBeta(depth-1, ply+1, -alpha-1, -alpha)
				if score > alpha && score < beta {
					score = -s.alphaBeta(depth-1, ply+1, -beta, -alpha)
				}
			} else {
				score = -s.alphaBeta(depth-1, ply+1, -beta, -alpha)
			}
		}

		s.pos.Unmake()

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score >= beta {
				s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
				if !move.IsCapture() {
					s.k.Update(move, ply)
				}
				return score
			}

			if score > alpha {
				alpha = score
				flag = TTExact
				s.pv.update(ply, move.Short().ToMove())
			}
		}
	}

	// Step 10: terminal-position detection.
	if legalMovesFound == 0 {
		if inCheck {
			return -Mate + ply
		}
		return Draw
	}

	// Step 11: TT store, unconditionally.
	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	// Step 12.
	return bestScore
}

// quiescence implements spec.md 4.5.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	if s.checkTermination() {
		return 0
	}
	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}

	if ply >= MaxPly {
		return Evaluate(s.pos)
	}

	standPat := Evaluate(s.pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if ply > maxQuiescence {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	scoreCaptures(moves)

	for i := 0; i < moves.Len(); i++ {
		moves.PickMove(i)
		move := moves.Get(i)

		if !s.pos.Make(move) {
			continue
		}
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.Unmake()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
