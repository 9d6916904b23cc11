// Package engine implements the chess search engine: transposition table,
// move ordering, alpha-beta/quiescence search, time management, and the
// channel-driven controller that runs iterative deepening.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

var pieceValues = board.PieceValue

// Piece-square tables, one per piece type, values from White's
// perspective, laid out with the a8..h8 row first: White's squares are
// looked up through Square.Mirror, Black's squares directly. Interpolated
// between the middlegame and endgame table by board.PhaseValue.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// psts holds the middlegame PST for every non-king piece type, indexed
// by board.PieceType. King uses kingMidgamePST/kingEndgamePST directly
// since it tapers instead of staying fixed.
var psts = [7][64]int{
	board.Queen:  queenPST,
	board.Rook:   rookPST,
	board.Bishop: bishopPST,
	board.Knight: knightPST,
	board.Pawn:   pawnPST,
}

// Evaluate returns the static evaluation of the position in centipawns,
// from the side-to-move's perspective (as negamax requires). Internally
// it accumulates a White-relative score, blends a middlegame and an
// endgame term by board.PhaseValue/board.TotalPhase (tapered eval), then
// flips sign for Black. There is no king safety, mobility, or
// pawn-structure term, since the specification names only material and
// piece placement as the static evaluator's job.
func Evaluate(pos *board.Position) int {
	var mg, eg int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		for pt := board.PieceType(0); pt < board.NoPieceType; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				pstSq := sq.Mirror()
				if c == board.Black {
					pstSq = sq
				}

				mg += sign * pieceValues[pt]
				eg += sign * pieceValues[pt]

				if pt == board.King {
					mg += sign * kingMidgamePST[pstSq]
					eg += sign * kingEndgamePST[pstSq]
				} else {
					v := psts[pt][pstSq]
					mg += sign * v
					eg += sign * v
				}
			}
		}
	}

	phase := pos.PhaseValue
	if phase > board.TotalPhase {
		phase = board.TotalPhase
	}
	score := (mg*phase + eg*(board.TotalPhase-phase)) / board.TotalPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
