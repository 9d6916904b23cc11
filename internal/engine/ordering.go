package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities, per spec.md 4.4 step 7: TT move, then
// MVV-LVA captures, then killers, then zero. These are added to a
// move's sort score (board.Move.WithScore), which the move list sorts
// by in PickMove. A capture made by the king has a negative MVV-LVA term
// (the king's value exceeds ten times any victim's), so king captures
// sort below the killers, though still above plain quiet moves.
const (
	bigScore   = 1 << 20 // base of TT, capture and killer scores; plain quiet moves score 0
	ttBonus    = 1 << 24
	killerStep = 1000
)

// mvvLVA scores a capture by victim value (scaled up) minus attacker
// value, so higher-value victims and lower-value attackers sort first.
func mvvLVA(victim, attacker board.PieceType) int32 {
	return int32(pieceValues[victim]*10 - pieceValues[attacker])
}

// killers holds two killer-move slots per ply: quiet moves that caused
// a beta cutoff, tried early in sibling nodes at the same ply.
type killers struct {
	slots [MaxPly][2]board.ShortMove
}

// Clear resets every killer slot, done once per Start command.
func (k *killers) Clear() {
	for i := range k.slots {
		k.slots[i][0] = 0
		k.slots[i][1] = 0
	}
}

// Update records m as the newest killer at ply, shifting the previous
// first slot down, unless m is already that slot.
func (k *killers) Update(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	sm := m.Short()
	if k.slots[ply][0] == sm {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = sm
}

// slot returns which killer slot (0, 1, or -1 for none) m occupies at ply.
func (k *killers) slot(m board.Move, ply int) int {
	if ply >= MaxPly {
		return -1
	}
	sm := m.Short()
	if k.slots[ply][0] == sm {
		return 0
	}
	if k.slots[ply][1] == sm {
		return 1
	}
	return -1
}

// scoreMoves assigns every move in ml its ordering score in place, per
// spec.md 4.4 step 7. ttMove may be board.NoMove when there was no TT hit.
func scoreMoves(ml *board.MoveList, ply int, ttMove board.Move, k *killers) {
	ttShort := ttMove.Short()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		var score int32

		switch {
		case ttMove != board.NoMove && m.Short() == ttShort:
			score = bigScore + ttBonus
		case m.IsCapture():
			score = int32(bigScore) + mvvLVA(m.Captured(), m.Piece())
		default:
			if s := k.slot(m, ply); s >= 0 {
				score = int32(bigScore) - int32(s+1)*killerStep
			}
		}

		ml.Set(i, m.WithScore(score))
	}
}

// scoreCaptures assigns MVV-LVA-only scores, for quiescence (spec.md 4.5
// step 4: "TT-move handling is omitted in quiescence").
func scoreCaptures(ml *board.MoveList) {
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		ml.Set(i, m.WithScore(mvvLVA(m.Captured(), m.Piece())))
	}
}
