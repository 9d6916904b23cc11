package board

import "fmt"

// Move packs a chess move into a single 64-bit integer: the low 24 bits are
// the "short move" (piece, squares, captured/promoted piece, and the three
// special-move flags), used for persistent storage in the transposition
// table and the killer-move slots; the upper bits hold a transient sort
// score that move ordering writes and the search never persists.
//
// Bit layout, low to high:
//
//	bits  0- 5 (6):  from square
//	bits  6-11 (6):  to square
//	bits 12-14 (3):  moving piece type
//	bits 15-17 (3):  captured piece type (NoPieceType if none)
//	bits 18-20 (3):  promoted piece type (NoPieceType if none)
//	bit     21 (1):  en-passant flag
//	bit     22 (1):  double-pawn-push flag
//	bit     23 (1):  castling flag
//	bits 24-55 (32): sort score, zeroed for storage and comparison
type Move uint64

// ShortMove is the low 24 bits of a Move: everything but the sort score.
// TT entries and killer slots store ShortMove values.
type ShortMove uint32

const (
	moveFromShift     = 0
	moveToShift       = 6
	movePieceShift    = 12
	moveCapturedShift = 15
	movePromoShift    = 18
	moveEPShift       = 21
	moveDoubleShift   = 22
	moveCastleShift   = 23
	moveScoreShift    = 24

	moveSquareMask = 0x3F
	movePieceMask  = 0x7
	shortMoveMask  = 0xFFFFFF
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// newMove is the general constructor; the named constructors below cover
// the common cases so callers don't have to spell out NoPieceType/false
// for every quiet move.
func newMove(piece PieceType, from, to Square, captured, promoted PieceType, ep, double, castle bool) Move {
	m := Move(from)<<moveFromShift |
		Move(to)<<moveToShift |
		Move(piece)<<movePieceShift |
		Move(captured)<<moveCapturedShift |
		Move(promoted)<<movePromoShift
	if ep {
		m |= 1 << moveEPShift
	}
	if double {
		m |= 1 << moveDoubleShift
	}
	if castle {
		m |= 1 << moveCastleShift
	}
	return m
}

// NewMove creates a quiet, non-special move.
func NewMove(piece PieceType, from, to Square) Move {
	return newMove(piece, from, to, NoPieceType, NoPieceType, false, false, false)
}

// NewCapture creates a capturing move.
func NewCapture(piece PieceType, from, to Square, captured PieceType) Move {
	return newMove(piece, from, to, captured, NoPieceType, false, false, false)
}

// NewDoublePush creates a two-square pawn push, setting the double-step flag.
func NewDoublePush(from, to Square) Move {
	return newMove(Pawn, from, to, NoPieceType, NoPieceType, false, true, false)
}

// NewPromotion creates a (non-capturing) promotion move.
func NewPromotion(from, to Square, promoted PieceType) Move {
	return newMove(Pawn, from, to, NoPieceType, promoted, false, false, false)
}

// NewCapturePromotion creates a promotion move that also captures.
func NewCapturePromotion(from, to Square, captured, promoted PieceType) Move {
	return newMove(Pawn, from, to, captured, promoted, false, false, false)
}

// NewEnPassant creates an en-passant capture. The captured piece is always
// an enemy pawn, on the square behind `to`, not on `to` itself.
func NewEnPassant(from, to Square) Move {
	return newMove(Pawn, from, to, Pawn, NoPieceType, true, false, false)
}

// NewCastling creates a castling move (the king's movement; the rook's
// movement is derived from `to` during make).
func NewCastling(from, to Square) Move {
	return newMove(King, from, to, NoPieceType, NoPieceType, false, false, true)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m >> moveFromShift & moveSquareMask)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m >> moveToShift & moveSquareMask)
}

// Piece returns the type of the piece being moved.
func (m Move) Piece() PieceType {
	return PieceType(m >> movePieceShift & movePieceMask)
}

// Captured returns the captured piece type, or NoPieceType if this move
// does not capture.
func (m Move) Captured() PieceType {
	return PieceType(m >> moveCapturedShift & movePieceMask)
}

// Promoted returns the promotion piece type, or NoPieceType if this move
// is not a promotion.
func (m Move) Promoted() PieceType {
	return PieceType(m >> movePromoShift & movePieceMask)
}

// IsEnPassant returns true if this is an en-passant capture.
func (m Move) IsEnPassant() bool {
	return m&(1<<moveEPShift) != 0
}

// IsDoublePush returns true if this is a two-square pawn push.
func (m Move) IsDoublePush() bool {
	return m&(1<<moveDoubleShift) != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m&(1<<moveCastleShift) != 0
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promoted() != NoPieceType
}

// IsCapture returns true if this move captures a piece, including
// en-passant.
func (m Move) IsCapture() bool {
	return m.Captured() != NoPieceType
}

// IsQuiet returns true if this move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// Score returns the transient sort score, as set by move ordering.
func (m Move) Score() int32 {
	return int32(uint32(m >> moveScoreShift))
}

// WithScore returns a copy of m with its sort score replaced. The short
// move (everything but the score) is unaffected.
func (m Move) WithScore(score int32) Move {
	return Move(uint64(m)&shortMoveMask) | Move(uint32(score))<<moveScoreShift
}

// Short returns the short move: the low 24 bits, with the score stripped.
// Short moves are what the transposition table and killer slots store and
// compare.
func (m Move) Short() ShortMove {
	return ShortMove(m & shortMoveMask)
}

// ToMove reconstitutes a (zero-score) Move from a short move, e.g. a TT
// best-move hint being fed back into ordering.
func (sm ShortMove) ToMove() Move {
	return Move(sm)
}

var promotionChar = [7]byte{0, 'q', 'r', 'b', 'n', 0, 0}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.Short() == 0 {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(promotionChar[m.Promoted()])
	}
	return s
}

// MoveParseError reports a malformed UCI move string.
type MoveParseError struct {
	Input  string
	Reason string
}

func (e *MoveParseError) Error() string {
	return fmt.Sprintf("invalid move %q: %s", e.Input, e.Reason)
}

// ParseMove parses a UCI format move string against the given position,
// filling in piece/captured/flag information that the bare squares don't
// carry.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, &MoveParseError{Input: s, Reason: "length must be 4 or 5"}
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, &MoveParseError{Input: s, Reason: "bad from-square"}
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, &MoveParseError{Input: s, Reason: "bad to-square"}
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, &MoveParseError{Input: s, Reason: "no piece on from-square"}
	}
	pt := piece.Type()
	captured := pos.PieceAt(to).Type()

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, &MoveParseError{Input: s, Reason: "promotion piece must be q, r, b or n"}
		}
		return newMove(Pawn, from, to, captured, promo, false, false, false), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewCastling(from, to), nil
	}
	if pt == Pawn && to == pos.EnPassant && captured == NoPieceType {
		return NewEnPassant(from, to), nil
	}
	if pt == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		return NewDoublePush(from, to), nil
	}
	return newMove(pt, from, to, captured, NoPieceType, false, false, false), nil
}

// MoveList is a fixed-size list of moves to avoid allocations. Capacity
// 256 comfortably exceeds the maximum of 218 legal moves in any reachable
// chess position.
type MoveList struct {
	moves [256]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without reallocating the backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains a move whose short form
// matches m's.
func (ml *MoveList) Contains(m Move) bool {
	want := m.Short()
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Short() == want {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice sharing the list's backing array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// PickMove performs one step of selection sort: it finds the
// highest-scored move among [i, Len()) and swaps it into position i. The
// search calls this once per move-loop iteration instead of sorting the
// whole list up front, since most cutoffs happen in the first few moves.
func (ml *MoveList) PickMove(i int) {
	best := i
	for j := i + 1; j < ml.count; j++ {
		if ml.moves[j].Score() > ml.moves[best].Score() {
			best = j
		}
	}
	if best != i {
		ml.Swap(i, best)
	}
}
