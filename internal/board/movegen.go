package board

// MoveType selects which subset of moves generate_moves emits.
type MoveType int

const (
	All MoveType = iota
	Captures
	Quiets
)

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	p.GenerateMoves(ml, All)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := &MoveList{}
	p.GenerateMoves(ml, All)
	return ml
}

// GenerateCaptures generates pseudo-legal capture moves (and
// capture-promotions), for use by quiescence search. Legality is left to
// the caller's Make/Unmake, same as GeneratePseudoLegalMoves, so
// quiescence doesn't pay for filtering twice.
func (p *Position) GenerateCaptures() *MoveList {
	ml := &MoveList{}
	p.GenerateMoves(ml, Captures)
	return ml
}

// GenerateMoves appends pseudo-legal moves of the requested type to ml.
// For All and Quiets, also includes castling. Push-promotions and
// capture-promotions are both generated for All and Captures, and
// neither is generated for Quiets.
func (p *Position) GenerateMoves(ml *MoveList, moveType MoveType) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]
	ours := p.Occupied[us]

	p.generatePawnMoves(ml, us, enemies, occupied, moveType)

	var destMask Bitboard
	switch moveType {
	case Captures:
		destMask = enemies
	case Quiets:
		destMask = ^occupied
	default:
		destMask = ^ours
	}

	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		p.emit(ml, Knight, from, KnightAttacks(from)&destMask, enemies)
	}

	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		p.emit(ml, Bishop, from, BishopAttacks(from, occupied)&destMask, enemies)
	}

	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		p.emit(ml, Rook, from, RookAttacks(from, occupied)&destMask, enemies)
	}

	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		p.emit(ml, Queen, from, QueenAttacks(from, occupied)&destMask, enemies)
	}

	from := p.KingSquare[us]
	p.emit(ml, King, from, KingAttacks(from)&destMask, enemies)

	if moveType != Captures {
		p.generateCastlingMoves(ml, us)
	}
}

// emit enumerates the destination squares in attacks, adding a capture
// move when the destination holds an enemy piece and a quiet move
// otherwise.
func (p *Position) emit(ml *MoveList, pt PieceType, from Square, attacks, enemies Bitboard) {
	for attacks != 0 {
		to := attacks.PopLSB()
		if SquareBB(to)&enemies != 0 {
			ml.Add(NewCapture(pt, from, to, p.PieceAt(to).Type()))
		} else {
			ml.Add(NewMove(pt, from, to))
		}
	}
}

// generatePawnMoves generates pawn pushes, captures, en passant, and
// promotions, honoring moveType.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard, moveType MoveType) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	if moveType != Captures {
		nonPromo := push1 & ^promotionRank
		for nonPromo != 0 {
			to := nonPromo.PopLSB()
			from := Square(int(to) - pushDir)
			ml.Add(NewMove(Pawn, from, to))
		}

		for push2 != 0 {
			to := push2.PopLSB()
			from := Square(int(to) - 2*pushDir)
			ml.Add(NewDoublePush(from, to))
		}
	}

	if moveType != Quiets {
		nonPromoL := attackL & ^promotionRank
		for nonPromoL != 0 {
			to := nonPromoL.PopLSB()
			from := Square(int(to) - pushDir + 1)
			ml.Add(NewCapture(Pawn, from, to, p.PieceAt(to).Type()))
		}

		nonPromoR := attackR & ^promotionRank
		for nonPromoR != 0 {
			to := nonPromoR.PopLSB()
			from := Square(int(to) - pushDir - 1)
			ml.Add(NewCapture(Pawn, from, to, p.PieceAt(to).Type()))
		}

		promoL := attackL & promotionRank
		for promoL != 0 {
			to := promoL.PopLSB()
			from := Square(int(to) - pushDir + 1)
			addCapturePromotions(ml, from, to, p.PieceAt(to).Type())
		}

		promoR := attackR & promotionRank
		for promoR != 0 {
			to := promoR.PopLSB()
			from := Square(int(to) - pushDir - 1)
			addCapturePromotions(ml, from, to, p.PieceAt(to).Type())
		}

		if p.EnPassant != NoSquare {
			epBB := SquareBB(p.EnPassant)
			var epAttackers Bitboard
			if us == White {
				epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
			} else {
				epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
			}
			for epAttackers != 0 {
				from := epAttackers.PopLSB()
				ml.Add(NewEnPassant(from, p.EnPassant))
			}
		}
	}

	// Push-promotions are capture-less but still gated on the capture
	// generation pass: quiescence needs them even when only generating
	// "captures", since a promotion is tactically loud regardless.
	if moveType != Quiets {
		promoPush := push1 & promotionRank
		for promoPush != 0 {
			to := promoPush.PopLSB()
			from := Square(int(to) - pushDir)
			addPromotions(ml, from, to)
		}
	}
}

// addPromotions adds all four non-capturing promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// addCapturePromotions adds all four capturing promotion moves.
func addCapturePromotions(ml *MoveList, from, to Square, captured PieceType) {
	ml.Add(NewCapturePromotion(from, to, captured, Queen))
	ml.Add(NewCapturePromotion(from, to, captured, Rook))
	ml.Add(NewCapturePromotion(from, to, captured, Bishop))
	ml.Add(NewCapturePromotion(from, to, captured, Knight))
}

// generateCastlingMoves generates castling moves. Squares between king and
// rook must be empty; the king's start and transit squares must not be
// attacked. The landing square's safety is left to the legality check
// inside Make.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()

	if us == White {
		if p.CastlingRights&WhiteKingSideCastle != 0 {
			if p.AllOccupied&((1<<F1)|(1<<G1)) == 0 {
				if !p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) {
					ml.Add(NewCastling(E1, G1))
				}
			}
		}
		if p.CastlingRights&WhiteQueenSideCastle != 0 {
			if p.AllOccupied&((1<<B1)|(1<<C1)|(1<<D1)) == 0 {
				if !p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) {
					ml.Add(NewCastling(E1, C1))
				}
			}
		}
	} else {
		if p.CastlingRights&BlackKingSideCastle != 0 {
			if p.AllOccupied&((1<<F8)|(1<<G8)) == 0 {
				if !p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) {
					ml.Add(NewCastling(E8, G8))
				}
			}
		}
		if p.CastlingRights&BlackQueenSideCastle != 0 {
			if p.AllOccupied&((1<<B8)|(1<<C8)|(1<<D8)) == 0 {
				if !p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) {
					ml.Add(NewCastling(E8, C8))
				}
			}
		}
	}
}

// filterLegalMoves keeps only the moves that Make accepts, unmaking each
// immediately after.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := &MoveList{}
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.Make(m) {
			p.Unmake()
			result.Add(m)
		}
	}
	return result
}

// Make applies a move to the position. It pushes the current GameState,
// applies the move, and if the side that just moved is left in check,
// unmakes and returns false. Every caller that receives true owns an
// obligation to call Unmake exactly once to return to the prior position.
func (p *Position) Make(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	pt := m.Piece()

	p.pushState(m)

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	p.Hash ^= ZobristEnPassant(p.EnPassant)
	p.EnPassant = NoSquare
	p.HalfMoveClock++

	if m.IsEnPassant() {
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.HalfMoveClock = 0
	} else if m.IsCapture() {
		captured := m.Captured()
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured][to]
		p.HalfMoveClock = 0
		if captured == Rook {
			p.clearCastleRightOnCorner(to)
		}
	}

	if pt != Pawn {
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]
	} else {
		p.removePiece(from)
		p.Hash ^= zobristPiece[us][Pawn][from]
		placed := Pawn
		if m.IsPromotion() {
			placed = m.Promoted()
		}
		p.setPiece(NewPiece(placed, us), to)
		p.Hash ^= zobristPiece[us][placed][to]
		p.HalfMoveClock = 0

		if m.IsDoublePush() {
			var epSq Square
			if us == White {
				epSq = to - 8
			} else {
				epSq = to + 8
			}
			p.EnPassant = epSq
		}
	}

	p.clearCastleRightOnCorner(from)
	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	p.Hash ^= zobristCastling[p.CastlingRights]
	p.Hash ^= ZobristEnPassant(p.EnPassant)

	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
	p.PhaseValue += phaseDelta(m)
	p.UpdateCheckers()

	if p.IsSquareAttacked(p.KingSquare[us], them) {
		p.Unmake()
		return false
	}
	return true
}

// clearCastleRightOnCorner masks off the castling right tied to sq if sq
// is one of the four rook starting squares.
func (p *Position) clearCastleRightOnCorner(sq Square) {
	switch sq {
	case A1:
		p.CastlingRights &^= WhiteQueenSideCastle
	case H1:
		p.CastlingRights &^= WhiteKingSideCastle
	case A8:
		p.CastlingRights &^= BlackQueenSideCastle
	case H8:
		p.CastlingRights &^= BlackKingSideCastle
	}
}

// phaseDelta returns how much a move changes PhaseValue: a capture
// removes the victim's weight, a promotion swaps a pawn's (zero) weight
// for the promoted piece's.
func phaseDelta(m Move) int {
	delta := 0
	if m.IsCapture() {
		delta -= PhaseWeight[m.Captured()]
	}
	if m.IsPromotion() {
		delta += PhaseWeight[m.Promoted()]
	}
	return delta
}

// Unmake reverts the most recent call to Make, restoring the exact
// GameState that was snapshotted.
func (p *Position) Unmake() {
	state := p.popState()
	m := state.Move
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.SideToMove = state.SideToMove
	p.CastlingRights = state.CastlingRights
	p.EnPassant = state.EnPassant
	p.HalfMoveClock = state.HalfMoveClock
	p.FullMoveNumber = state.FullMoveNumber
	p.Hash = state.Hash
	p.PhaseValue = state.PhaseValue

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookTo, rookFrom)
	}

	if m.Piece() != Pawn {
		p.movePiece(to, from)
	} else {
		p.removePiece(to)
		p.setPiece(NewPiece(Pawn, us), from)
	}

	if m.IsCapture() {
		if m.IsEnPassant() {
			var capturedSq Square
			if us == White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
			p.setPiece(NewPiece(Pawn, them), capturedSq)
		} else {
			p.setPiece(NewPiece(m.Captured(), them), to)
		}
	}

	p.UpdateCheckers()
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.Make(ml.Get(i)) {
			p.Unmake()
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw: fifty-move rule,
// repetition (a single earlier occurrence since the last irreversible
// move is enough), or insufficient material. Stalemate is detected
// separately since it depends on whose move it is, not just board state.
func (p *Position) IsDraw() bool {
	if p.IsDrawByFiftyMoveRule() {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.IsDrawByRepetition()
}

// IsInsufficientMaterial returns true if neither side has enough material
// to deliver checkmate. The taxonomy is deliberately narrow: KvK, KBvK,
// KNvK, KvKB, KvKN, and KB vs KB with same-colored bishops. Anything else
// (two knights, opposite-colored bishops, a bishop-knight pair) is treated
// as sufficient, even though some of those are drawn in practice too.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()
	wMinors := wKnights + wBishops
	bMinors := bKnights + bBishops

	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors+bMinors == 1 {
		return true
	}
	if wBishops == 1 && bBishops == 1 && wKnights == 0 && bKnights == 0 {
		wSq := p.Pieces[White][Bishop].LSB()
		bSq := p.Pieces[Black][Bishop].LSB()
		wColor := (int(wSq.File()) + int(wSq.Rank())) % 2
		bColor := (int(bSq.File()) + int(bSq.Rank())) % 2
		return wColor == bColor
	}

	return false
}

// IsDrawByRepetition scans backward through history for a snapshot whose
// Zobrist key matches the current position, stopping at a halfmove-clock
// reset (no repetition can cross an irreversible move).
func (p *Position) IsDrawByRepetition() bool {
	for i := p.historyLen - 1; i >= 0; i-- {
		s := p.history[i]
		if s.Hash == p.Hash {
			return true
		}
		if s.HalfMoveClock == 0 {
			break
		}
	}
	return false
}

// IsDrawByFiftyMoveRule returns true once the halfmove clock has reached
// 100 plies (fifty full moves) without a pawn move or capture.
func (p *Position) IsDrawByFiftyMoveRule() bool {
	return p.HalfMoveClock >= 100
}
