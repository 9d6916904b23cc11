package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][7][64]uint64 // [Color][PieceType][Square] - 7 to handle NoPieceType safely
	zobristEnPassant  [9]uint64        // index 0-7 one per file, index 8 the distinct "no en passant" term
	zobristCastling   [16]uint64       // All 16 castling combinations
	zobristSideToMove uint64           // XOR when black to move
)

// noEnPassantTerm is the index into zobristEnPassant used when no
// en-passant capture is available. Invariant 5 (SPEC_FULL.md 3) requires
// this be a distinct term, not simply "no file term XORed in": clearing
// en passant must flip a real key, the same way setting it does.
const noEnPassantTerm = 8

func init() {
	initZobrist()
}

// prng is a simple xorshift64* generator seeded once at init, giving
// reproducible Zobrist tables across runs (no persistence needed: the
// tables are cheap to regenerate and are immutable after init).
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := PieceType(0); pt < NoPieceType; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	zobristEnPassant[noEnPassantTerm] = rng.next()

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(c Color, pt PieceType, sq Square) uint64 {
	return zobristPiece[c][pt][sq]
}

// ZobristEnPassant returns the Zobrist key for the en-passant state: the
// file term if sq names a file-bearing square, or the distinct
// "no en passant" term if sq is NoSquare.
func ZobristEnPassant(sq Square) uint64 {
	if sq == NoSquare {
		return zobristEnPassant[noEnPassantTerm]
	}
	return zobristEnPassant[sq.File()]
}

// ZobristCastling returns the Zobrist key for castling rights.
func ZobristCastling(cr CastlingRights) uint64 {
	return zobristCastling[cr]
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}
