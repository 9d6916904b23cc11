package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FenPart identifies which of the six FEN fields failed to parse.
type FenPart int

const (
	PartPiecePlacement FenPart = iota
	PartSideToMove
	PartCastlingRights
	PartEnPassant
	PartHalfMoveClock
	PartFullMoveNumber
)

func (p FenPart) String() string {
	switch p {
	case PartPiecePlacement:
		return "piece placement"
	case PartSideToMove:
		return "side to move"
	case PartCastlingRights:
		return "castling rights"
	case PartEnPassant:
		return "en passant square"
	case PartHalfMoveClock:
		return "half-move clock"
	case PartFullMoveNumber:
		return "full-move number"
	default:
		return "unknown field"
	}
}

// FenError reports which field of a FEN string was malformed. No existing
// board is modified when this is returned: ParseFEN only builds a fresh
// Position.
type FenError struct {
	Part   FenPart
	Detail string
}

func (e *FenError) Error() string {
	return "fen: " + e.Part.String() + ": " + e.Detail
}

// normalizeDash maps the en-dash (U+2013), which some tools emit in place
// of a hyphen-minus, onto "-" so "-" and "–" are accepted interchangeably
// wherever FEN uses a dash as a placeholder.
func normalizeDash(s string) string {
	return strings.ReplaceAll(s, "–", "-")
}

// ParseFEN parses a FEN string and returns a Position. A six-field FEN is
// the canonical form; a four-field FEN is also accepted, with the
// half-move clock and full-move number defaulting to 0 and 1. Fewer than
// four fields, or a malformed field, is a *FenError naming the offending
// field; the caller's existing board (if any) is never touched, since
// ParseFEN only ever builds a fresh Position.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(normalizeDash(fen))
	if len(parts) < 4 {
		return nil, &FenError{Part: PartPiecePlacement, Detail: "need at least 4 space-separated fields"}
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare
	for sq := 0; sq < 64; sq++ {
		pos.Mailbox[sq] = NoPiece
	}

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, &FenError{Part: PartSideToMove, Detail: "must be 'w' or 'b', got " + parts[1]}
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, &FenError{Part: PartEnPassant, Detail: "not a square: " + parts[3]}
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, &FenError{Part: PartHalfMoveClock, Detail: "not a non-negative integer: " + parts[4]}
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, &FenError{Part: PartFullMoveNumber, Detail: "not a positive integer: " + parts[5]}
		}
		pos.FullMoveNumber = fmn
	}

	pos.updateOccupied()
	pos.findKings()
	pos.Hash = pos.ComputeHash()
	pos.PhaseValue = pos.computePhaseValue()

	if err := pos.Validate(); err != nil {
		return nil, &FenError{Part: PartPiecePlacement, Detail: err.Error()}
	}

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return &FenError{Part: PartPiecePlacement, Detail: "need 8 ranks separated by '/', got " + strconv.Itoa(len(ranks))}
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return &FenError{Part: PartPiecePlacement, Detail: "too many squares in rank " + strconv.Itoa(rank+1)}
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return &FenError{Part: PartPiecePlacement, Detail: "invalid piece character: " + string(c)}
				}
				sq := NewSquare(file, rank)
				pos.setPiece(piece, sq)
				file++
			}
		}

		if file != 8 {
			return &FenError{Part: PartPiecePlacement, Detail: "rank " + strconv.Itoa(rank+1) + " does not cover 8 files"}
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			pos.CastlingRights |= BlackKingSideCastle
		case 'q':
			pos.CastlingRights |= BlackQueenSideCastle
		default:
			return &FenError{Part: PartCastlingRights, Detail: "invalid castling character: " + string(c)}
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := PieceType(0); pt < NoPieceType; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= zobristPiece[c][pt][sq]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights]
	hash ^= ZobristEnPassant(p.EnPassant)

	return hash
}
