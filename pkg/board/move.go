package board

import "fmt"

// MoveKind classifies a move's special handling during make/unmake.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	Capture
	EnPassantCapture
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

// IsCapture reports whether the move kind removes a piece from the board.
func (k MoveKind) IsCapture() bool {
	return k == Capture || k == EnPassantCapture || k.IsPromotionCapture()
}

// IsPromotion reports whether the move kind promotes a pawn, with or without a capture.
func (k MoveKind) IsPromotion() bool {
	return k >= KnightPromotion
}

// IsPromotionCapture reports whether the move kind both promotes and captures.
func (k MoveKind) IsPromotionCapture() bool {
	return k >= KnightPromotionCapture
}

// IsCastle reports whether the move kind is a castle.
func (k MoveKind) IsCastle() bool {
	return k == KingCastle || k == QueenCastle
}

// PromotedPiece returns the piece a promotion move kind produces.
func (k MoveKind) PromotedPiece() Piece {
	switch k {
	case KnightPromotion, KnightPromotionCapture:
		return Knight
	case BishopPromotion, BishopPromotionCapture:
		return Bishop
	case RookPromotion, RookPromotionCapture:
		return Rook
	case QueenPromotion, QueenPromotionCapture:
		return Queen
	default:
		return NoPiece
	}
}

// Move is a fully-decoded, not-necessarily-legal move. Fits in a machine word plus
// a byte; kept as a plain struct rather than packed, since the hot paths (generation,
// make/unmake, ordering) all want direct field access rather than unpacking.
type Move struct {
	From, To Square
	Piece    Piece // piece moving
	Captured Piece // captured piece, if any (NoPiece otherwise)
	Kind     MoveKind
}

// NewMove builds a quiet move; use the With* helpers to mark captures/promotions/castles.
func NewMove(from, to Square, piece Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Quiet}
}

func promotionKind(capture bool, promo Piece) MoveKind {
	switch promo {
	case Knight:
		if capture {
			return KnightPromotionCapture
		}
		return KnightPromotion
	case Bishop:
		if capture {
			return BishopPromotionCapture
		}
		return BishopPromotion
	case Rook:
		if capture {
			return RookPromotionCapture
		}
		return RookPromotion
	default:
		if capture {
			return QueenPromotionCapture
		}
		return QueenPromotion
	}
}

// CaptureSquare returns the square the captured piece sits on, which differs from To
// only for en passant.
func (m Move) CaptureSquare(side Color) Square {
	if m.Kind == EnPassantCapture {
		return Square(int(m.To) - side.Forward())
	}
	return m.To
}

// RookCastleSquares returns the rook's from/to squares for a castling move. Only
// meaningful when m.Kind.IsCastle().
func (m Move) RookCastleSquares() (from, to Square) {
	switch m.To {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	default:
		return NoSquare, NoSquare
	}
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or
// "a7a8q". The result carries only From/To/promotion piece; Kind and Captured must be
// resolved against a position before the move can be played.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", str, err)
	}

	m := Move{From: from, To: to}
	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion in move %q", str)
		}
		m.Kind = promotionKind(false, promo)
	}
	return m, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Kind.PromotedPiece() == o.Kind.PromotedPiece()
}

func (m Move) String() string {
	if promo := m.Kind.PromotedPiece(); promo != NoPiece {
		return fmt.Sprintf("%v%v%v", m.From, m.To, promo)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}
