package board

import "math/rand"

// ZobristHash is a position hash based on piece placement, castling rights, en passant
// file and side to move. Two positions equivalent under the threefold-repetition rule
// hash to the same value.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// ZobristTable is a pseudo-randomized table for computing position hashes.
type ZobristTable struct {
	pieces    [NumColors][NumPieces][NumSquares]ZobristHash
	castling  [NumCastling]ZobristHash
	enpassant [NumFiles]ZobristHash
	turn      ZobristHash
}

// NewZobristTable builds a table from the given seed. Two tables built from the same
// seed produce identical hashes; this is relied on by nothing in this package, but keeps
// hashes reproducible across runs for debugging.
func NewZobristTable(seed int64) *ZobristTable {
	ret := &ZobristTable{}
	r := rand.New(rand.NewSource(seed))

	for c := ZeroColor; c < NumColors; c++ {
		for p := ZeroPiece; p < NumPieces; p++ {
			for sq := ZeroSquare; sq < NumSquares; sq++ {
				ret.pieces[c][p][sq] = ZobristHash(r.Uint64())
			}
		}
	}
	for i := ZeroCastling; i < NumCastling; i++ {
		ret.castling[i] = ZobristHash(r.Uint64())
	}
	for f := ZeroFile; f < NumFiles; f++ {
		ret.enpassant[f] = ZobristHash(r.Uint64())
	}
	ret.turn = ZobristHash(r.Uint64())
	return ret
}

// piece toggles the hash contribution of a piece of the given color on sq. XOR is its
// own inverse, so the same call both adds and removes a piece.
func (z *ZobristTable) piece(h ZobristHash, c Color, p Piece, sq Square) ZobristHash {
	return h ^ z.pieces[c][p][sq]
}

// Full recomputes the hash for pos from scratch. Used at FEN load and to cross-check the
// incrementally maintained hash in tests.
func (z *ZobristTable) Full(pos *Position) ZobristHash {
	var hash ZobristHash

	for c := ZeroColor; c < NumColors; c++ {
		for _, p := range AllPieces {
			bb := pos.PieceBB(c, p)
			for bb != 0 {
				hash = z.piece(hash, c, p, bb.Pop())
			}
		}
	}
	hash ^= z.castling[pos.castling]
	if pos.epSquare != NoSquare {
		hash ^= z.enpassant[pos.epSquare.File()]
	}
	if pos.turn == Black {
		hash ^= z.turn
	}
	return hash
}

// MakeMove returns the hash after playing m (of the given piece set up by Position before
// mutation) incrementally, given the pre-move castling/en-passant/turn state. Position
// calls this before mutating its own fields.
func (z *ZobristTable) MakeMove(h ZobristHash, pos *Position, m Move) ZobristHash {
	side := pos.turn
	hash := h

	hash = z.piece(hash, side, m.Piece, m.From)

	switch {
	case m.Kind == EnPassantCapture:
		hash = z.piece(hash, side, m.Piece, m.To)
		hash = z.piece(hash, side.Opponent(), Pawn, m.CaptureSquare(side))
	case m.Kind.IsPromotion():
		if m.Kind.IsPromotionCapture() {
			hash = z.piece(hash, side.Opponent(), m.Captured, m.To)
		}
		hash = z.piece(hash, side, m.Kind.PromotedPiece(), m.To)
	case m.Kind.IsCastle():
		hash = z.piece(hash, side, m.Piece, m.To)
		rf, rt := m.RookCastleSquares()
		hash = z.piece(hash, side, Rook, rf)
		hash = z.piece(hash, side, Rook, rt)
	case m.Kind == Capture:
		hash = z.piece(hash, side.Opponent(), m.Captured, m.To)
		hash = z.piece(hash, side, m.Piece, m.To)
	default:
		hash = z.piece(hash, side, m.Piece, m.To)
	}

	hash ^= z.castling[pos.castling]
	if pos.epSquare != NoSquare {
		hash ^= z.enpassant[pos.epSquare.File()]
	}

	lost := castlingRightsLostBySquare[m.From] | castlingRightsLostBySquare[m.To]
	hash ^= z.castling[pos.castling&^lost]

	if m.Kind == DoublePawnPush {
		hash ^= z.enpassant[m.To.File()]
	}

	hash ^= z.turn
	return hash
}

// MakeNullMove returns the hash after passing the turn: clears any en passant file
// contribution and flips side to move, touching no piece.
func (z *ZobristTable) MakeNullMove(h ZobristHash, pos *Position) ZobristHash {
	hash := h
	if pos.epSquare != NoSquare {
		hash ^= z.enpassant[pos.epSquare.File()]
	}
	hash ^= z.turn
	return hash
}
