package eval

import "github.com/corvidchess/corvid/pkg/board"

// mobilityWeight scales a legal-destination count into centipawns, per piece kind.
var mobilityWeight = [board.NumPieces]Score{
	board.Knight: 4,
	board.Bishop: 5,
	board.Rook:   2,
	board.Queen:  1,
}

// mobility scores each side's count of safe destination squares (not occupied by own
// pieces, not attacked by an enemy pawn) for knights, bishops, rooks and queens.
func mobility(pos *board.Position, phase int) Score {
	var score Score
	occ := pos.All()

	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		own := pos.Occupied(c)
		enemy := c.Opponent()

		var pawnGuarded board.Bitboard
		bb := pos.PieceBB(enemy, board.Pawn)
		for bb != 0 {
			pawnGuarded |= board.PawnAttacks(bb.Pop(), enemy)
		}

		for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
			pieces := pos.PieceBB(c, p)
			for pieces != 0 {
				sq := pieces.Pop()
				targets := board.AttacksFrom(p, sq, c, occ) &^ own &^ pawnGuarded
				score += unit * mobilityWeight[p] * Score(targets.PopCount())
			}
		}
	}
	return taper(phase, score, score)
}
