package eval

import "github.com/corvidchess/corvid/pkg/board"

// kingTropismWeight credits an attacking piece for proximity to the enemy king, bucketed
// by piece kind; applied in every phase, tapered by kingSafety down to a quarter of its
// weight in the endgame.
var kingTropismWeight = [board.NumPieces]Score{
	board.Queen:  4,
	board.Rook:   2,
	board.Bishop: 1,
	board.Knight: 1,
}

const pawnShieldBonus Score = 8

// kingSafety scores pawn shield integrity and enemy piece tropism toward each king,
// scaled down as the game phase approaches the endgame (king safety matters far less
// once queens are off).
func kingSafety(pos *board.Position, phase int) Score {
	var score Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		king := pos.King(c)
		enemy := c.Opponent()

		shield := kingShieldSquares(king, c) & pos.PieceBB(c, board.Pawn)
		score += unit * Score(shield.PopCount()) * pawnShieldBonus

		var tropism Score
		for _, p := range []board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight} {
			bb := pos.PieceBB(enemy, p)
			for bb != 0 {
				sq := bb.Pop()
				d := king.Distance(sq)
				tropism += kingTropismWeight[p] * Score(7-d)
			}
		}
		score -= unit * tropism
	}
	return taper(phase, score, score/4)
}

// kingShieldSquares returns the (up to three) squares directly in front of the king
// (relative to c) that a healthy pawn shield occupies.
func kingShieldSquares(king board.Square, c board.Color) board.Bitboard {
	var ret board.Bitboard
	shieldRank := int(king.Rank()) + c.Unit()
	if shieldRank < 0 || shieldRank >= int(board.NumRanks) {
		return ret
	}
	for _, df := range []int{-1, 0, 1} {
		f := int(king.File()) + df
		if f < 0 || f >= int(board.NumFiles) {
			continue
		}
		ret = ret.Set(board.NewSquare(board.File(f), board.Rank(shieldRank)))
	}
	return ret
}
