package eval

import "github.com/corvidchess/corvid/pkg/board"

const (
	bishopPairBonus     Score = 30
	knightOutpostBonus  Score = 15
	rookOpenFileBonus   Score = 20
	rookSemiOpenBonus   Score = 10
	rookOn7thBonus      Score = 20
	queenEarlyDevPenalty Score = 15
)

// minorPieceTerms rewards the bishop pair and knights parked on outpost squares (no
// enemy pawn can ever challenge them).
func minorPieceTerms(pos *board.Position, phase int) Score {
	var score Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		if pos.PieceBB(c, board.Bishop).PopCount() >= 2 {
			score += unit * bishopPairBonus
		}

		knights := pos.PieceBB(c, board.Knight)
		enemyPawns := pos.PieceBB(c.Opponent(), board.Pawn)
		ownPawns := pos.PieceBB(c, board.Pawn)
		for knights != 0 {
			sq := knights.Pop()
			if isOutpost(sq, c, enemyPawns, ownPawns) {
				score += unit * knightOutpostBonus
			}
		}
	}
	return score
}

// isOutpost reports whether sq can never be attacked by an enemy pawn and is itself
// defended by a friendly pawn.
func isOutpost(sq board.Square, c board.Color, enemyPawns, ownPawns board.Bitboard) bool {
	if board.PawnAttacks(sq, c.Opponent())&ownPawns == 0 {
		return false
	}
	return adjacentFiles(sq.File())&frontSpanMask(sq, c)&enemyPawns == 0
}

// rookTerms rewards rooks on open/semi-open files and on the 7th (2nd for Black) rank.
func rookTerms(pos *board.Position, phase int) Score {
	var score Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		ownPawns := pos.PieceBB(c, board.Pawn)
		enemyPawns := pos.PieceBB(c.Opponent(), board.Pawn)

		rooks := pos.PieceBB(c, board.Rook)
		for rooks != 0 {
			sq := rooks.Pop()
			file := board.BitFile(sq.File())
			switch {
			case file&(ownPawns|enemyPawns) == 0:
				score += unit * rookOpenFileBonus
			case file&ownPawns == 0:
				score += unit * rookSemiOpenBonus
			}

			seventh := board.Rank7
			if c == board.Black {
				seventh = board.Rank2
			}
			if sq.Rank() == seventh {
				score += unit * rookOn7thBonus
			}
		}
	}
	return score
}

// queenTerms penalizes developing the queen before any minor pieces, a common amateur
// mistake the evaluator discourages in the opening.
func queenTerms(pos *board.Position, phase int) Score {
	if phase < totalPhase-4 {
		return 0
	}
	var score Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		homeRank := board.Rank1
		if c == board.Black {
			homeRank = board.Rank8
		}
		queen := pos.PieceBB(c, board.Queen)
		if queen == 0 || queen.LSB().Rank() == homeRank {
			continue
		}
		undeveloped := pos.PieceBB(c, board.Knight).PopCount() + pos.PieceBB(c, board.Bishop).PopCount()
		homeRankBB := board.BitRank(homeRank)
		onHome := 0
		for _, p := range []board.Piece{board.Knight, board.Bishop} {
			onHome += (pos.PieceBB(c, p) & homeRankBB).PopCount()
		}
		if onHome == undeveloped && undeveloped > 0 {
			score -= unit * queenEarlyDevPenalty
		}
	}
	return score
}
