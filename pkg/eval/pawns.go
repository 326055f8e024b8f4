package eval

import "github.com/corvidchess/corvid/pkg/board"

const (
	doubledPawnPenaltyMg   Score = 11
	doubledPawnPenaltyEg   Score = 18
	isolatedPawnPenaltyMg  Score = 5
	isolatedPawnPenaltyEg  Score = 15
	backwardPawnPenaltyMg  Score = 9
	backwardPawnPenaltyEg  Score = 12
	passedPawnBonusMgBase  Score = 10
	passedPawnBonusEgPerRk Score = 20
)

// pawnStructure scores doubled, isolated, backward and passed pawns for both sides.
func pawnStructure(pos *board.Position, phase int) Score {
	var score Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		own := pos.PieceBB(c, board.Pawn)
		enemy := pos.PieceBB(c.Opponent(), board.Pawn)

		for f := board.ZeroFile; f < board.NumFiles; f++ {
			file := own & board.BitFile(f)
			n := file.PopCount()
			if n > 1 {
				score += unit * taper(phase, -doubledPawnPenaltyMg, -doubledPawnPenaltyEg) * Score(n-1)
			}
			if n == 0 {
				continue
			}

			adjacent := adjacentFiles(f) & own
			if adjacent == 0 {
				score += unit * taper(phase, -isolatedPawnPenaltyMg, -isolatedPawnPenaltyEg)
			}
		}

		bb := own
		for bb != 0 {
			sq := bb.Pop()
			if isPassed(sq, c, enemy) {
				rank := relativeRank(sq, c)
				score += unit * (passedPawnBonusMgBase + Score(rank)*passedPawnBonusEgPerRk)
			} else if isBackward(sq, c, own, enemy) {
				score += unit * taper(phase, -backwardPawnPenaltyMg, -backwardPawnPenaltyEg)
			}
		}
	}
	return score
}

func adjacentFiles(f board.File) board.Bitboard {
	var ret board.Bitboard
	if f > board.FileA {
		ret |= board.BitFile(f - 1)
	}
	if f < board.FileH {
		ret |= board.BitFile(f + 1)
	}
	return ret
}

// relativeRank returns the rank index (0-7) from the pawn's own perspective: 0 is its
// own back rank, 1 its start rank, 7 the promotion rank.
func relativeRank(sq board.Square, c board.Color) int {
	if c == board.White {
		return int(sq.Rank())
	}
	return 7 - int(sq.Rank())
}

// isPassed reports whether a pawn on sq has no enemy pawns able to stop it: none on its
// file or the adjacent files, ahead of it.
func isPassed(sq board.Square, c board.Color, enemyPawns board.Bitboard) bool {
	span := frontSpan(sq, c) | (adjacentFiles(sq.File()) & frontSpanMask(sq, c))
	return span&enemyPawns == 0
}

func frontSpan(sq board.Square, c board.Color) board.Bitboard {
	return board.BitFile(sq.File()) & frontSpanMask(sq, c)
}

// frontSpanMask returns every square strictly ahead of sq (relative to c) on the board,
// spanning all files; callers AND this with a file or adjacent-files mask.
func frontSpanMask(sq board.Square, c board.Color) board.Bitboard {
	var ret board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < board.NumRanks; r++ {
			ret |= board.BitRank(r)
		}
	} else {
		for r := int(sq.Rank()) - 1; r >= 0; r-- {
			ret |= board.BitRank(board.Rank(r))
		}
	}
	return ret
}

// isBackward reports whether a pawn cannot safely advance because the square ahead is
// controlled by an enemy pawn and no friendly pawn on an adjacent file can support it.
func isBackward(sq board.Square, c board.Color, own, enemy board.Bitboard) bool {
	ahead := board.Square(int(sq) + c.Forward())
	if !ahead.IsValid() {
		return false
	}
	support := adjacentFiles(sq.File()) & own & behindOrLevel(sq, c)
	if support != 0 {
		return false
	}
	return board.PawnAttacks(ahead, c.Opponent())&enemy != 0
}

func behindOrLevel(sq board.Square, c board.Color) board.Bitboard {
	var ret board.Bitboard
	if c == board.White {
		for r := board.ZeroRank; r <= sq.Rank(); r++ {
			ret |= board.BitRank(r)
		}
	} else {
		for r := sq.Rank(); r < board.NumRanks; r++ {
			ret |= board.BitRank(r)
		}
	}
	return ret
}
