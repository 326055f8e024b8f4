package eval

import "github.com/corvidchess/corvid/pkg/board"

// driveToCornerBase dominates the generic positional terms so a recognized winning
// signature always scores as clearly winning, regardless of what the general
// evaluator would otherwise have made of the remaining piece placement.
const driveToCornerBase = 2000

// endgameSignature recognizes a handful of known material signatures that the general
// tapered evaluator scores poorly, and returns an overriding, White-relative score. ok
// is false when no signature matches, in which case the caller falls through to the
// general evaluator.
func endgameSignature(pos *board.Position) (Score, bool) {
	if pos.PieceBB(board.White, board.Pawn) != 0 || pos.PieceBB(board.Black, board.Pawn) != 0 {
		return 0, false
	}

	wMinor := pos.PieceBB(board.White, board.Knight).PopCount() + pos.PieceBB(board.White, board.Bishop).PopCount()
	bMinor := pos.PieceBB(board.Black, board.Knight).PopCount() + pos.PieceBB(board.Black, board.Bishop).PopCount()
	wMajor := pos.PieceBB(board.White, board.Rook).PopCount() + pos.PieceBB(board.White, board.Queen).PopCount()
	bMajor := pos.PieceBB(board.Black, board.Rook).PopCount() + pos.PieceBB(board.Black, board.Queen).PopCount()

	if wMajor == 0 && bMajor == 0 && wMinor <= 1 && bMinor <= 1 {
		return Zero, true // insufficient material on both sides: no forced mate, draw-scale to zero
	}

	if score, ok := driveToCornerScore(pos); ok {
		return score, true
	}
	return 0, false
}

// driveToCornerScore recognizes the single-winning-side material signatures spec names
// (KRvK, KQvK, KBNvK, KBBvK: one side has exactly that material and the other is a bare
// king) and returns a White-relative score driving toward the standard mating technique
// for each: push the defending king to the rim, then bring the attacking king close.
func driveToCornerScore(pos *board.Position) (Score, bool) {
	wq, wr, wb, wn := materialCounts(pos, board.White)
	bq, br, bb, bn := materialCounts(pos, board.Black)

	if isMatingSignature(wq, wr, wb, wn) && bq == 0 && br == 0 && bb == 0 && bn == 0 {
		return driveScore(pos, board.White, board.Black), true
	}
	if isMatingSignature(bq, br, bb, bn) && wq == 0 && wr == 0 && wb == 0 && wn == 0 {
		return -driveScore(pos, board.Black, board.White), true
	}
	return 0, false
}

func materialCounts(pos *board.Position, c board.Color) (q, r, b, n int) {
	return pos.PieceBB(c, board.Queen).PopCount(),
		pos.PieceBB(c, board.Rook).PopCount(),
		pos.PieceBB(c, board.Bishop).PopCount(),
		pos.PieceBB(c, board.Knight).PopCount()
}

// isMatingSignature reports whether a side's material matches one of the recognized
// winning-with-bare-king-opponent signatures: KQvK, KRvK, KBNvK, KBBvK.
func isMatingSignature(q, r, b, n int) bool {
	switch {
	case q == 1 && r == 0 && b == 0 && n == 0:
		return true
	case q == 0 && r == 1 && b == 0 && n == 0:
		return true
	case q == 0 && r == 0 && b == 1 && n == 1:
		return true
	case q == 0 && r == 0 && b == 2 && n == 0:
		return true
	default:
		return false
	}
}

// driveScore scores the position from winner's perspective (positive favors winner),
// monotonically rewarding the defending king being pushed toward the edge/corner and
// the attacking king closing in, then converts to the White-relative sign the rest of
// the package uses.
func driveScore(pos *board.Position, winner, loser board.Color) Score {
	attacker := pos.King(winner)
	defender := pos.King(loser)

	edge := edgeDistance(defender)                  // 0 (center) .. 6 (corner)
	approach := 7 - attacker.Distance(defender)      // 0 (far) .. 6 (adjacent)
	score := driveToCornerBase + Score(16*edge) + Score(8*approach)

	if winner == board.Black {
		return -score
	}
	return score
}

// edgeDistance measures how close sq is to the board's rim, combining file and rank
// distance from the center files/ranks: 0 for a central square, 6 for a corner.
func edgeDistance(sq board.Square) int {
	f := int(sq.File())
	if d := 7 - f; d < f {
		f = d
	}
	r := int(sq.Rank())
	if d := 7 - r; d < r {
		r = d
	}
	return (3 - f) + (3 - r)
}
