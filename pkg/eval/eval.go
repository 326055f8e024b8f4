// Package eval contains static position evaluation: tapered material and
// piece-square tables, pawn structure, king safety, mobility and static exchange
// evaluation.
package eval

import "github.com/corvidchess/corvid/pkg/board"

// Evaluator is a static position evaluator, returning a Score from the side-to-move's
// point of view, as negamax search requires.
type Evaluator interface {
	Evaluate(pos *board.Position) Score
}

// Tapered is the default evaluator: material + piece-square tables interpolated by game
// phase, plus pawn structure, king safety, mobility and minor/rook/queen specifics.
type Tapered struct {
	Random Random
}

// Tempo rewards the side to move for having the initiative.
const Tempo Score = 10

// Evaluate scores pos from the side-to-move's point of view. Every sub-term below is
// computed from White's perspective and summed into white; the final flip by Unit(turn)
// happens exactly once, here, so every other file in this package can stay White-relative.
func (t Tapered) Evaluate(pos *board.Position) Score {
	var white Score
	if sig, ok := endgameSignature(pos); ok {
		white = sig
	} else {
		phase := GamePhase(pos)

		white += materialAndPST(pos, phase)
		white += pawnStructure(pos, phase)
		white += kingSafety(pos, phase)
		white += mobility(pos, phase)
		white += minorPieceTerms(pos, phase)
		white += rookTerms(pos, phase)
		white += queenTerms(pos, phase)
		white += t.Random.Evaluate(pos)
	}

	score := white*Unit(pos.Turn()) + Tempo
	return Crop(score)
}

func materialAndPST(pos *board.Position, phase int) Score {
	var score Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		unit := Unit(c)
		for _, p := range board.AllPieces {
			bb := pos.PieceBB(c, p)
			count := Score(bb.PopCount())
			score += unit * count * materialValue(phase, p)
			for bb != 0 {
				sq := bb.Pop()
				score += unit * pieceSquare(phase, c, p, sq)
			}
		}
	}
	return score
}
