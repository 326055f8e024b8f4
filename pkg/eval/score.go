package eval

import (
	"fmt"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/mathx"
)

// Score is a signed centipawn position score, positive favoring the side it is computed
// for (White for the evaluation sub-terms, the side to move for Evaluate and the
// search). Mate scores are
// encoded as MateScore minus/plus the number of plies to deliver or receive mate, so
// that shorter mates always compare as more extreme than longer ones.
type Score int32

const (
	Zero Score = 0

	MateScore Score = 1_000_000
	MaxScore  Score = MateScore
	MinScore  Score = -MateScore
	Inf       Score = MaxScore + 1
	NegInf    Score = MinScore - 1

	// MaxMatePlies bounds how many plies out a mate score is still considered a mate
	// rather than a very large but ordinary evaluation.
	MaxMatePlies = 1000
)

// Unit returns the signed unit for the color: +1 for White, -1 for Black.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Mate returns the score for delivering mate in ply plies; Mate(0) is the highest mate
// score. The score of a side that has been mated is given by MatedIn.
func Mate(ply int) Score {
	return MateScore - Score(ply)
}

// MatedIn returns the score for being mated in ply plies.
func MatedIn(ply int) Score {
	return -MateScore + Score(ply)
}

// IsMate reports whether s represents a forced mate (for or against).
func (s Score) IsMate() bool {
	return s > MateScore-MaxMatePlies || s < -MateScore+MaxMatePlies
}

// MateIn returns the number of moves (not plies) to deliver mate, if s is a winning mate
// score; 0 and false otherwise. A losing mate score is not reported here, use MatedInN.
func (s Score) MateIn() (int, bool) {
	if s <= MateScore-MaxMatePlies || s <= 0 {
		return 0, false
	}
	plies := MateScore - s
	return int(plies+1) / 2, true
}

// MatedInN returns the number of moves to being mated, if s is a losing mate score.
func (s Score) MatedInN() (int, bool) {
	if s >= -MateScore+MaxMatePlies || s >= 0 {
		return 0, false
	}
	plies := s + MateScore
	return int(plies+1) / 2, true
}

// Crop clamps s into [MinScore, MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the larger of two scores.
func Max(a, b Score) Score {
	return mathx.Max(a, b)
}

// Min returns the smaller of two scores.
func Min(a, b Score) Score {
	return mathx.Min(a, b)
}

func (s Score) String() string {
	if mate, ok := s.MateIn(); ok {
		return fmt.Sprintf("mate %d", mate)
	}
	if mate, ok := s.MatedInN(); ok {
		return fmt.Sprintf("mate -%d", mate)
	}
	return fmt.Sprintf("cp %d", int(s))
}
