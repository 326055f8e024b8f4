package eval

import (
	"math/rand"

	"github.com/corvidchess/corvid/pkg/board"
)

// Random adds a small amount of noise to evaluations, in centipawns, in the half-open
// range [-limit/2, limit-limit/2). A zero-value Random always returns zero, so it composes safely as
// a struct field default.
type Random struct {
	rand  *rand.Rand
	limit int
}

// NewRandom returns a noise source bounded by limit centipawns and seeded with seed.
func NewRandom(limit int, seed int64) Random {
	return Random{limit: limit, rand: rand.New(rand.NewSource(seed))}
}

func (n Random) Evaluate(pos *board.Position) Score {
	if n.limit <= 0 || n.rand == nil {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
