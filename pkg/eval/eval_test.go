package eval_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPositionIsBalanced(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	// Material and positional terms cancel exactly; only the side-to-move's tempo
	// bonus remains.
	score := eval.Tapered{}.Evaluate(pos)
	assert.Equal(t, eval.Tempo, score)
}

func TestEvaluateIsFromSideToMovePerspective(t *testing.T) {
	z := board.NewZobristTable(1)

	white, err := fen.Decode(z, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	require.NoError(t, err)
	black, err := fen.Decode(z, "4k3/8/8/8/8/8/8/Q3K3 b - - 0 1")
	require.NoError(t, err)

	// Same material and placement, only the side to move differs: each evaluates the
	// position favorably for itself (White is strictly ahead here), so flipping whose
	// turn it is should flip the sign of the advantage, not double it or cancel it.
	ws := eval.Tapered{}.Evaluate(white)
	bs := eval.Tapered{}.Evaluate(black)

	assert.Greater(t, int(ws), 0)
	assert.Less(t, int(bs), 0)
}

func TestExtraQueenIsWinning(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	require.NoError(t, err)

	score := eval.Tapered{}.Evaluate(pos)
	assert.Greater(t, int(score), 500)
}

func TestLoneKingsIsDrawn(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// Draw-scaled to zero before tempo, so only the side-to-move bonus remains.
	assert.Equal(t, eval.Tempo, eval.Tapered{}.Evaluate(pos))
}

func TestKingRookVsKingDrivesDefenderToEdge(t *testing.T) {
	z := board.NewZobristTable(1)

	// Black king already on the back rank vs centralized, closer White king: should
	// score as more winning than the same defending king still near the center.
	edge, err := fen.Decode(z, "4k3/8/8/4K3/8/8/8/4R3 w - - 0 1")
	require.NoError(t, err)
	center, err := fen.Decode(z, "8/8/3k4/4K3/8/8/8/4R3 w - - 0 1")
	require.NoError(t, err)

	edgeScore := eval.Tapered{}.Evaluate(edge)
	centerScore := eval.Tapered{}.Evaluate(center)

	assert.Greater(t, int(edgeScore), int(centerScore))
}

func TestMateScoreRoundTrip(t *testing.T) {
	s := eval.Mate(3)
	moves, ok := s.MateIn()
	assert.True(t, ok)
	assert.Equal(t, 2, moves)

	s = eval.MatedIn(4)
	moves, ok = s.MatedInN()
	assert.True(t, ok)
	assert.Equal(t, 2, moves)
}

func TestStaticExchangeWinningCapture(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var ml board.MoveList
	pos.GenerateLegal(&ml)

	for i := 0; i < ml.Len(); i++ {
		if m := ml.At(i); m.To == board.D5 {
			assert.Equal(t, eval.NominalValue(board.Pawn), eval.StaticExchange(pos, m))
			return
		}
	}
	t.Fatal("expected exd5 pawn capture to be legal")
}

func TestEvalCache(t *testing.T) {
	c := eval.NewCache(16)
	_, ok := c.Get(42)
	assert.False(t, ok)

	c.Put(42, 123)
	v, ok := c.Get(42)
	assert.True(t, ok)
	assert.Equal(t, eval.Score(123), v)
}
