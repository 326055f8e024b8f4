package search_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorker(t *testing.T, pos *board.Position) *search.Worker {
	t.Helper()
	shared := &search.Shared{TT: tt.New(1 << 16)}
	return search.NewWorker(shared, eval.Tapered{}, eval.NewCache(1<<10), []board.ZobristHash{pos.Hash()})
}

func TestSearchFindsMateInOne(t *testing.T) {
	z := board.NewZobristTable(1)
	// White to move, mates with Rh8#: the lone black king on a8 has a7/b7/b8 all
	// covered by the white king on a6 and the rook's arrival on the back rank.
	pos, err := fen.Decode(z, "k7/8/K7/8/8/8/8/7R w - - 0 1")
	require.NoError(t, err)

	w := newWorker(t, pos)
	score, pv, err := w.Run(context.Background(), pos, 3, eval.NegInf, eval.Inf)
	require.NoError(t, err)

	moves, ok := score.MateIn()
	require.True(t, ok, "expected a winning mate score, got %v", score)
	assert.Equal(t, 1, moves)
	require.NotEmpty(t, pv)
	assert.Equal(t, board.H8, pv[0].To)
}

func TestSearchAvoidsStalemateWhenWinning(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	require.NoError(t, err)

	w := newWorker(t, pos)
	score, pv, err := w.Run(context.Background(), pos, 2, eval.NegInf, eval.Inf)
	require.NoError(t, err)
	require.NotEmpty(t, pv)
	assert.Greater(t, int(score), 0)
}

func TestSearchCancelledByContext(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newWorker(t, pos)
	_, _, err = w.Run(ctx, pos, 4, eval.NegInf, eval.Inf)
	assert.ErrorIs(t, err, search.ErrHalted)
}

func TestSearchReturnsLegalMoveFromInitialPosition(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	w := newWorker(t, pos)
	_, pv, err := w.Run(context.Background(), pos, 3, eval.NegInf, eval.Inf)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	var ml board.MoveList
	pos.GenerateLegal(&ml)
	assert.True(t, ml.Contains(pv[0]))
}
