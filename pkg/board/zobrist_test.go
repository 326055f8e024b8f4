package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZobristDistinguishesPositions(t *testing.T) {
	z := board.NewZobristTable(1)

	a, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)
	b, err := fen.Decode(z, "rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestZobristTranspositionEqual(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	// 1.Nf3 Nf6 2.Ng1 Ng8 reaches the starting position via a different move order.
	play := func(from, to board.Square) {
		var ml board.MoveList
		pos.GenerateLegal(&ml)
		for i := 0; i < ml.Len(); i++ {
			if m := ml.At(i); m.From == from && m.To == to {
				pos.MakeMove(m)
				return
			}
		}
		t.Fatalf("no legal move %v%v", from, to)
	}

	start := pos.Hash()
	play(board.G1, board.F3)
	play(board.G8, board.F6)
	play(board.F3, board.G1)
	play(board.F6, board.G8)

	assert.Equal(t, start, pos.Hash())
}
