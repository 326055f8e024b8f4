package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{
		{"e2e4", "d7d5", "d2d4"},
		{"e2e4", "d7d6"},
		{"d2d4", "d7d6"},
	})
	require.NoError(t, err)

	tests := []struct {
		pos   string
		moves string
	}{
		{fen.Initial, "d2d4 e2e4"},
		{"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1", "d7d6"},
	}

	for _, tc := range tests {
		list, err := book.Find(ctx, tc.pos)
		assert.NoError(t, err)

		var got []string
		for _, m := range list {
			got = append(got, m.String())
		}
		assert.Equal(t, tc.moves, strings.Join(got, " "))
	}
}

func TestBookExhaustedLineReturnsNoMoves(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{{"e2e4"}})
	require.NoError(t, err)

	list, err := book.Find(ctx, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
