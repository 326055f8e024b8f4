package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/corvidchess/corvid/pkg/search/tt"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterativeStopsAtDepthLimit(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	it := &searchctl.Iterative{TT: tt.New(1 << 16)}
	opt := searchctl.Options{DepthLimit: lang.Some(uint(3))}

	h, out := it.Launch(context.Background(), pos, []board.ZobristHash{pos.Hash()}, eval.Tapered{}, opt)

	var lastDepth int
	for pv := range out {
		lastDepth = pv.Depth
		assert.NotEmpty(t, pv.Moves)
	}
	assert.Equal(t, 3, lastDepth)

	final := h.Halt()
	assert.Equal(t, 3, final.Depth)
}

func TestIterativeHaltsOnCancel(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	it := &searchctl.Iterative{TT: tt.New(1 << 16)}

	h, out := it.Launch(ctx, pos, []board.ZobristHash{pos.Hash()}, eval.Tapered{}, searchctl.Options{})

	// Let the first iteration or two complete before halting.
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("expected at least one PV before cancel")
	}

	cancel()
	h.Halt()

	for range out {
		// drain until closed
	}
}
