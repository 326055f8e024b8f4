package uci

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoArgsDepth(t *testing.T) {
	opt, infinite, err := parseGoArgs([]string{"depth", "7"})
	require.NoError(t, err)
	assert.False(t, infinite)

	depth, ok := opt.DepthLimit.V()
	require.True(t, ok)
	assert.Equal(t, uint(7), depth)

	_, ok = opt.TimeControl.V()
	assert.False(t, ok)
}

func TestParseGoArgsMoveTime(t *testing.T) {
	opt, infinite, err := parseGoArgs([]string{"movetime", "500"})
	require.NoError(t, err)
	assert.False(t, infinite)

	tc, ok := opt.TimeControl.V()
	require.True(t, ok)
	assert.Equal(t, searchctl.MoveTime, tc.Kind)
	assert.Equal(t, 500*time.Millisecond, tc.MoveTime)
}

func TestParseGoArgsFischerClock(t *testing.T) {
	opt, infinite, err := parseGoArgs([]string{"wtime", "60000", "btime", "60000", "winc", "1000", "binc", "1000", "movestogo", "20"})
	require.NoError(t, err)
	assert.False(t, infinite)

	tc, ok := opt.TimeControl.V()
	require.True(t, ok)
	assert.Equal(t, searchctl.Fischer, tc.Kind)
	assert.Equal(t, 60*time.Second, tc.WTime)
	assert.Equal(t, 60*time.Second, tc.BTime)
	assert.Equal(t, time.Second, tc.WInc)
	assert.Equal(t, time.Second, tc.BInc)
	assert.Equal(t, 20, tc.MovesToGo)
}

func TestParseGoArgsInfinite(t *testing.T) {
	opt, infinite, err := parseGoArgs([]string{"infinite"})
	require.NoError(t, err)
	assert.True(t, infinite)

	tc, ok := opt.TimeControl.V()
	require.True(t, ok)
	assert.Equal(t, searchctl.Infinite, tc.Kind)
}

func TestParseGoArgsMate(t *testing.T) {
	opt, _, err := parseGoArgs([]string{"mate", "3"})
	require.NoError(t, err)

	tc, ok := opt.TimeControl.V()
	require.True(t, ok)
	assert.Equal(t, searchctl.MateIn, tc.Kind)
	assert.Equal(t, 3, tc.Mate)
}

func TestParseGoArgsPonderAndSearchmovesIgnored(t *testing.T) {
	opt, infinite, err := parseGoArgs([]string{"ponder", "searchmoves", "e2e4"})
	require.NoError(t, err)
	assert.False(t, infinite)
	_, ok := opt.TimeControl.V()
	assert.False(t, ok)
}

func TestParseGoArgsMissingArgument(t *testing.T) {
	_, _, err := parseGoArgs([]string{"depth"})
	assert.Error(t, err)
}

func TestParseGoArgsInvalidArgument(t *testing.T) {
	_, _, err := parseGoArgs([]string{"depth", "many"})
	assert.Error(t, err)
}

func drain(t *testing.T, out <-chan string, want string, timeout time.Duration) string {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				t.Fatalf("output stream closed before seeing %q", want)
			}
			if strings.Contains(line, want) {
				return line
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestDriverHandshake(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	in := make(chan string, 10)
	d, out := NewDriver(ctx, e, in)

	drain(t, out, "id name test", time.Second)
	drain(t, out, "uciok", time.Second)

	in <- "isready"
	drain(t, out, "readyok", time.Second)

	in <- "quit"
	<-d.Closed()
}

func TestDriverSetOptionHash(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	in := make(chan string, 10)
	_, out := NewDriver(ctx, e, in)
	drain(t, out, "uciok", time.Second)

	in <- "setoption name Hash value 32"

	// No direct observable output for setoption; confirm the driver is still alive
	// by round-tripping isready.
	in <- "isready"
	drain(t, out, "readyok", time.Second)

	assert.Equal(t, uint(32), e.Options().Hash)
}

func TestDriverBestMoveOnStalematePosition(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")
	// Black stalemated: no legal moves.
	require.NoError(t, e.Reset(ctx, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))

	in := make(chan string, 10)
	_, out := NewDriver(ctx, e, in)
	drain(t, out, "uciok", time.Second)

	in <- "go depth 1"
	drain(t, out, "bestmove 0000", 2*time.Second)
}
