package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/stretchr/testify/require"
)

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

func TestDriverPrintsBoardOnStart(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	in := make(chan string, 10)
	_, out := NewDriver(ctx, e, in)

	drain(t, out, "engine test", time.Second)
	drain(t, out, "fen:", time.Second)
}

func TestDriverMoveAndUndo(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")
	initial := e.Position()

	in := make(chan string, 10)
	d, out := NewDriver(ctx, e, in)
	drain(t, out, "fen:", time.Second)

	in <- "e2e4"
	drain(t, out, "fen:", time.Second)
	require.NotEqual(t, initial, e.Position())

	in <- "undo"
	drain(t, out, "fen:", time.Second)
	require.Equal(t, initial, e.Position())

	in <- "quit"
	<-d.Closed()
}

func TestDriverRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	in := make(chan string, 10)
	_, out := NewDriver(ctx, e, in)
	drain(t, out, "fen:", time.Second)

	in <- "e2e5"
	drain(t, out, "invalid move", time.Second)
}

func TestDriverAnalyzeReportsBestMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	in := make(chan string, 10)
	_, out := NewDriver(ctx, e, in)
	drain(t, out, "fen:", time.Second)

	in <- "analyze 1"
	drain(t, out, "Search, depth=", 5*time.Second)
}
