// Package searchctl drives repeated search.Worker invocations: iterative deepening,
// aspiration windows, time control, and a lazy-SMP pool of helper threads sharing one
// transposition table.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options, set per search by the engine (e.g. from a UCI
// "go" command).
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth, independent of any
	// time control also in effect.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search per TimeControl.Kind's semantics.
	TimeControl lang.Optional[TimeControl]
	// Threads is the number of search.Worker goroutines to run in parallel, sharing one
	// transposition table (lazy-SMP). Below 1 is treated as 1.
	Threads int
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		parts = append(parts, fmt.Sprintf("time=%v", v))
	}
	if o.Threads > 1 {
		parts = append(parts, fmt.Sprintf("threads=%v", o.Threads))
	}
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// Launcher manages searches from a given position.
type Launcher interface {
	// Launch starts a new search from pos, with rootHistory the Zobrist hashes of every
	// position reached so far in the real game (oldest first, including pos itself),
	// used for repetition detection. It returns a Handle to control the search and a
	// channel of iteratively deeper PVs; the channel closes when the search is
	// exhausted. The search can be stopped at any time via the Handle.
	Launch(ctx context.Context, pos *board.Position, rootHistory []board.ZobristHash, ev eval.Evaluator, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the engine manage a running search. The engine is expected to spin off
// searches and halt/abandon them when no longer needed.
type Handle interface {
	// Halt stops the search, if running, and returns the best PV found so far. Idempotent.
	Halt() search.PV
}
