// Package search implements negamax alpha-beta search with quiescence and a shared
// lock-free transposition table over the board package's mutable Position API.
// Aspiration windows are applied by the caller, in package searchctl.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search/tt"
)

// ErrHalted is returned by Worker.Run when it was cancelled via ctx before completing.
var ErrHalted = errors.New("search: halted")

// MaxPly bounds search depth and backs every ply-indexed table (killers, history of
// the search path). A well-formed search never approaches it; it exists so those
// tables can be fixed-size arrays.
const MaxPly = 128

// PV is one iteration's principal variation result.
type PV struct {
	Depth int
	Nodes uint64
	Score eval.Score
	Moves []board.Move
	Time  time.Duration
	Hash  float64 // transposition table utilization, [0;1]
}

func (pv PV) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "depth=%v score=%v nodes=%v time=%v", pv.Depth, pv.Score, pv.Nodes, pv.Time)
	if len(pv.Moves) > 0 {
		parts := make([]string, len(pv.Moves))
		for i, m := range pv.Moves {
			parts[i] = m.String()
		}
		fmt.Fprintf(&sb, " pv=%v", strings.Join(parts, " "))
	}
	return sb.String()
}

// Shared is the state a position's negamax search shares with every other worker
// goroutine exploring the same root concurrently (lazy-SMP): the transposition table.
// It is safe to read and write from multiple goroutines.
type Shared struct {
	TT *tt.Table
}

// Worker holds the per-goroutine mutable search state: killer/history tables, the
// evaluator, node counter and repetition path. A Worker is not safe for concurrent use
// and must not be shared between goroutines; construct one per search thread.
type Worker struct {
	Shared *Shared
	Eval   eval.Evaluator
	Cache  *eval.Cache

	killers *KillerTable
	history *HistoryTable
	counter *CounterMoveTable

	nodes uint64
	path  []board.ZobristHash // root game history + moves played so far this search
}

// NewWorker returns a Worker ready for repeated Run calls. rootHistory is the sequence
// of Zobrist hashes of every position reached so far in the real game (from the
// starting position up to, and including, the position about to be searched), used for
// repetition detection against moves made before the search began.
func NewWorker(shared *Shared, ev eval.Evaluator, cache *eval.Cache, rootHistory []board.ZobristHash) *Worker {
	path := make([]board.ZobristHash, len(rootHistory), len(rootHistory)+MaxPly)
	copy(path, rootHistory)
	return &Worker{
		Shared:  shared,
		Eval:    ev,
		Cache:   cache,
		killers: NewKillerTable(),
		history: NewHistoryTable(),
		counter: NewCounterMoveTable(),
		path:    path,
	}
}

// Nodes returns the number of nodes visited since the Worker was constructed or reset.
func (w *Worker) Nodes() uint64 { return w.nodes }

// NewIteration resets the Worker's internal node counter ahead of the next iterative
// deepening depth, while keeping the killer/history tables warm (they improve move
// ordering across iterations rather than just within one).
func (w *Worker) NewIteration() { w.nodes = 0 }

// Run performs a full-width negamax search of pos to depth plies from the root, with an
// aspiration window [alpha, beta]. It returns the score, the principal variation (best
// line found) and an error; the node count is read with Nodes. If ctx is cancelled
// mid-search, it returns ErrHalted;
// any partial result is not meaningful and must be discarded.
func (w *Worker) Run(ctx context.Context, pos *board.Position, depth int, alpha, beta eval.Score) (eval.Score, []board.Move, error) {
	score, pv := w.negamax(ctx, pos, depth, 0, alpha, beta, board.Move{})
	if isCancelled(ctx) {
		return 0, nil, ErrHalted
	}
	return score, pv, nil
}

func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
