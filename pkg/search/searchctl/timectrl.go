package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Kind selects which of TimeControl's fields are meaningful, mirroring the mutually
// exclusive parameters of the UCI "go" command.
type Kind uint8

const (
	// Default lets the engine pick its own time allocation, as if given a generous but
	// unspecified game clock.
	Default Kind = iota
	// DepthOnly limits the search to a fixed ply depth, unconstrained by time.
	DepthOnly
	// NodesOnly limits the search to a fixed node count, unconstrained by time.
	NodesOnly
	// MoveTime limits the search to a fixed wall-clock duration for this move.
	MoveTime
	// Fischer is a standard incremental clock: each side has a remaining budget plus a
	// per-move increment, optionally with a fixed number of moves until the next time
	// control.
	Fischer
	// MateIn searches for a forced mate within the given number of moves and stops once
	// found (or the search is otherwise exhausted).
	MateIn
	// Infinite sets no time, depth or node budget: the search runs until stopped, until a
	// configured depth limit is reached, or until a forced mate is found.
	Infinite
)

// TimeControl describes how long, deep or far a search should run, matching the shape
// of the UCI "go" command's parameters.
type TimeControl struct {
	Kind Kind

	Depth int
	Nodes uint64
	Mate  int

	MoveTime time.Duration

	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
}

// Limits returns a soft and hard time budget for the side to move, if this time
// control is time-bounded at all. After the soft limit, no new iterative-deepening
// depth should be started; the hard limit is an absolute ceiling enforced by a timer.
func (t TimeControl) Limits(c board.Color) (soft, hard time.Duration, ok bool) {
	switch t.Kind {
	case MoveTime:
		return t.MoveTime, t.MoveTime, true
	case Fischer:
		remainder, inc := t.WTime, t.WInc
		if c == board.Black {
			remainder, inc = t.BTime, t.BInc
		}

		// Assume 40 moves remain to the next time control if not told otherwise.
		moves := time.Duration(40)
		if t.MovesToGo > 0 {
			moves = time.Duration(t.MovesToGo) + 1
		}

		soft = remainder/(2*moves) + inc/2
		hard = 3 * soft
		if hard > remainder-100*time.Millisecond {
			hard = remainder - 100*time.Millisecond
		}
		if hard < 0 {
			hard = 0
		}
		return soft, hard, true
	default:
		return 0, 0, false
	}
}

func (t TimeControl) String() string {
	switch t.Kind {
	case DepthOnly:
		return fmt.Sprintf("depth=%v", t.Depth)
	case NodesOnly:
		return fmt.Sprintf("nodes=%v", t.Nodes)
	case MoveTime:
		return fmt.Sprintf("movetime=%v", t.MoveTime)
	case Fischer:
		return fmt.Sprintf("%v<>%v +%v/+%v[moves=%v]", t.WTime, t.BTime, t.WInc, t.BInc, t.MovesToGo)
	case MateIn:
		return fmt.Sprintf("mate=%v", t.Mate)
	case Infinite:
		return "infinite"
	default:
		return "default"
	}
}

// EnforceTimeControl arms a hard-limit timer that halts h when it fires, and returns
// the soft limit the iterative deepening loop should itself observe. ok is false when
// tc is unset or carries a non-time-bounded Kind.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard, bounded := c.Limits(turn)
	if !bounded {
		return 0, false
	}

	timer := time.AfterFunc(hard, func() {
		h.Halt()
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
