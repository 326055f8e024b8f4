package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/tt"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// aspirationWindow is the initial +-margin around the previous iteration's score that a
// deeper iteration's search window opens with. A tight window lets more of the tree be
// pruned, at the cost of re-searching with the failing side progressively widened on the
// (uncommon, once move ordering has stabilized across iterations) occasions the true
// score falls outside it.
const aspirationWindow = eval.Score(25)

// aspirationMinDepth is the shallowest depth aspiration windows are attempted at; below
// it the score from the previous iteration is too unreliable to center a window on.
const aspirationMinDepth = 5

// Iterative runs iterative-deepening negamax, with aspiration windows once the window
// has had a chance to stabilize, over a pool of Threads worker goroutines sharing one
// transposition table (lazy-SMP): only the first ("main") worker's iterations are
// reported, the rest exist purely to diversify and warm the shared table.
type Iterative struct {
	TT *tt.Table
}

func (it *Iterative) Launch(ctx context.Context, pos *board.Position, rootHistory []board.ZobristHash, ev eval.Evaluator, opt Options) (Handle, <-chan search.PV) {
	threads := opt.Threads
	if threads < 1 {
		threads = 1
	}

	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}

	shared := &search.Shared{TT: it.TT}
	shared.TT.NewSearch()

	cache := eval.NewCache(1 << 16)

	go h.process(ctx, shared, pos, rootHistory, ev, cache, opt, threads, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, shared *search.Shared, pos *board.Position, rootHistory []board.ZobristHash, ev eval.Evaluator, cache *eval.Cache, opt Options, threads int, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, pos.Turn())
	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	for i := 1; i < threads; i++ {
		go h.helper(wctx, shared, pos.Clone(), rootHistory, ev, opt)
	}

	w := search.NewWorker(shared, ev, cache, rootHistory)

	var prevScore eval.Score
	depth := 1
	searchStart := time.Now()
	for !h.quit.IsClosed() {
		start := time.Now()
		w.NewIteration()

		score, moves, err := searchWithAspiration(wctx, w, pos, depth, prevScore)
		if err != nil {
			if err == search.ErrHalted {
				return
			}
			logw.Errorf(ctx, "search failed at depth=%v: %v", depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: w.Nodes(),
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
			Hash:  shared.TT.Used(),
		}
		logw.Debugf(ctx, "searched %v: %v", pos, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		prevScore = score

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if tc, ok := opt.TimeControl.V(); ok {
			switch tc.Kind {
			case DepthOnly:
				if depth >= tc.Depth {
					return
				}
			case NodesOnly:
				if w.Nodes() >= tc.Nodes {
					return
				}
			case MateIn:
				if mate, ok := score.MateIn(); ok && mate <= tc.Mate {
					return
				}
			}
		}
		if moves, ok := mateDistance(score); ok && moves <= depth {
			return // forced mate found within full-width search: exact result
		}
		if useSoft && soft < time.Since(searchStart) {
			return
		}
		depth++
	}
}

// helper runs an unreported background search, purely to populate the shared
// transposition table with results a deeper or differently-ordered search might reach
// before the main worker does.
func (h *handle) helper(ctx context.Context, shared *search.Shared, pos *board.Position, rootHistory []board.ZobristHash, ev eval.Evaluator, opt Options) {
	cache := eval.NewCache(1 << 14)
	w := search.NewWorker(shared, ev, cache, rootHistory)

	depth := 1
	for !h.quit.IsClosed() {
		w.NewIteration()
		if _, _, err := w.Run(ctx, pos, depth, eval.NegInf, eval.Inf); err != nil {
			return
		}
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) >= limit {
			return
		}
		depth++
	}
}

func searchWithAspiration(ctx context.Context, w *search.Worker, pos *board.Position, depth int, prevScore eval.Score) (eval.Score, []board.Move, error) {
	if depth < aspirationMinDepth {
		return w.Run(ctx, pos, depth, eval.NegInf, eval.Inf)
	}

	window := aspirationWindow
	alpha, beta := prevScore-window, prevScore+window

	for {
		score, moves, err := w.Run(ctx, pos, depth, alpha, beta)
		if err != nil {
			return score, moves, err
		}
		if score <= alpha {
			alpha = eval.Max(eval.NegInf, prevScore-2*window)
			window *= 4
			continue
		}
		if score >= beta {
			beta = eval.Min(eval.Inf, prevScore+2*window)
			window *= 4
			continue
		}
		return score, moves, nil
	}
}

func mateDistance(s eval.Score) (int, bool) {
	if moves, ok := s.MateIn(); ok {
		return moves, true
	}
	if moves, ok := s.MatedInN(); ok {
		return moves, true
	}
	return 0, false
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
