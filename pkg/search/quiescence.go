package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// quiescence extends search past the nominal depth limit along capture/check lines
// only, so the static evaluator is never asked to judge a position in the middle of an
// ongoing exchange (the "horizon effect"). When the side to move is in check, every
// legal evasion is searched rather than just captures, since a position in check may
// have no quiet moves safe from a stand-pat cutoff -- checkmate must never be missed
// here, or the search will happily walk into one.
func (w *Worker) quiescence(ctx context.Context, pos *board.Position, ply int, alpha, beta eval.Score) eval.Score {
	w.nodes++
	if isCancelled(ctx) {
		return eval.Zero
	}
	if isDraw(pos, w.path) {
		return eval.Zero
	}

	inCheck := pos.InCheck()

	var standPat eval.Score
	if !inCheck {
		standPat = w.evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var ml board.MoveList
	if inCheck {
		pos.GenerateLegal(&ml)
	} else {
		pos.GeneratePseudoLegal(&ml)
	}

	scores := make([]int32, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		if !inCheck && !m.Kind.IsCapture() && !m.Kind.IsPromotion() {
			scores[i] = scoreBadCapture - 1 // sorts after everything; skipped below
			continue
		}
		scores[i] = mvvLVA(m)
	}
	insertionSortByScore(&ml, scores)

	best := standPat
	if inCheck {
		best = eval.MatedIn(ply) // pessimistic until a legal evasion is found
	}

	hasLegalMove := false
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		if !inCheck && !m.Kind.IsCapture() && !m.Kind.IsPromotion() {
			break // remaining moves are quiet, and we sorted them last
		}
		if !inCheck && m.Kind.IsCapture() && eval.StaticExchange(pos, m) < 0 {
			continue // losing capture: never worth searching in quiescence
		}

		u := pos.MakeMove(m)
		if pos.IsAttacked(pos.King(pos.Turn().Opponent()), pos.Turn()) {
			pos.UnmakeMove(u)
			continue
		}
		hasLegalMove = true
		w.path = append(w.path, pos.Hash())

		score := -w.quiescence(ctx, pos, ply+1, -beta, -alpha)

		w.path = w.path[:len(w.path)-1]
		pos.UnmakeMove(u)

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	if inCheck && !hasLegalMove {
		return eval.MatedIn(ply) // ml was already the full legal move list: none means checkmate
	}
	return best
}

// evaluate returns the static evaluation of pos, consulting and populating the worker's
// own evaluation cache (if any) first.
func (w *Worker) evaluate(pos *board.Position) eval.Score {
	if w.Cache != nil {
		if s, ok := w.Cache.Get(pos.Hash()); ok {
			return s
		}
	}
	s := w.Eval.Evaluate(pos)
	if w.Cache != nil {
		w.Cache.Put(pos.Hash(), s)
	}
	return s
}
