package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search/tt"
)

// nullMoveReduction is how many extra plies null-move pruning trusts a fail-high by,
// beyond the one ply the pass itself already costs.
const nullMoveReduction = 2

// negamax searches pos to depth plies (zero meaning "drop to quiescence"), at ply plies
// from the search root, within window [alpha, beta]. lastMove is the move that led to
// this node (zero-valued at the root), used to probe the counter-move table. It returns
// the score, from the perspective of the side to move at this node, and the remaining
// principal variation below this node (not including the move that reached it).
func (w *Worker) negamax(ctx context.Context, pos *board.Position, depth, ply int, alpha, beta eval.Score, lastMove board.Move) (eval.Score, []board.Move) {
	if isCancelled(ctx) {
		return eval.Zero, nil
	}

	inCheck := pos.InCheck()
	if depth <= 0 {
		if inCheck {
			depth = 1 // check extension: never evaluate a position in check statically
		} else {
			return w.quiescence(ctx, pos, ply, alpha, beta), nil
		}
	}

	if ply > 0 {
		if isDraw(pos, w.path) {
			return eval.Zero, nil
		}
		// Mate distance pruning: a mate already found closer to the root makes this
		// node's window unreachable regardless of what it contains.
		if m := eval.MatedIn(ply); alpha < m {
			alpha = m
		}
		if m := eval.Mate(ply + 1); beta > m {
			beta = m
		}
		if alpha >= beta {
			return alpha, nil
		}
	}

	w.nodes++

	alphaOrig := alpha
	var hashMove board.Move
	hasHashMove := false
	if entry, ok := w.Shared.TT.Probe(pos.Hash()); ok {
		hashMove = entry.Move
		hasHashMove = true
		if entry.Depth >= depth {
			score := fromStorage(entry.Score, ply)
			switch entry.Bound {
			case tt.Exact:
				return score, []board.Move{entry.Move}
			case tt.LowerBound:
				if score > alpha {
					alpha = score
				}
			case tt.UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score, []board.Move{entry.Move}
			}
		}
	}

	if lastMove.Piece != board.NoPiece {
		if score, ok := w.tryNullMove(ctx, pos, depth, ply, beta); ok {
			return score, nil
		}
	}

	var ml board.MoveList
	pos.GeneratePseudoLegal(&ml)
	w.orderMoves(pos, &ml, ply, hashMove, hasHashMove, lastMove)

	hasLegalMove := false
	moveCount := 0
	bestScore := eval.MatedIn(ply)
	var bestMove board.Move
	var pv []board.Move

	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		u := pos.MakeMove(m)
		if pos.IsAttacked(pos.King(pos.Turn().Opponent()), pos.Turn()) {
			pos.UnmakeMove(u)
			continue
		}
		hasLegalMove = true
		moveCount++
		w.path = append(w.path, pos.Hash())

		givesCheck := pos.InCheck()
		newDepth := depth - 1

		var score eval.Score
		var rem []board.Move
		quiet := !m.Kind.IsCapture() && !m.Kind.IsPromotion()

		switch {
		case moveCount == 1:
			score, rem = w.negamax(ctx, pos, newDepth, ply+1, -beta, -alpha, m)
			score = -score
		default:
			reduction := 0
			if depth >= 3 && moveCount > 3 && quiet && !givesCheck && !inCheck {
				reduction = 1
			}
			score, rem = w.negamax(ctx, pos, newDepth-reduction, ply+1, -alpha-1, -alpha, m)
			score = -score
			if score > alpha && (reduction > 0 || score < beta) {
				score, rem = w.negamax(ctx, pos, newDepth, ply+1, -beta, -alpha, m)
				score = -score
			}
		}

		w.path = w.path[:len(w.path)-1]
		pos.UnmakeMove(u)

		if isCancelled(ctx) {
			return eval.Zero, nil
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			pv = append([]board.Move{m}, rem...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if quiet {
				w.killers.Add(ply, m)
				w.history.Add(pos.Turn(), m, depth)
				if lastMove.Piece != board.NoPiece {
					w.counter.Add(lastMove.Piece, lastMove.To, m)
				}
			}
			break
		}
		if quiet {
			w.history.Penalize(pos.Turn(), m, depth)
		}
	}

	if !hasLegalMove {
		if inCheck {
			return eval.MatedIn(ply), nil
		}
		return eval.Zero, nil
	}

	bound := tt.Exact
	switch {
	case bestScore <= alphaOrig:
		bound = tt.UpperBound
	case bestScore >= beta:
		bound = tt.LowerBound
	}
	if w.Shared.TT.ShouldReplace(pos.Hash(), depth) {
		w.Shared.TT.Store(pos.Hash(), tt.Entry{
			Bound: bound,
			Depth: depth,
			Score: toStorage(bestScore, ply),
			Move:  bestMove,
		})
	}

	return bestScore, pv
}

// tryNullMove attempts null-move pruning: if passing the turn entirely still produces a
// fail-high, the position is so good that a real move will too, except in zugzwang
// (guarded against by requiring non-pawn material), at the root (guarded by checking
// ply > 0, since a null move there is meaningless), right after another null move
// (guarded by the caller, which skips it when lastMove is the zero Move) or near
// the leaves (guarded by the depth >= 3 threshold, since the reduced re-search must
// still have positive depth to mean anything).
func (w *Worker) tryNullMove(ctx context.Context, pos *board.Position, depth, ply int, beta eval.Score) (eval.Score, bool) {
	if ply == 0 || depth < 3 || beta.IsMate() {
		return 0, false
	}
	if pos.InCheck() || !pos.HasNonPawnMaterial(pos.Turn()) {
		return 0, false
	}

	u := pos.MakeNullMove()
	w.path = append(w.path, pos.Hash())
	score, _ := w.negamax(ctx, pos, depth-1-nullMoveReduction, ply+1, -beta, -beta+1, board.Move{})
	score = -score
	w.path = w.path[:len(w.path)-1]
	pos.UnmakeNullMove(u)

	if isCancelled(ctx) {
		return 0, false
	}
	if score >= beta && !score.IsMate() {
		return beta, true
	}
	return 0, false
}

// isDraw reports whether pos should be scored as a draw: the 50-move rule, insufficient
// material, or a position repeated earlier in either the real game history or the
// search path explored so far. A single prior repeat (rather than the three required to
// actually claim a draw over the board) is treated as drawn here -- if the search
// believes a line leads back to a position it has already seen, a rational opponent can
// force the repetition, so there is no value in searching deeper to find out.
func isDraw(pos *board.Position, path []board.ZobristHash) bool {
	if pos.Halfmove() >= 100 {
		return true
	}
	if pos.HasInsufficientMaterial() {
		return true
	}

	h := pos.Hash()
	limit := pos.Halfmove()
	for i := len(path) - 2; i >= 0 && limit > 0; i, limit = i-1, limit-1 {
		if path[i] == h {
			return true
		}
	}
	return false
}

// toStorage converts an absolute (distance-from-root) mate score into one relative to
// the current node, so it remains meaningful when the same transposition is probed at a
// different distance from the root in a later search.
func toStorage(s eval.Score, ply int) eval.Score {
	switch {
	case s > eval.MateScore-eval.MaxMatePlies:
		return s + eval.Score(ply)
	case s < -eval.MateScore+eval.MaxMatePlies:
		return s - eval.Score(ply)
	default:
		return s
	}
}

// fromStorage reverses toStorage.
func fromStorage(s eval.Score, ply int) eval.Score {
	switch {
	case s > eval.MateScore-eval.MaxMatePlies:
		return s - eval.Score(ply)
	case s < -eval.MateScore+eval.MaxMatePlies:
		return s + eval.Score(ply)
	default:
		return s
	}
}
