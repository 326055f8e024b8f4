package search

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// Move ordering places the moves most likely to cause an early beta cutoff first, so
// alpha-beta prunes the widest possible subtree. Scores are coarse buckets (hash move,
// good capture, killer, quiet, bad capture) with a fine-grained tiebreaker within each
// bucket, rather than one continuous formula -- staged ordering this way is cheap to
// compute and keeps captures that lose material from crowding out killers and history.
const (
	scoreHash            = 30_000_000
	scoreGoodCapture     = 20_000_000
	scoreKiller1         = 10_000_100
	scoreKiller2         = 10_000_000
	scoreQuietPromotion  = 9_500_000
	scoreQueenPromoBonus = 100
	scoreCounterMove     = 9_000_000
	scoreQuiet           = 0
	scoreBadCapture      = -10_000_000
)

// orderMoves scores and sorts ml in place (best move first) for a node at ply, given
// the transposition table's suggested move (if any), the prior move played to reach
// this node (for the counter-move table) and the worker's killer/history state.
func (w *Worker) orderMoves(pos *board.Position, ml *board.MoveList, ply int, hashMove board.Move, hasHashMove bool, prior board.Move) {
	n := ml.Len()
	scores := make([]int32, n)

	k1, k2 := w.killers.Moves(ply)
	var cm board.Move
	if prior.Piece != board.NoPiece {
		cm, _ = w.counter.Get(prior.Piece, prior.To)
	}

	for i := 0; i < n; i++ {
		m := ml.At(i)
		switch {
		case hasHashMove && m.Equals(hashMove):
			scores[i] = scoreHash
		case m.Kind.IsCapture():
			see := eval.StaticExchange(pos, m)
			mvvlva := mvvLVA(m)
			if see >= 0 {
				scores[i] = scoreGoodCapture + mvvlva
			} else {
				scores[i] = scoreBadCapture + mvvlva
			}
		case k1.Piece != board.NoPiece && m.Equals(k1):
			scores[i] = scoreKiller1
		case k2.Piece != board.NoPiece && m.Equals(k2):
			scores[i] = scoreKiller2
		case m.Kind.IsPromotion() && !m.Kind.IsCapture():
			scores[i] = scoreQuietPromotion
			if m.Kind.PromotedPiece() == board.Queen {
				scores[i] += scoreQueenPromoBonus
			}
		case cm.Piece != board.NoPiece && m.Equals(cm):
			scores[i] = scoreCounterMove
		default:
			scores[i] = scoreQuiet + w.history.Score(pos.Turn(), m)
		}
	}

	insertionSortByScore(ml, scores)
}

// mvvLVA scores a capture by "most valuable victim, least valuable attacker": prefer
// capturing the richest piece, and among equal victims prefer the cheapest attacker,
// since it leaves the least to lose if the capture itself gets refuted.
func mvvLVA(m board.Move) int32 {
	victim := m.Captured
	if m.Kind == board.EnPassantCapture {
		victim = board.Pawn
	}
	return int32(pieceOrderValue(victim))*16 - int32(pieceOrderValue(m.Piece))
}

func pieceOrderValue(p board.Piece) int {
	switch p {
	case board.Pawn:
		return 1
	case board.Knight, board.Bishop:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 20
	default:
		return 0
	}
}

// insertionSortByScore sorts ml (and its parallel scores slice) descending by score.
// Insertion sort rather than sort.Sort: move lists are short (rarely above 40 moves)
// and this avoids the interface-dispatch overhead of sort.Interface on the hottest
// loop in the search.
func insertionSortByScore(ml *board.MoveList, scores []int32) {
	for i := 1; i < len(scores); i++ {
		s, m := scores[i], ml.At(i)
		j := i - 1
		for j >= 0 && scores[j] < s {
			scores[j+1] = scores[j]
			ml.Set(j+1, ml.At(j))
			j--
		}
		scores[j+1] = s
		ml.Set(j+1, m)
	}
}
