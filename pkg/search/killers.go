package search

import "github.com/corvidchess/corvid/pkg/board"

// KillerTable remembers, per ply, the last two quiet moves that caused a beta cutoff.
// Killer moves tend to recur in sibling nodes since they often refute a threat that
// doesn't depend on the exact position (e.g. a quiet move that parries a mating
// threat), so trying them early in sibling searches improves move ordering
// without the cost of a full static exchange evaluation.
type KillerTable struct {
	moves [MaxPly][2]board.Move
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Add records m as a killer at ply, unless it is already the primary killer there.
func (k *KillerTable) Add(ply int, m board.Move) {
	if ply >= MaxPly || m.Kind.IsCapture() {
		return // captures are ordered by SEE/MVV-LVA; no need to track as killers
	}
	if k.moves[ply][0].Equals(m) {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// Moves returns the two killer moves recorded at ply, zero-valued if unset.
func (k *KillerTable) Moves(ply int) (board.Move, board.Move) {
	if ply >= MaxPly {
		return board.Move{}, board.Move{}
	}
	return k.moves[ply][0], k.moves[ply][1]
}

// Clear wipes every recorded killer, e.g. between games.
func (k *KillerTable) Clear() {
	for i := range k.moves {
		k.moves[i] = [2]board.Move{}
	}
}

// HistoryTable scores quiet moves by how often they have caused a beta cutoff at any
// depth, weighted by depth squared so cutoffs found deep in the tree (which required
// surviving more scrutiny) count for more than shallow ones. Indexed by side to move,
// origin and destination square -- the conventional "history heuristic" key.
type HistoryTable struct {
	score [board.NumColors][board.NumSquares][board.NumSquares]int32
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

const historyMax = 1 << 20

// Add rewards m, played by side, for causing a beta cutoff at the given depth.
func (h *HistoryTable) Add(side board.Color, m board.Move, depth int) {
	if m.Kind.IsCapture() {
		return
	}
	bonus := int32(depth * depth)
	v := &h.score[side][m.From][m.To]
	*v += bonus
	if *v > historyMax {
		h.halve()
	}
}

// Penalize discourages m, played by side, after it was tried but did not cause a
// cutoff at the given depth -- without this, a move that only occasionally cuts off
// can accumulate a disproportionate score relative to moves that were never tried.
func (h *HistoryTable) Penalize(side board.Color, m board.Move, depth int) {
	if m.Kind.IsCapture() {
		return
	}
	bonus := int32(depth * depth)
	v := &h.score[side][m.From][m.To]
	*v -= bonus
	if *v < -historyMax {
		h.halve()
	}
}

func (h *HistoryTable) halve() {
	for c := range h.score {
		for f := range h.score[c] {
			for t := range h.score[c][f] {
				h.score[c][f][t] /= 2
			}
		}
	}
}

// Score returns the accumulated history score for m played by side.
func (h *HistoryTable) Score(side board.Color, m board.Move) int32 {
	return h.score[side][m.From][m.To]
}

// Clear wipes every recorded score, e.g. between games.
func (h *HistoryTable) Clear() {
	h.score = [board.NumColors][board.NumSquares][board.NumSquares]int32{}
}

// CounterMoveTable remembers, for each (piece, destination) the opponent just played,
// which reply most recently caused a beta cutoff. Unlike the history table, this keys
// on the move that provoked the reply rather than the reply's own squares, so it
// captures position-independent refutations (e.g. "always recapture on this square")
// that plain history scoring converges to more slowly.
type CounterMoveTable struct {
	reply [board.NumPieces][board.NumSquares]board.Move
}

// NewCounterMoveTable returns an empty counter-move table.
func NewCounterMoveTable() *CounterMoveTable {
	return &CounterMoveTable{}
}

// Add records reply as the counter to the opponent having just moved piece to sq.
func (c *CounterMoveTable) Add(piece board.Piece, sq board.Square, reply board.Move) {
	if reply.Kind.IsCapture() {
		return
	}
	c.reply[piece][sq] = reply
}

// Get returns the recorded counter-move to piece having just moved to sq, if any.
func (c *CounterMoveTable) Get(piece board.Piece, sq board.Square) (board.Move, bool) {
	m := c.reply[piece][sq]
	return m, m.Piece != board.NoPiece
}

// Clear wipes every recorded counter-move, e.g. between games.
func (c *CounterMoveTable) Clear() {
	c.reply = [board.NumPieces][board.NumSquares]board.Move{}
}
