package board

import "fmt"

const (
	repetition3Limit   = 3
	repetition5Limit   = 5
	noprogressPlyLimit = 100
)

type node struct {
	pos        *Position
	noprogress int

	next Move // move played from this node, if any
	prev *node
}

// Board layers game history on top of Position: draw detection (threefold/fivefold
// repetition, the 50/75-move rule, insufficient material) and move undo. Not thread-safe;
// callers needing concurrent search snapshots should Fork or clone the underlying Position.
type Board struct {
	zt          *ZobristTable
	repetitions map[ZobristHash]int

	result  Result
	current *node
}

// NewBoard starts a board from the given position.
func NewBoard(zt *ZobristTable, pos *Position) *Board {
	current := &node{pos: pos}
	return &Board{
		zt:          zt,
		repetitions: map[ZobristHash]int{pos.Hash(): 1},
		current:     current,
	}
}

// Fork branches a new board sharing past history. The shared history must not be mutated
// through PopMove on either board afterwards.
func (b *Board) Fork() *Board {
	repetitions := make(map[ZobristHash]int, len(b.repetitions))
	for k, v := range b.repetitions {
		repetitions[k] = v
	}
	return &Board{
		zt:          b.zt,
		repetitions: repetitions,
		result:      b.result,
		current: &node{
			pos:        b.current.pos,
			noprogress: b.current.noprogress,
			prev:       b.current.prev,
		},
	}
}

// Position returns the current position.
func (b *Board) Position() *Position { return b.current.pos }

// Turn returns the side to move.
func (b *Board) Turn() Color { return b.current.pos.Turn() }

// NoProgress returns the halfmove (50-move rule) clock.
func (b *Board) NoProgress() int { return b.current.noprogress }

// Result returns the current game result, Undecided/NotOver if the game continues.
func (b *Board) Result() Result { return b.result }

// PushMove attempts a pseudo-legal move. Returns false if it leaves the mover's king in
// check. Updates draw bookkeeping as a side effect.
func (b *Board) PushMove(m Move) bool {
	if b.result.IsOver() {
		return false
	}

	side := b.current.pos.Turn()
	next := b.current.pos.Clone()
	next.MakeMove(m)
	if next.IsAttacked(next.King(side), next.Turn()) {
		return false
	}

	n := &node{
		pos:        next,
		noprogress: updateNoProgress(b.current.noprogress, m),
		prev:       b.current,
	}
	b.current.next = m
	b.current = n

	b.repetitions[next.Hash()]++

	if b.repetitions[next.Hash()] >= repetition3Limit {
		switch actual := b.identicalPositionCount(n); {
		case actual >= repetition5Limit:
			b.result = Result{Outcome: Drawn, Reason: Repetition5}
		case actual >= repetition3Limit:
			b.result = Result{Outcome: Drawn, Reason: Repetition3}
		}
	}

	if n.noprogress >= noprogressPlyLimit {
		b.result = Result{Outcome: Drawn, Reason: NoProgress}
	}

	if m.Kind.IsCapture() || m.Kind.IsPromotion() {
		if next.HasInsufficientMaterial() {
			b.result = Result{Outcome: Drawn, Reason: InsufficientMaterial}
		}
	}

	if !next.HasLegalMove() {
		if next.InCheck() {
			b.result = Result{Outcome: Loss(next.Turn()), Reason: Checkmate}
		} else {
			b.result = Result{Outcome: Drawn, Reason: Stalemate}
		}
	}

	return true
}

// PopMove undoes the last move, returning it. Returns false at the root.
func (b *Board) PopMove() (Move, bool) {
	if b.current.prev == nil {
		return Move{}, false
	}

	b.repetitions[b.current.pos.Hash()]--
	b.result = Result{}

	m := b.current.prev.next
	b.current.prev.next = Move{}
	b.current = b.current.prev
	return m, true
}

// Adjudicate forces a result, e.g. by external agreement or UCI resignation.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

func (b *Board) identicalPositionCount(n *node) int {
	ret := 1
	for tmp := n.prev; tmp != nil; tmp = tmp.prev {
		if tmp.pos.Hash() == n.pos.Hash() && tmp.pos.Turn() == n.pos.Turn() {
			ret++
		}
		if tmp.noprogress == 0 {
			break
		}
	}
	return ret
}

// History returns the Zobrist hash of every position from the start of the game up to
// and including the current one, oldest first. Used to seed a search's repetition
// detection against moves played before the search began.
func (b *Board) History() []ZobristHash {
	var rev []ZobristHash
	for n := b.current; n != nil; n = n.prev {
		rev = append(rev, n.pos.Hash())
	}
	out := make([]ZobristHash, len(rev))
	for i, h := range rev {
		out[len(rev)-1-i] = h
	}
	return out
}

// LastMove returns the last move played, if any.
func (b *Board) LastMove() (Move, bool) {
	if b.current.prev != nil {
		return b.current.prev.next, true
	}
	return Move{}, false
}

// HasCastled reports whether the color has castled at any point in this board's history.
func (b *Board) HasCastled(c Color) bool {
	turn := b.current.pos.Turn().Opponent()
	for cur := b.current.prev; cur != nil; cur = cur.prev {
		if turn == c && cur.next.Kind.IsCastle() {
			return true
		}
		turn = turn.Opponent()
	}
	return false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, hash=%x (seen %v), noprogress=%v, result=%v}",
		b.current.pos, b.current.pos.Hash(), b.repetitions[b.current.pos.Hash()], b.current.noprogress, b.result)
}

func updateNoProgress(old int, m Move) int {
	if m.Piece == Pawn || m.Kind.IsCapture() {
		return 0
	}
	return old + 1
}
