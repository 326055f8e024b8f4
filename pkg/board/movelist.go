package board

// MaxMoves bounds the number of pseudo-legal moves any single chess position can have.
// 218 is the documented theoretical maximum; rounded up for headroom.
const MaxMoves = 256

// MoveList is a fixed-capacity, stack-friendly buffer of moves. Move generation appends
// into a MoveList passed in by the caller so that generating moves at every ply of a
// search does not allocate.
type MoveList struct {
	moves [MaxMoves]Move
	n     int
}

// Reset empties the list for reuse.
func (ml *MoveList) Reset() {
	ml.n = 0
}

// Add appends a move. Panics if the list is at capacity, which would indicate a bug in
// move generation rather than a legitimate position.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Len returns the number of moves currently held.
func (ml *MoveList) Len() int {
	return ml.n
}

// At returns the i'th move.
func (ml *MoveList) At(i int) Move {
	return ml.moves[i]
}

// Set overwrites the i'th move, used by in-place move ordering.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges two moves, used by in-place move ordering.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Slice returns the held moves as a slice. The slice aliases the list's backing array
// and is only valid until the next Reset.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.n]
}

// Contains reports whether a move (compared by From/To/promotion) is present. Used to
// validate a UCI move string against the legal move set.
func (ml *MoveList) Contains(m Move) (Move, bool) {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i].Equals(m) {
			return ml.moves[i], true
		}
	}
	return Move{}, false
}
