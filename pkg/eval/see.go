package eval

import "github.com/corvidchess/corvid/pkg/board"

// StaticExchange evaluates the net material gain of playing m on pos using the standard
// swap-off algorithm: repeatedly resolve the least valuable attacker onto the target
// square, alternating sides, and minimax the resulting gain sequence. Captures behind the
// destination square are re-discovered as sliders are removed, so this correctly handles
// battery exchanges (e.g. rook behind rook on an open file).
func StaticExchange(pos *board.Position, m board.Move) Score {
	if !m.Kind.IsCapture() {
		return 0
	}

	target := m.To
	side := pos.Turn()
	occ := pos.All()

	gain := make([]Score, 0, 32)
	captured := m.Captured
	if m.Kind == board.EnPassantCapture {
		captured = board.Pawn
	}
	gain = append(gain, NominalValue(captured))

	occ = occ.Clear(m.From)
	attacker := m.Piece
	side = side.Opponent()

	var byColor [board.NumColors]board.Bitboard
	for c := board.ZeroColor; c < board.NumColors; c++ {
		byColor[c] = attackersTo(pos, target, c, occ)
	}

	for {
		attackers := byColor[side] & occ
		if attackers == 0 {
			break
		}
		from, piece, ok := leastValuable(pos, attackers, side)
		if !ok {
			break
		}

		gain = append(gain, NominalValue(attacker)-gain[len(gain)-1])
		occ = occ.Clear(from)
		attacker = piece

		byColor[board.White] = attackersTo(pos, target, board.White, occ)
		byColor[board.Black] = attackersTo(pos, target, board.Black, occ)

		side = side.Opponent()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}

func attackersTo(pos *board.Position, sq board.Square, by board.Color, occ board.Bitboard) board.Bitboard {
	var ret board.Bitboard
	ret |= board.PawnAttacks(sq, by.Opponent()) & pos.PieceBB(by, board.Pawn) & occ
	ret |= board.KnightAttacks(sq) & pos.PieceBB(by, board.Knight) & occ
	ret |= board.KingAttacks(sq) & pos.PieceBB(by, board.King) & occ
	ret |= board.BishopAttacks(sq, occ) & (pos.PieceBB(by, board.Bishop) | pos.PieceBB(by, board.Queen)) & occ
	ret |= board.RookAttacks(sq, occ) & (pos.PieceBB(by, board.Rook) | pos.PieceBB(by, board.Queen)) & occ
	return ret
}

// leastValuable returns the lowest-nominal-value attacker in the set.
func leastValuable(pos *board.Position, attackers board.Bitboard, side board.Color) (board.Square, board.Piece, bool) {
	for _, p := range board.AllPieces {
		bb := attackers & pos.PieceBB(side, p)
		if bb != 0 {
			return bb.LSB(), p, true
		}
	}
	return board.NoSquare, board.NoPiece, false
}
