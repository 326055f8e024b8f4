package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBitboardPopCount(t *testing.T) {
	tests := []struct {
		bb       board.Bitboard
		expected int
	}{
		{board.Empty, 0},
		{board.BitMask(board.G4), 1},
		{board.BitMask(board.G3) | board.BitMask(board.G4), 2},
		{board.Full, 64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.bb.PopCount())
	}
}

func TestBitboardSetClear(t *testing.T) {
	bb := board.Empty.Set(board.E4).Set(board.D4)
	assert.True(t, bb.IsSet(board.E4))
	assert.True(t, bb.IsSet(board.D4))
	assert.False(t, bb.IsSet(board.E5))

	bb = bb.Clear(board.E4)
	assert.False(t, bb.IsSet(board.E4))
}

func TestBitboardLSBMSB(t *testing.T) {
	bb := board.BitMask(board.A1) | board.BitMask(board.H8)
	assert.Equal(t, board.A1, bb.LSB())
	assert.Equal(t, board.H8, bb.MSB())
}

func TestBitboardPop(t *testing.T) {
	bb := board.BitMask(board.B2) | board.BitMask(board.C3)
	sq := bb.Pop()
	assert.Equal(t, board.B2, sq)
	assert.Equal(t, 1, bb.PopCount())
}

func TestBitboardSquares(t *testing.T) {
	bb := board.BitMask(board.A1) | board.BitMask(board.D4) | board.BitMask(board.H8)
	assert.ElementsMatch(t, []board.Square{board.A1, board.D4, board.H8}, bb.Squares())
}

func TestBitboardSubsets(t *testing.T) {
	mask := board.BitMask(board.B2) | board.BitMask(board.C3)
	var count int
	mask.Subsets(func(sub board.Bitboard) bool {
		count++
		assert.Equal(t, board.Empty, sub&^mask)
		return true
	})
	assert.Equal(t, 4, count) // 2^2 subsets
}

func TestSlidingAttacksHyperbolaQuintessence(t *testing.T) {
	occ := board.BitMask(board.D4) | board.BitMask(board.D7)
	attacks := board.RookAttacks(board.D4, occ)
	assert.True(t, attacks.IsSet(board.D5))
	assert.True(t, attacks.IsSet(board.D7)) // blocker itself is attacked
	assert.False(t, attacks.IsSet(board.D8))
	assert.True(t, attacks.IsSet(board.A4))
	assert.True(t, attacks.IsSet(board.H4))
}
