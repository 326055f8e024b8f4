package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	assert.True(t, board.Rank1.IsValid())
	assert.True(t, board.Rank8.IsValid())
	assert.False(t, board.Rank(8).IsValid())

	assert.Equal(t, "1", board.Rank1.String())
	assert.Equal(t, "8", board.Rank8.String())
}

func TestFile(t *testing.T) {
	assert.True(t, board.FileA.IsValid())
	assert.True(t, board.FileH.IsValid())
	assert.False(t, board.File(8).IsValid())

	assert.Equal(t, "a", board.FileA.String())
	assert.Equal(t, "h", board.FileH.String())
}

func TestSquare(t *testing.T) {
	assert.Equal(t, board.A1, board.NewSquare(board.FileA, board.Rank1))
	assert.Equal(t, board.H8, board.NewSquare(board.FileH, board.Rank8))
	assert.Equal(t, board.E4, board.NewSquare(board.FileE, board.Rank4))

	assert.True(t, board.H1.IsValid())
	assert.False(t, board.Square(64).IsValid())

	assert.Equal(t, "e4", board.E4.String())
}

func TestSquareParse(t *testing.T) {
	sq, err := board.ParseSquareStr("e4")
	assert.NoError(t, err)
	assert.Equal(t, board.E4, sq)

	_, err = board.ParseSquareStr("z9")
	assert.Error(t, err)
}

func TestSquareDistance(t *testing.T) {
	assert.Equal(t, 0, board.E4.Distance(board.E4))
	assert.Equal(t, 1, board.E4.Distance(board.E5))
	assert.Equal(t, 7, board.A1.Distance(board.H8))
}

func TestSquareFlip(t *testing.T) {
	assert.Equal(t, board.E8, board.E1.Flip())
	assert.Equal(t, board.A1, board.A8.Flip())
}
