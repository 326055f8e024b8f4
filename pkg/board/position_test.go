package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perft(t *testing.T, pos *board.Position, depth int) int {
	t.Helper()
	if depth == 0 {
		return 1
	}

	var ml board.MoveList
	pos.GenerateLegal(&ml)

	if depth == 1 {
		return ml.Len()
	}

	nodes := 0
	for i := 0; i < ml.Len(); i++ {
		u := pos.MakeMove(ml.At(i))
		nodes += perft(t, pos, depth-1)
		pos.UnmakeMove(u)
	}
	return nodes
}

func TestPerftInitialPosition(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
		{6, 119060324},
	}
	for _, tt := range tests {
		if tt.depth >= 6 && testing.Short() {
			t.Skipf("skipping depth %d perft in -short mode", tt.depth)
			continue
		}
		assert.Equal(t, tt.expected, perft(t, pos, tt.depth), "depth %d", tt.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		{4, 4085603},
		{5, 193690690},
	}
	for _, tt := range tests {
		if tt.depth >= 5 && testing.Short() {
			t.Skipf("skipping depth %d perft in -short mode", tt.depth)
			continue
		}
		assert.Equal(t, tt.expected, perft(t, pos, tt.depth), "depth %d", tt.depth)
	}
}

// TestPerftPosition3 is the "Position 3" board from the standard perft test suite: an
// endgame-heavy position exercising en passant and pawn promotion edge cases that the
// initial position and Kiwipete don't reach.
func TestPerftPosition3(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		{5, 674624},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(t, pos, tt.depth), "depth %d", tt.depth)
	}
}

// TestPerftPosition4 is "Position 4" from the standard perft test suite: an asymmetric
// position that stresses castling rights lost to rook capture and under-promotion.
func TestPerftPosition4(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 6},
		{2, 264},
		{3, 9467},
		{4, 422333},
	}
	for _, tt := range tests {
		if tt.depth >= 5 && testing.Short() {
			continue
		}
		assert.Equal(t, tt.expected, perft(t, pos, tt.depth), "depth %d", tt.depth)
	}
	if !testing.Short() {
		assert.Equal(t, 15833292, perft(t, pos, 5), "depth 5")
	}
}

// TestPerftPosition5 is "Position 5" from the standard perft test suite, a middlegame
// position with a pinned knight and a queen en prise that catches pin-legality bugs.
func TestPerftPosition5(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 44},
		{2, 1486},
		{3, 62379},
		{4, 2103487},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(t, pos, tt.depth), "depth %d", tt.depth)
	}
	if !testing.Short() {
		assert.Equal(t, 89941194, perft(t, pos, 5), "depth 5")
	}
}

func TestMakeUnmakeRestoresHash(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, fen.Initial)
	require.NoError(t, err)

	before := pos.Hash()

	var ml board.MoveList
	pos.GenerateLegal(&ml)
	require.True(t, ml.Len() > 0)

	for i := 0; i < ml.Len(); i++ {
		u := pos.MakeMove(ml.At(i))
		assert.Equal(t, z.Full(pos), pos.Hash(), "incremental hash must match full recompute")
		pos.UnmakeMove(u)
		assert.Equal(t, before, pos.Hash())
	}
}

func TestCastlingRightsLostOnKingCastle(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var ml board.MoveList
	pos.GenerateLegal(&ml)

	// White king castles kingside, forfeiting both white rights.
	for i := 0; i < ml.Len(); i++ {
		if ml.At(i).Kind == board.KingCastle {
			pos.MakeMove(ml.At(i))
			assert.False(t, pos.Castling().Allows(board.WhiteKingside))
			assert.False(t, pos.Castling().Allows(board.WhiteQueenside))
			assert.True(t, pos.Castling().Allows(board.BlackKingside))
			return
		}
	}
	t.Fatal("expected a legal kingside castle")
}

func TestEnPassantCapture(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	require.NoError(t, err)

	var ml board.MoveList
	pos.GenerateLegal(&ml)

	found := false
	for i := 0; i < ml.Len(); i++ {
		if ml.At(i).Kind == board.EnPassantCapture {
			found = true
			u := pos.MakeMove(ml.At(i))
			assert.False(t, pos.PieceBB(board.White, board.Pawn).IsSet(board.E4))
			pos.UnmakeMove(u)
		}
	}
	assert.True(t, found, "expected an en passant capture to be legal")
}

func TestInsufficientMaterial(t *testing.T) {
	z := board.NewZobristTable(1)
	pos, err := fen.Decode(z, "4k3/8/8/8/8/8/8/4K2N w - - 0 1")
	require.NoError(t, err)
	assert.True(t, pos.HasInsufficientMaterial())

	pos, err = fen.Decode(z, "4k3/8/8/8/8/8/8/4K1NN w - - 0 1")
	require.NoError(t, err)
	assert.False(t, pos.HasInsufficientMaterial())
}
