package fen_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	z := board.NewZobristTable(1)

	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
	}

	for _, tt := range tests {
		pos, err := fen.Decode(z, tt)
		require.NoError(t, err, tt)

		turn := pos.Turn()
		assert.Equal(t, tt, fen.Encode(pos, turn, pos.Halfmove(), pos.Fullmove()), tt)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	z := board.NewZobristTable(1)

	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBXR w KQkq - 0 1",
	}
	for _, tt := range tests {
		_, err := fen.Decode(z, tt)
		assert.Error(t, err, tt)
	}
}
