package tt_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	table := tt.New(1 << 16)

	hash := board.ZobristHash(0xDEADBEEFCAFEF00D)
	m := board.Move{From: board.E2, To: board.E4, Piece: board.Pawn, Kind: board.DoublePawnPush}
	table.Store(hash, tt.Entry{Bound: tt.Exact, Depth: 7, Score: 123, Move: m})

	e, ok := table.Probe(hash)
	require.True(t, ok)
	assert.Equal(t, tt.Exact, e.Bound)
	assert.Equal(t, 7, e.Depth)
	assert.Equal(t, eval.Score(123), e.Score)
	assert.True(t, m.Equals(e.Move))
}

func TestProbeMissOnDifferentKey(t *testing.T) {
	table := tt.New(1 << 10)
	table.Store(board.ZobristHash(1), tt.Entry{Bound: tt.Exact, Depth: 1, Score: 1})

	_, ok := table.Probe(board.ZobristHash(2))
	assert.False(t, ok)
}

func TestStoreEncodesFullMateScoreRange(t *testing.T) {
	table := tt.New(1 << 10)
	hash := board.ZobristHash(42)

	table.Store(hash, tt.Entry{Bound: tt.Exact, Depth: 3, Score: eval.MateScore - 5})
	e, ok := table.Probe(hash)
	require.True(t, ok)
	assert.Equal(t, eval.MateScore-5, e.Score)

	table.Store(hash, tt.Entry{Bound: tt.Exact, Depth: 3, Score: -eval.MateScore + 5})
	e, ok = table.Probe(hash)
	require.True(t, ok)
	assert.Equal(t, -eval.MateScore+5, e.Score)
}

func TestClearRemovesEverything(t *testing.T) {
	table := tt.New(1 << 10)
	table.Store(board.ZobristHash(1), tt.Entry{Bound: tt.Exact, Depth: 1})
	table.Clear()

	_, ok := table.Probe(board.ZobristHash(1))
	assert.False(t, ok)
}

func TestBucketHoldsMultipleCollidingKeys(t *testing.T) {
	// A single-bucket table (tiny sizeBytes rounds down to one bucket of BucketSlots
	// slots): distinct hashes all collide on the one bucket index, but should still
	// coexist up to the bucket's slot count rather than evicting each other outright.
	table := tt.New(1)

	for i := uint64(1); i <= tt.BucketSlots; i++ {
		table.Store(board.ZobristHash(i), tt.Entry{Bound: tt.Exact, Depth: int(i)})
	}
	for i := uint64(1); i <= tt.BucketSlots; i++ {
		e, ok := table.Probe(board.ZobristHash(i))
		require.True(t, ok, "slot %d should not have been evicted", i)
		assert.Equal(t, int(i), e.Depth)
	}
}

func TestBucketEvictsStaleEntryFirst(t *testing.T) {
	table := tt.New(1)

	for i := uint64(1); i <= tt.BucketSlots; i++ {
		table.Store(board.ZobristHash(i), tt.Entry{Bound: tt.Exact, Depth: 5})
	}

	// Age out every existing entry, then fill one new key: a stale entry must be the
	// one evicted, never a fresh current-generation one.
	table.NewSearch()
	table.Store(board.ZobristHash(100), tt.Entry{Bound: tt.Exact, Depth: 1})

	survivors := 0
	for i := uint64(1); i <= tt.BucketSlots; i++ {
		if _, ok := table.Probe(board.ZobristHash(i)); ok {
			survivors++
		}
	}
	assert.Equal(t, tt.BucketSlots-1, survivors)

	e, ok := table.Probe(board.ZobristHash(100))
	require.True(t, ok)
	assert.Equal(t, 1, e.Depth)
}

func TestNewSearchAgesOutStaleEntries(t *testing.T) {
	table := tt.New(1 << 10)
	hash := board.ZobristHash(7)
	table.Store(hash, tt.Entry{Bound: tt.Exact, Depth: 10})

	assert.False(t, table.ShouldReplace(hash, 1)) // same generation, shallower: keep existing

	table.NewSearch()
	assert.True(t, table.ShouldReplace(hash, 1)) // new generation: always replace
}
