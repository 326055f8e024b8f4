// Package tt implements a lock-free transposition table shared by every search worker
// goroutine.
//
// Each slot packs its Zobrist key and a data word into two separate machine words, but
// stores key^data in place of the raw key (the "XOR trick"): a reader loads both words,
// re-derives the key by XOR-ing them back together, and only trusts the entry if that
// matches the hash being probed. A torn read racing a concurrent write then never
// silently returns a (key, data) pair that never co-existed -- it just misses, which is
// always safe for a transposition table. No mutex is needed on the hot path.
//
// Slots are grouped into fixed-size buckets indexed by hash, rather than one slot per
// index: two positions hashing to the same bucket no longer immediately evict each
// other, only the least valuable slot in the shared bucket does.
package tt

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"go.uber.org/atomic"
)

// Bound classifies how a stored score relates to the true minimax value.
type Bound uint8

const (
	NoBound Bound = iota
	Exact
	LowerBound // fail-high: true score >= stored score
	UpperBound // fail-low: true score <= stored score
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "none"
	}
}

// Entry is the decoded content of one slot.
type Entry struct {
	Bound Bound
	Depth int
	Score eval.Score
	Move  board.Move
	Age   uint8
}

// pack/unpack lay an Entry out as a single 64-bit word. Score gets 21 bits (signed),
// wide enough to hold the full +-MateScore range: a plain int16 would overflow on any
// forced-mate score.
//
//	bits 0-5   From
//	bits 6-11  To
//	bits 12-15 MoveKind
//	bits 16-36 Score (signed, 21 bits)
//	bits 37-44 Depth
//	bits 45-46 Bound
//	bits 47-54 Age
const scoreBits = 21
const scoreMask = uint64(1)<<scoreBits - 1
const scoreSign = uint64(1) << (scoreBits - 1)

func pack(e Entry) uint64 {
	var w uint64
	w |= uint64(e.Move.From) & 0x3F
	w |= (uint64(e.Move.To) & 0x3F) << 6
	w |= (uint64(e.Move.Kind) & 0xF) << 12
	w |= (uint64(uint32(e.Score)) & scoreMask) << 16
	w |= uint64(uint8(e.Depth)) << 37
	w |= uint64(e.Bound) << 45
	w |= uint64(e.Age) << 47
	return w
}

func unpack(w uint64) Entry {
	raw := (w >> 16) & scoreMask
	score := int32(raw)
	if raw&scoreSign != 0 {
		score -= int32(scoreMask) + 1
	}
	return Entry{
		Move: board.Move{
			From: board.Square(w & 0x3F),
			To:   board.Square((w >> 6) & 0x3F),
			Kind: board.MoveKind((w >> 12) & 0xF),
		},
		Score: eval.Score(score),
		Depth: int(uint8(w >> 37)),
		Bound: Bound((w >> 45) & 0x3),
		Age:   uint8((w >> 47) & 0xFF),
	}
}

type slot struct {
	keyXorData atomic.Uint64
	data       atomic.Uint64
}

// BucketSlots is the number of slots sharing one hash-indexed bucket.
const BucketSlots = 4

type bucket struct {
	slots [BucketSlots]slot
}

// Table is a fixed-size, lock-free, bucketed transposition table. The zero value is not
// usable; construct with New.
type Table struct {
	buckets []bucket
	mask    uint64
	age     uint8
}

// New allocates a table sized to hold roughly sizeBytes worth of entries, rounded down
// to a power of two bucket count.
func New(sizeBytes uint64) *Table {
	const slotSize = 16 // two uint64s
	n := sizeBytes / slotSize / BucketSlots
	count := uint64(1)
	for count*2 <= n {
		count *= 2
	}
	if count == 0 {
		count = 1
	}
	return &Table{buckets: make([]bucket, count), mask: count - 1}
}

// Bytes returns the table's memory footprint.
func (t *Table) Bytes() uint64 {
	return uint64(len(t.buckets)) * BucketSlots * 16
}

// NewSearch bumps the table's age generation, used to prefer fresher entries over stale
// ones from a previous search without clearing the table.
func (t *Table) NewSearch() {
	t.age++
}

// Clear wipes every slot, e.g. on the UCI "ucinewgame" command.
func (t *Table) Clear() {
	for i := range t.buckets {
		for j := range t.buckets[i].slots {
			t.buckets[i].slots[j].keyXorData.Store(0)
			t.buckets[i].slots[j].data.Store(0)
		}
	}
	t.age = 0
}

// Probe looks up hash in its bucket. ok is false on a miss, including a torn read of a
// concurrent write -- the caller simply treats it as a cache miss.
func (t *Table) Probe(hash board.ZobristHash) (Entry, bool) {
	b := &t.buckets[uint64(hash)&t.mask]
	for i := range b.slots {
		kx := b.slots[i].keyXorData.Load()
		d := b.slots[i].data.Load()
		if kx^d == uint64(hash) {
			return unpack(d), true
		}
	}
	return Entry{}, false
}

// Store writes an entry for hash into the slot its bucket's replacement policy selects,
// in preference order: (1) a slot already keyed to hash, overwritten in place; (2) an
// empty slot; (3) the occupied slot with the lowest age-then-(bound,depth) priority, so
// an entry from a stale search generation is always evicted before a fresh one, and
// among same-generation entries a shallower, less informative bound goes first.
func (t *Table) Store(hash board.ZobristHash, e Entry) {
	e.Age = t.age
	data := pack(e)
	key := uint64(hash) ^ data
	b := &t.buckets[uint64(hash)&t.mask]

	victim := 0
	var victimPriority int64
	haveVictim := false

	for i := range b.slots {
		kx := b.slots[i].keyXorData.Load()
		d := b.slots[i].data.Load()

		if kx^d == uint64(hash) {
			b.slots[i].data.Store(data)
			b.slots[i].keyXorData.Store(key)
			return
		}
		if kx == 0 && d == 0 {
			b.slots[i].data.Store(data)
			b.slots[i].keyXorData.Store(key)
			return
		}

		p := replacePriority(t.age, unpack(d))
		if !haveVictim || p < victimPriority {
			victim, victimPriority, haveVictim = i, p, true
		}
	}

	b.slots[victim].data.Store(data)
	b.slots[victim].keyXorData.Store(key)
}

// replacePriority scores how disposable an occupied slot is: lower is evicted first. An
// entry from a stale search generation always sorts below any current-generation entry;
// among current-generation entries, an Exact bound outranks a Lower/UpperBound one, and
// deeper searches outrank shallower ones.
func replacePriority(age uint8, e Entry) int64 {
	var fresh int64
	if e.Age == age {
		fresh = 1
	}
	return fresh<<32 | int64(boundWeight(e.Bound))<<16 | int64(e.Depth)
}

func boundWeight(b Bound) int {
	switch b {
	case Exact:
		return 2
	case LowerBound, UpperBound:
		return 1
	default:
		return 0
	}
}

// ShouldReplace applies the table's replacement policy from the caller's point of view:
// always worth storing unless hash already has a same-generation entry searched strictly
// deeper, in which case Store would just be overwriting a better result with a worse one.
func (t *Table) ShouldReplace(hash board.ZobristHash, depth int) bool {
	existing, ok := t.Probe(hash)
	if !ok {
		return true
	}
	if existing.Age != t.age {
		return true
	}
	return depth >= existing.Depth
}

// Used estimates the fraction of slots holding an entry from the current search
// generation, by sampling, matching the UCI "hashfull" convention of a 0-1000 permille
// estimate over a sample rather than a full table scan.
func (t *Table) Used() float64 {
	const sample = 1000
	n := uint64(len(t.buckets)) * BucketSlots
	if n < sample {
		return t.usedIn(0, n)
	}
	return t.usedIn(0, sample)
}

func (t *Table) usedIn(from, to uint64) float64 {
	used := 0
	for i := from; i < to; i++ {
		s := &t.buckets[i/BucketSlots].slots[i%BucketSlots]
		kx := s.keyXorData.Load()
		d := s.data.Load()
		if kx == 0 && d == 0 {
			continue
		}
		if unpack(d).Age == t.age {
			used++
		}
	}
	if to == from {
		return 0
	}
	return float64(used) / float64(to-from)
}
