package eval

import "github.com/corvidchess/corvid/pkg/board"

// Cache is a direct-mapped, hash-indexed cache of evaluation results. Collisions simply
// overwrite; a stale hit is detected by comparing the stored key and discarded rather
// than ever returned, so correctness never depends on cache size.
type Cache struct {
	slots []cacheSlot
	mask  uint64
}

type cacheSlot struct {
	key   board.ZobristHash
	score Score
}

// NewCache returns a cache with room for size entries, rounded up to a power of two.
func NewCache(size int) *Cache {
	n := 1
	for n < size {
		n <<= 1
	}
	if n == 0 {
		n = 1
	}
	return &Cache{slots: make([]cacheSlot, n), mask: uint64(n - 1)}
}

// Get returns the cached score for hash, if present.
func (c *Cache) Get(hash board.ZobristHash) (Score, bool) {
	slot := &c.slots[uint64(hash)&c.mask]
	if slot.key != hash {
		return 0, false
	}
	return slot.score, true
}

// Put stores score under hash, evicting whatever previously occupied the slot.
func (c *Cache) Put(hash board.ZobristHash, score Score) {
	slot := &c.slots[uint64(hash)&c.mask]
	slot.key = hash
	slot.score = score
}

// Clear empties the cache, e.g. between games.
func (c *Cache) Clear() {
	for i := range c.slots {
		c.slots[i] = cacheSlot{}
	}
}
