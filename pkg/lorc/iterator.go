package lorc

import "github.com/jerry-gk/lorckv/pkg/lorc/internal/arena"

// CacheIterator is a forward/reverse cursor over the union of all entries
// in all physical ranges held by a [Cache], in global user-key order.
//
// Each positioning call takes the cache's shared lock for its own
// duration only; the iterator does not hold the lock between calls, so a
// concurrent mutation may invalidate it. Next, Prev, Valid and
// HasNextInRange re-check the cache's generation counter against the one
// observed at the last Seek* call and report invalid when they differ. Key,
// UserKey, Value and CopyValue do not re-check it; they read the current
// position as is, so Valid must be checked first.
type CacheIterator struct {
	c *Cache
	a *arena.Arena

	generation uint64
	rangeIdx   int
	entryIdx   int
	valid      bool
}

// NewIterator returns a cursor positioned before the first entry; callers
// must call one of the Seek* methods before reading.
func (c *Cache) NewIterator() *CacheIterator {
	return c.NewIteratorWithArena(nil)
}

// NewIteratorWithArena is like NewIterator but has [CacheIterator.CopyValue]
// carve its copies out of a, instead of the heap, when a has room. Passing
// nil is equivalent to NewIterator.
func (c *Cache) NewIteratorWithArena(a *arena.Arena) *CacheIterator {
	return &CacheIterator{c: c, a: a, rangeIdx: -1}
}

// CopyValue returns an owned copy of the current entry's value, carved out
// of the iterator's arena if one was supplied and has room, falling back
// to a normal heap allocation otherwise. Unlike Value, the result remains
// valid after the cache's lock is released.
func (it *CacheIterator) CopyValue() []byte {
	v := it.Value()

	if it.a != nil {
		if buf, ok := it.a.Alloc(len(v)); ok {
			copy(buf, v)

			return buf
		}
	}

	buf := make([]byte, len(v))
	copy(buf, v)

	return buf
}

func (it *CacheIterator) currentRange() PhysicalRange {
	return it.c.set.at(it.rangeIdx).rng
}

// stale reports whether the cache has mutated since this iterator last
// positioned successfully.
func (it *CacheIterator) stale() bool {
	return it.generation != it.c.generation
}

// SeekToFirst positions at the first entry of the first physical range.
func (it *CacheIterator) SeekToFirst() bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	it.generation = it.c.generation

	if it.c.set.Len() == 0 {
		it.valid = false

		return false
	}

	it.rangeIdx, it.entryIdx = 0, 0
	it.valid = true

	return true
}

// SeekToLast positions at the last entry of the last physical range.
func (it *CacheIterator) SeekToLast() bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	it.generation = it.c.generation

	n := it.c.set.Len()
	if n == 0 {
		it.valid = false

		return false
	}

	it.rangeIdx = n - 1
	it.entryIdx = it.currentRange().Length() - 1
	it.valid = true

	return true
}

// Seek positions at the first entry whose user key is >= userKey.
func (it *CacheIterator) Seek(userKey []byte) bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	it.generation = it.c.generation

	idx := it.c.set.upperBound(userKey)
	if idx > 0 {
		idx--
	}

	for ; idx < it.c.set.Len(); idx++ {
		h := it.c.set.at(idx)
		if compareBytes(h.rng.EndUserKey(), userKey) < 0 {
			continue
		}

		entryIdx, found := h.rng.Find(userKey)
		if !found {
			continue
		}

		it.rangeIdx, it.entryIdx, it.valid = idx, entryIdx, true

		return true
	}

	it.valid = false

	return false
}

// SeekForPrev positions at the last entry whose user key is <= userKey.
func (it *CacheIterator) SeekForPrev(userKey []byte) bool {
	if it.Seek(userKey) {
		if compareBytes(it.UserKey(), userKey) == 0 {
			return true
		}

		return it.Prev()
	}

	return it.SeekToLast() && it.backUpTo(userKey)
}

// backUpTo walks backward while positioned past userKey; used by
// SeekForPrev when Seek overshot past the end of the keyspace.
func (it *CacheIterator) backUpTo(userKey []byte) bool {
	for it.valid && compareBytes(it.UserKey(), userKey) > 0 {
		if !it.Prev() {
			return false
		}
	}

	return it.valid
}

// Next advances the cursor by one entry.
func (it *CacheIterator) Next() bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	if it.stale() || !it.valid {
		it.valid = false

		return false
	}

	it.entryIdx++

	if it.entryIdx >= it.currentRange().Length() {
		it.rangeIdx++
		it.entryIdx = 0

		if it.rangeIdx >= it.c.set.Len() {
			it.valid = false

			return false
		}
	}

	return true
}

// Prev retreats the cursor by one entry.
func (it *CacheIterator) Prev() bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	if it.stale() || !it.valid {
		it.valid = false

		return false
	}

	it.entryIdx--

	if it.entryIdx < 0 {
		it.rangeIdx--

		if it.rangeIdx < 0 {
			it.valid = false

			return false
		}

		it.entryIdx = it.currentRange().Length() - 1
	}

	return true
}

// Valid reports whether the cursor is positioned on an entry.
func (it *CacheIterator) Valid() bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	return it.valid && !it.stale()
}

// Key returns the current entry's full internal key. Valid must be true.
func (it *CacheIterator) Key() []byte {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	return it.currentRange().InternalKeyAt(it.entryIdx)
}

// UserKey returns the current entry's user key. Valid must be true.
func (it *CacheIterator) UserKey() []byte {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	return it.currentRange().UserKeyAt(it.entryIdx)
}

// Value returns the current entry's value. Valid must be true.
func (it *CacheIterator) Value() []byte {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	return it.currentRange().ValueAt(it.entryIdx)
}

// HasNextInRange reports whether the next Next() call stays inside the
// physical range the cursor is currently positioned in, letting the scan
// orchestrator detect the point a cached segment ends.
func (it *CacheIterator) HasNextInRange() bool {
	it.c.mu.RLock()
	defer it.c.mu.RUnlock()

	if it.stale() || !it.valid {
		return false
	}

	return it.entryIdx+1 < it.currentRange().Length()
}
