package lorc

import (
	"container/heap"
	"sort"
)

// rangeHolder is the unit of storage in the ordered range set: a physical
// range plus the bookkeeping the set's two indexes need.
type rangeHolder struct {
	rng      PhysicalRange
	startKey []byte // cached for comparisons that must not touch rng after eviction races
	lastUsed uint64 // LRU-style pin timestamp; not used by the current (shortest-first) policy
	heapIdx  int    // position in the length-min-heap, maintained by container/heap
}

// orderedRangeSet is the sorted container of live physical ranges described
// in spec §3: a primary index sorted by start user key (supporting
// lower/upper bound on a raw key probe without constructing a synthetic
// physical range), and a secondary length-keyed index used to select the
// shortest range for eviction in O(log n).
type orderedRangeSet struct {
	byStart []*rangeHolder // sorted ascending by startKey
	byLen   lengthHeap     // min-heap ordered by (length, startKey)
}

func newOrderedRangeSet() *orderedRangeSet {
	return &orderedRangeSet{}
}

func (s *orderedRangeSet) Len() int { return len(s.byStart) }

// lowerBound returns the index of the first holder whose start key is >=
// probe, or len(s.byStart) if none qualifies.
func (s *orderedRangeSet) lowerBound(probe []byte) int {
	return sort.Search(len(s.byStart), func(i int) bool {
		return compareBytes(s.byStart[i].startKey, probe) >= 0
	})
}

// upperBound returns the index of the first holder whose start key is >
// probe, or len(s.byStart) if none qualifies.
func (s *orderedRangeSet) upperBound(probe []byte) int {
	return sort.Search(len(s.byStart), func(i int) bool {
		return compareBytes(s.byStart[i].startKey, probe) > 0
	})
}

// at returns the holder at primary index i.
func (s *orderedRangeSet) at(i int) *rangeHolder { return s.byStart[i] }

// Insert adds rng to both indexes. rng's start key must not already be
// present. Insert does not check this, and the cache core does not check
// it before calling Insert either: a second range with the same start key
// is inserted beside the first.
func (s *orderedRangeSet) Insert(rng PhysicalRange) *rangeHolder {
	h := &rangeHolder{rng: rng, startKey: cloneBytes(rng.StartUserKey())}

	pos := s.lowerBound(h.startKey)
	s.byStart = append(s.byStart, nil)
	copy(s.byStart[pos+1:], s.byStart[pos:])
	s.byStart[pos] = h

	heap.Push(&s.byLen, h)

	return h
}

// RemoveAt removes the holder at primary index i from both indexes.
func (s *orderedRangeSet) RemoveAt(i int) *rangeHolder {
	h := s.byStart[i]
	s.byStart = append(s.byStart[:i], s.byStart[i+1:]...)
	heap.Remove(&s.byLen, h.heapIdx)

	return h
}

// Remove removes a specific holder, looked up by its start key. The holder
// must currently be present; this is used to extract a range identified
// earlier by pointer, after which the primary index may have shifted.
func (s *orderedRangeSet) Remove(h *rangeHolder) {
	i := s.lowerBound(h.startKey)
	if i < len(s.byStart) && s.byStart[i] == h {
		s.RemoveAt(i)
	}
}

// ShortestIndex returns the primary index of the shortest range, breaking
// ties by lowest start key, or false if the set is empty.
func (s *orderedRangeSet) ShortestIndex() (int, bool) {
	if len(s.byLen) == 0 {
		return 0, false
	}

	shortest := s.byLen[0]
	i := s.lowerBound(shortest.startKey)

	return i, true
}

// Fix re-establishes the length-heap invariant for a holder whose range
// length changed in place (e.g. after an update inserted a new entry into
// a vector-layout range).
func (s *orderedRangeSet) Fix(h *rangeHolder) {
	heap.Fix(&s.byLen, h.heapIdx)
}

// lengthHeap implements container/heap.Interface, ordering by
// (rng.Length(), startKey) ascending so the minimum is the shortest range.
type lengthHeap []*rangeHolder

func (h lengthHeap) Len() int { return len(h) }

func (h lengthHeap) Less(i, j int) bool {
	li, lj := h[i].rng.Length(), h[j].rng.Length()
	if li != lj {
		return li < lj
	}

	return compareBytes(h[i].startKey, h[j].startKey) < 0
}

func (h lengthHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIdx = i
	h[j].heapIdx = j
}

func (h *lengthHeap) Push(x any) {
	holder := x.(*rangeHolder) //nolint:forcetypeassert // heap.Interface contract
	holder.heapIdx = len(*h)
	*h = append(*h, holder)
}

func (h *lengthHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.heapIdx = -1
	*h = old[:n-1]

	return item
}
