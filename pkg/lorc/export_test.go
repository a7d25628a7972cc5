package lorc

// Export internal types for testing.
// This file is only compiled during tests.

// OrderedRangeSetForTesting is the exported name of orderedRangeSet, for
// table-driven tests exercising the primary/secondary index bookkeeping
// directly without going through the cache core.
type OrderedRangeSetForTesting = orderedRangeSet

// NewOrderedRangeSetForTesting constructs an empty ordered range set.
func NewOrderedRangeSetForTesting() *OrderedRangeSetForTesting {
	return newOrderedRangeSet()
}

// InsertForTesting inserts rng and returns its start key, since the holder
// pointer itself is unexported.
func (s *orderedRangeSet) InsertForTesting(rng PhysicalRange) []byte {
	h := s.Insert(rng)

	return h.startKey
}

// LowerBoundForTesting exposes lowerBound.
func (s *orderedRangeSet) LowerBoundForTesting(probe []byte) int { return s.lowerBound(probe) }

// UpperBoundForTesting exposes upperBound.
func (s *orderedRangeSet) UpperBoundForTesting(probe []byte) int { return s.upperBound(probe) }

// StartKeyAtForTesting returns the start key of the holder at primary index i.
func (s *orderedRangeSet) StartKeyAtForTesting(i int) []byte { return s.at(i).startKey }

// LengthAtForTesting returns the range length of the holder at primary index i.
func (s *orderedRangeSet) LengthAtForTesting(i int) int { return s.at(i).rng.Length() }

// RemoveAtForTesting removes and returns the physical range at primary index i.
func (s *orderedRangeSet) RemoveAtForTesting(i int) PhysicalRange { return s.RemoveAt(i).rng }

// ShortestStartKeyForTesting returns the start key of the current shortest
// range, or false if the set is empty.
func (s *orderedRangeSet) ShortestStartKeyForTesting() ([]byte, bool) {
	i, ok := s.ShortestIndex()
	if !ok {
		return nil, false
	}

	return s.at(i).startKey, true
}

// FixAtForTesting re-heapifies the holder at primary index i after its
// underlying range length changed.
func (s *orderedRangeSet) FixAtForTesting(i int) { s.Fix(s.at(i)) }

// LogicalRangeViewForTesting is the exported name of logicalRangeView.
type LogicalRangeViewForTesting = logicalRangeView

// PutForTesting exposes Put.
func (v *logicalRangeView) PutForTesting(r LogicalRange, leftConcat, rightConcat bool) error {
	return v.Put(r, leftConcat, rightConcat)
}

// ContainingForTesting exposes containing.
func (v *logicalRangeView) ContainingForTesting(key []byte, inclusive bool) (*LogicalRange, int) {
	return v.containing(key, inclusive)
}

// NextInRangeCacheForTesting exposes nextInRangeCache.
func (v *logicalRangeView) NextInRangeCacheForTesting(fromIdx int) (*LogicalRange, int) {
	return v.nextInRangeCache(fromIdx)
}

// ShrinkAroundForTesting exposes shrinkAround.
func (v *logicalRangeView) ShrinkAroundForTesting(pStart, pEnd []byte, entryCount func(lo, hi []byte, loIncl, hiIncl bool) int) error {
	return v.shrinkAround(pStart, pEnd, entryCount)
}
