package lorc

import "sort"

// LogicalRange describes either a cached key span or a known-empty gap
// adjacent to cached segments.
type LogicalRange struct {
	StartUserKey []byte
	EndUserKey   []byte

	// LengthHint is the cached entry count when InRangeCache is true, and
	// zero otherwise. It is a count of entries, not bytes: for
	// variable-length values it can diverge from a caller's byte-count
	// expectation (see spec Open Question 2).
	LengthHint int

	InRangeCache  bool
	LeftIncluded  bool
	RightIncluded bool
}

// touchesRight reports whether startOfNext is at or before a's end
// boundary, i.e. whether a and the range starting there can be coalesced.
func (a LogicalRange) touchesRight(startOfNext []byte) bool {
	return compareBytes(a.EndUserKey, startOfNext) >= 0
}

func (b LogicalRange) touchesLeft(endOfPrev []byte) bool {
	return compareBytes(b.StartUserKey, endOfPrev) <= 0
}

// logicalRangeView is the ordered list of logical ranges backing a Cache.
// Ranges are kept non-overlapping and sorted by StartUserKey.
type logicalRangeView struct {
	ranges []LogicalRange
}

func (v *logicalRangeView) lowerBound(startUserKey []byte) int {
	return sort.Search(len(v.ranges), func(i int) bool {
		return compareBytes(v.ranges[i].StartUserKey, startUserKey) >= 0
	})
}

// Put installs r into the view, optionally coalescing with the immediately
// preceding range (leftConcat) and/or the immediately following range
// (rightConcat) when their intervals touch.
//
// Returns [ErrInvariantViolation] if the result would not be strictly
// ordered and non-overlapping — an internal logic error.
func (v *logicalRangeView) Put(r LogicalRange, leftConcat, rightConcat bool) error {
	pos := v.lowerBound(r.StartUserKey)

	mergedStart, mergedEnd := r.StartUserKey, r.EndUserKey
	leftIncluded, rightIncluded := r.LeftIncluded, r.RightIncluded
	lengthHint := r.LengthHint
	inRangeCache := r.InRangeCache

	eraseFrom, eraseTo := pos, pos

	if leftConcat && pos > 0 {
		pred := v.ranges[pos-1]
		if pred.touchesRight(r.StartUserKey) {
			mergedStart = pred.StartUserKey
			leftIncluded = pred.LeftIncluded
			lengthHint += pred.LengthHint
			inRangeCache = inRangeCache || pred.InRangeCache
			eraseFrom = pos - 1
		}
	}

	if rightConcat && pos < len(v.ranges) {
		succ := v.ranges[pos]
		if succ.touchesLeft(r.EndUserKey) {
			mergedEnd = succ.EndUserKey
			rightIncluded = succ.RightIncluded
			lengthHint += succ.LengthHint
			inRangeCache = inRangeCache || succ.InRangeCache
			eraseTo = pos + 1
		}
	}

	merged := LogicalRange{
		StartUserKey:  mergedStart,
		EndUserKey:    mergedEnd,
		LengthHint:    lengthHint,
		InRangeCache:  inRangeCache,
		LeftIncluded:  leftIncluded,
		RightIncluded: rightIncluded,
	}

	next := make([]LogicalRange, 0, len(v.ranges)-(eraseTo-eraseFrom)+1)
	next = append(next, v.ranges[:eraseFrom]...)
	next = append(next, merged)
	next = append(next, v.ranges[eraseTo:]...)

	if !isOrderedNonOverlapping(next) {
		return ErrInvariantViolation
	}

	v.ranges = next

	return nil
}

// RemoveStartingAt deletes the logical range whose start key equals probe.
// Reports whether a range was removed.
func (v *logicalRangeView) RemoveStartingAt(userKey []byte) bool {
	pos := v.lowerBound(userKey)
	if pos >= len(v.ranges) || compareBytes(v.ranges[pos].StartUserKey, userKey) != 0 {
		return false
	}

	v.ranges = append(v.ranges[:pos], v.ranges[pos+1:]...)

	return true
}

// Ranges returns the current ordered slice of logical ranges. Callers must
// not mutate the returned slice.
func (v *logicalRangeView) Ranges() []LogicalRange { return v.ranges }

// indexOfRangeContaining returns the index of the logical range that
// covers pStart, the start key of a physical range. pStart is always a
// real entry of that physical range, so it always falls inside exactly
// one registered logical range — either as that range's own start key, or
// strictly between some range's start and end.
func (v *logicalRangeView) indexOfRangeContaining(pStart []byte) (int, bool) {
	idx := v.lowerBound(pStart)
	if idx < len(v.ranges) && compareBytes(v.ranges[idx].StartUserKey, pStart) == 0 {
		return idx, true
	}

	if idx > 0 && compareBytes(v.ranges[idx-1].EndUserKey, pStart) >= 0 {
		return idx - 1, true
	}

	return 0, false
}

// shrinkAround replaces the logical range covering a just-evicted physical
// range's [pStart, pEnd] span with zero, one, or two remainder ranges
// covering whatever part of the original logical range is still backed.
// pStart/pEnd are always real, inclusively-owned boundary entries of the
// evicted physical range, so splitting exactly at them never discards or
// misattributes a still-cached key: the remainder to the left ends just
// before pStart, the remainder to the right starts just after pEnd, and
// either is omitted when the original logical range's own boundary already
// coincided with the evicted range's.
//
// entryCount recomputes each remainder's LengthHint from what the cache's
// physical set actually still holds over that span, since the discarded
// range's contribution can't simply be subtracted from the old aggregate
// once the view was only tracking a merged count.
//
// Returns [ErrInvariantViolation] if no registered logical range covers
// pStart — eviction only ever removes a physical range that must have
// contributed to exactly one logical range.
func (v *logicalRangeView) shrinkAround(pStart, pEnd []byte, entryCount func(lo, hi []byte, loIncl, hiIncl bool) int) error {
	idx, ok := v.indexOfRangeContaining(pStart)
	if !ok {
		return ErrInvariantViolation
	}

	old := v.ranges[idx]

	var remainders []LogicalRange

	if compareBytes(old.StartUserKey, pStart) < 0 {
		left := LogicalRange{
			StartUserKey: old.StartUserKey, EndUserKey: pStart,
			LeftIncluded: old.LeftIncluded, RightIncluded: false,
			InRangeCache: true,
		}
		left.LengthHint = entryCount(left.StartUserKey, left.EndUserKey, left.LeftIncluded, left.RightIncluded)
		remainders = append(remainders, left)
	}

	if compareBytes(pEnd, old.EndUserKey) < 0 {
		right := LogicalRange{
			StartUserKey: pEnd, EndUserKey: old.EndUserKey,
			LeftIncluded: false, RightIncluded: old.RightIncluded,
			InRangeCache: true,
		}
		right.LengthHint = entryCount(right.StartUserKey, right.EndUserKey, right.LeftIncluded, right.RightIncluded)
		remainders = append(remainders, right)
	}

	next := make([]LogicalRange, 0, len(v.ranges)-1+len(remainders))
	next = append(next, v.ranges[:idx]...)
	next = append(next, remainders...)
	next = append(next, v.ranges[idx+1:]...)

	if !isOrderedNonOverlapping(next) {
		return ErrInvariantViolation
	}

	v.ranges = next

	return nil
}

// containing returns the logical range that covers key, plus the index a
// forward search for the next registered range should resume from.
// inclusive tells containing whether key is still unclaimed territory
// (true) or was already consumed by the end of a just-processed segment
// (false) — an exact boundary match only counts as "containing" when the
// probe is still unclaimed and the range's own boundary flag agrees.
//
// If no registered range covers key, it returns (nil, idx) where idx is
// the first unchecked index — i.e. the first range, if any, whose start
// key is >= key. A range sitting exactly at key is always "checked" by
// this call, whether or not it ends up being the match, so resume skips
// past it; otherwise a caller probing the same key again after rejecting
// it here would find it a second time.
func (v *logicalRangeView) containing(key []byte, inclusive bool) (*LogicalRange, int) {
	idx := v.lowerBound(key)
	resume := idx

	if idx < len(v.ranges) && compareBytes(v.ranges[idx].StartUserKey, key) == 0 {
		resume = idx + 1

		if inclusive && v.ranges[idx].LeftIncluded {
			return &v.ranges[idx], resume
		}
	}

	if idx > 0 {
		prev := &v.ranges[idx-1]

		cmp := compareBytes(prev.EndUserKey, key)
		if cmp > 0 || (cmp == 0 && inclusive && prev.RightIncluded) {
			return prev, resume
		}
	}

	return nil, resume
}

// nextInRangeCache scans v.ranges[fromIdx:] for the first cached range.
func (v *logicalRangeView) nextInRangeCache(fromIdx int) (*LogicalRange, int) {
	for i := fromIdx; i < len(v.ranges); i++ {
		if v.ranges[i].InRangeCache {
			return &v.ranges[i], i
		}
	}

	return nil, len(v.ranges)
}

func isOrderedNonOverlapping(ranges []LogicalRange) bool {
	for i := 1; i < len(ranges); i++ {
		if compareBytes(ranges[i-1].EndUserKey, ranges[i].StartUserKey) > 0 {
			return false
		}
	}

	return true
}
