package lorc

import "errors"

// PutOverlapping installs freshly scanned entries that may overlap one or
// more physical ranges already held by the cache. It implements the
// merge-and-split protocol: physical ranges touched by r's span are pulled
// out of the ordered set, the gaps between them (and before/after them,
// within r's span) are materialized from r, and the whole run is
// reinserted as a merged sequence of physical ranges. Each newly
// materialized fragment is registered as its own logical range, coalesced
// with a neighboring logical range only when their boundary keys touch.
//
// r must hold at least one entry; callers with no overlap to report should
// use [Cache.PutGap] instead.
func (c *Cache) PutOverlapping(r *ReferringRange) error {
	if r.Len() == 0 {
		return ErrEmpty
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	rStart, rEnd := r.StartUserKey(), r.EndUserKey()

	candidates := c.snapshotCandidates(rStart, rEnd)

	var (
		merged          []PhysicalRange
		cursor          = rStart
		cursorInclusive = true
		pendingLeft     bool
	)

	for _, h := range candidates {
		p := h.rng
		pStart, pEnd := p.StartUserKey(), p.EndUserKey()

		if compareBytes(pEnd, rStart) < 0 {
			// Entirely to the left of r; stepped back to check for
			// left-overhang and it doesn't apply. Leave it in place.
			continue
		}

		if compareBytes(pStart, rStart) < 0 && compareBytes(rStart, pEnd) <= 0 {
			// p overhangs r's left edge: keep it whole, resume the gap
			// search just past its end.
			c.extract(h)
			merged = append(merged, p)
			cursor, cursorInclusive = pEnd, false
			pendingLeft = true

			continue
		}

		gap, err := r.DumpSubrange(cursor, pStart, cursorInclusive, false, c.layout)
		switch {
		case err == nil:
			merged = append(merged, gap)

			lr := LogicalRange{
				StartUserKey: gap.StartUserKey(), EndUserKey: gap.EndUserKey(),
				LengthHint: gap.Length(), InRangeCache: true,
				// Both boundaries are real entries materialized from r, so
				// they belong to this range regardless of the cursor's own
				// inclusivity.
				LeftIncluded: true, RightIncluded: true,
			}
			if err := c.view.Put(lr, pendingLeft, true); err != nil {
				c.invariantViolation("put_overlapping: gap", err)
			}
		case errors.Is(err, ErrEmpty):
			// No entries in [cursor, pStart): nothing to materialize.
		default:
			return err
		}

		c.extract(h)
		merged = append(merged, p)
		cursor, cursorInclusive = pEnd, false
		pendingLeft = false
	}

	tail, err := r.DumpSubrange(cursor, rEnd, cursorInclusive, true, c.layout)
	switch {
	case err == nil:
		merged = append(merged, tail)

		lr := LogicalRange{
			StartUserKey: tail.StartUserKey(), EndUserKey: tail.EndUserKey(),
			LengthHint: tail.Length(), InRangeCache: true,
			LeftIncluded: true, RightIncluded: true,
		}
		if err := c.view.Put(lr, pendingLeft, false); err != nil {
			c.invariantViolation("put_overlapping: tail", err)
		}
	case errors.Is(err, ErrEmpty):
		// r's span was fully covered by overhanging ranges already.
	default:
		return err
	}

	for _, p := range merged {
		c.set.Insert(p)
		c.currentSizeBytes += p.ByteSize()
		c.totalRangeLength += int64(p.Length())
	}

	c.cacheSeqNum = maxU64(c.cacheSeqNum, r.SnapshotSeq())
	c.generation++
	c.tryVictimLocked()

	return nil
}

// snapshotCandidates returns, in start-key order, every physical range that
// might be touched by [rStart, rEnd]: the one immediately preceding rStart
// (a left-overhang candidate) plus every range starting within [rStart,
// rEnd]. Taken as a pointer snapshot up front so later removals from the
// ordered set (which shift primary-index positions) can't skip or repeat a
// candidate.
func (c *Cache) snapshotCandidates(rStart, rEnd []byte) []*rangeHolder {
	begin := c.set.upperBound(rStart)

	var out []*rangeHolder
	if begin > 0 {
		out = append(out, c.set.at(begin-1))
	}

	for i := begin; i < c.set.Len() && compareBytes(c.set.at(i).startKey, rEnd) <= 0; i++ {
		out = append(out, c.set.at(i))
	}

	return out
}

// extract removes h from the ordered set and its accounted size, ahead of
// re-inserting its (possibly untouched) range as part of a merged run.
func (c *Cache) extract(h *rangeHolder) {
	c.set.Remove(h)
	c.currentSizeBytes -= h.rng.ByteSize()
	c.totalRangeLength -= int64(h.rng.Length())
}

// PutGap installs the result of scanning a span the cache already knew, or
// now knows, to be free of overlapping physical ranges. [start, end] (with
// the given inclusivity) is registered as a logical range regardless of
// whether r contributes any entries; an r with no entries records a
// known-empty gap with no physical range backing it.
//
// leftConcat/rightConcat select whether the new logical range should
// coalesce with the adjacent cached range on that side, per spec.md
// §4.5.2 — true when the scan transitioned from/to a cached segment at
// that boundary. An empty gap (r has no entries) always concats on both
// sides regardless of the caller's flags: with no entries of its own to
// anchor, it exists only to bridge the cached ranges flanking it.
func (c *Cache) PutGap(start, end []byte, startIncluded, endIncluded bool, leftConcat, rightConcat bool, r *ReferringRange) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	rng, err := r.Dump(c.layout)

	lr := LogicalRange{
		StartUserKey: start, EndUserKey: end,
		InRangeCache: true, LeftIncluded: startIncluded, RightIncluded: endIncluded,
	}

	switch {
	case err == nil:
		c.set.Insert(rng)
		c.currentSizeBytes += rng.ByteSize()
		c.totalRangeLength += int64(rng.Length())
		lr.LengthHint = rng.Length()
	case errors.Is(err, ErrEmpty):
		// Known-empty gap: register the logical range with no backing
		// physical range, bridging its neighbors on both sides.
		leftConcat, rightConcat = true, true
	default:
		return err
	}

	if err := c.view.Put(lr, leftConcat, rightConcat); err != nil {
		c.invariantViolation("put_gap", err)
	}

	c.cacheSeqNum = maxU64(c.cacheSeqNum, r.SnapshotSeq())
	c.generation++
	c.tryVictimLocked()

	return nil
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}
