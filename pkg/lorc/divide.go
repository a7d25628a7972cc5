package lorc

// Divide tiles [start, end) into an alternating sequence of cached and
// gap logical ranges for the scan orchestrator, per spec §4.5.3. end may
// be nil/empty for an open-ended (right-unbounded) scan. maxLen <= 0 means
// unbounded; otherwise emission stops once maxLen cached entries have been
// counted, truncating the logical range in which the budget is reached.
//
// The tiling is derived from the logical ranges already registered in the
// view: any span not covered by an in-range-cache logical range is emitted
// as a miss (in_range_cache=false, length_hint=0). A known-empty gap
// registered through [Cache.PutGap] is an in-range-cache logical range
// with no entries, so it is emitted as a hit with length_hint 0.
func (c *Cache) Divide(start []byte, maxLen int, end []byte) ([]LogicalRange, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}

	var (
		out       []LogicalRange
		cursor    = start
		curIncl   = true
		remaining = maxLen
	)

	for {
		if len(end) > 0 && compareBytes(cursor, end) >= 0 {
			break
		}

		hit, hitIdx := c.view.containing(cursor, curIncl)
		if hit != nil && hit.InRangeCache {
			segEnd := hit.EndUserKey
			segEndIncl := hit.RightIncluded

			if len(end) > 0 && compareBytes(segEnd, end) > 0 {
				segEnd, segEndIncl = end, false
			}

			count := c.countEntriesInSpan(cursor, segEnd, curIncl, segEndIncl)

			if maxLen > 0 && count > remaining {
				truncKey, ok := c.keyAfterNEntries(cursor, curIncl, remaining)
				if ok {
					segEnd, segEndIncl, count = truncKey, false, remaining
				}
			}

			out = append(out, LogicalRange{
				StartUserKey: cursor, EndUserKey: segEnd, LengthHint: count,
				InRangeCache: true, LeftIncluded: curIncl, RightIncluded: segEndIncl,
			})

			if maxLen > 0 {
				remaining -= count
				if remaining <= 0 {
					break
				}
			}

			// The next segment resumes right after this boundary key
			// unless we stopped short of it because the included
			// endpoint itself still belongs to this segment.
			cursor, curIncl = segEnd, !segEndIncl

			continue
		}

		nextHit, _ := c.view.nextInRangeCache(hitIdx)

		segEnd := end
		segEndIncl := false

		if nextHit != nil && (len(end) == 0 || compareBytes(nextHit.StartUserKey, end) < 0) {
			segEnd, segEndIncl = nextHit.StartUserKey, !nextHit.LeftIncluded
		}

		out = append(out, LogicalRange{
			StartUserKey: cursor, EndUserKey: segEnd, LengthHint: 0,
			InRangeCache: false, LeftIncluded: curIncl, RightIncluded: segEndIncl,
		})

		if len(segEnd) == 0 {
			// Open tail: no further known hits and no explicit end.
			break
		}

		cursor, curIncl = segEnd, nextHit != nil && nextHit.LeftIncluded

		if len(end) > 0 && compareBytes(cursor, end) >= 0 {
			break
		}
	}

	return out, nil
}

// countEntriesInSpan sums physical-range entry counts overlapping
// [lo, hi] with the given inclusivity.
func (c *Cache) countEntriesInSpan(lo, hi []byte, loIncl, hiIncl bool) int {
	idx := c.set.upperBound(lo)
	if idx > 0 {
		idx--
	}

	total := 0

	for ; idx < c.set.Len(); idx++ {
		h := c.set.at(idx)
		if compareBytes(h.rng.StartUserKey(), hi) > 0 {
			break
		}

		total += countInRange(h.rng, lo, hi, loIncl, hiIncl)
	}

	return total
}

func countInRange(p PhysicalRange, lo, hi []byte, loIncl, hiIncl bool) int {
	n := p.Length()

	loIdx, ok := p.Find(lo)
	if !ok {
		return 0
	}

	if !loIncl {
		for loIdx < n && compareBytes(p.UserKeyAt(loIdx), lo) == 0 {
			loIdx++
		}
	}

	hiIdx, ok := p.Find(hi)
	if !ok {
		hiIdx = n
	} else if hiIncl {
		for hiIdx < n && compareBytes(p.UserKeyAt(hiIdx), hi) == 0 {
			hiIdx++
		}
	}

	if hiIdx < loIdx {
		return 0
	}

	return hiIdx - loIdx
}

// keyAfterNEntries walks physical ranges starting at (lo, loIncl) and
// returns the user key exactly n entries later (exclusive end of that
// window), for truncating a divide() emission at a max_len budget.
func (c *Cache) keyAfterNEntries(lo []byte, loIncl bool, n int) ([]byte, bool) {
	idx := c.set.upperBound(lo)
	if idx > 0 {
		idx--
	}

	remaining := n

	for ; idx < c.set.Len(); idx++ {
		h := c.set.at(idx)
		p := h.rng

		start, ok := p.Find(lo)
		if !ok {
			continue
		}

		if !loIncl {
			for start < p.Length() && compareBytes(p.UserKeyAt(start), lo) == 0 {
				start++
			}
		}

		for i := start; i < p.Length(); i++ {
			if remaining == 0 {
				return p.UserKeyAt(i), true
			}

			remaining--
		}
	}

	return nil, false
}
