package lorc

// ScanResult is the concatenated key/value stream a [Scan] produces,
// spanning both cache hits and store-filled gaps in a single ascending
// sequence.
type ScanResult struct {
	UserKeys [][]byte
	Values   [][]byte
}

func (r *ScanResult) append(userKey, value []byte) {
	r.UserKeys = append(r.UserKeys, userKey)
	r.Values = append(r.Values, value)
}

// Scan runs the scan orchestrator described in spec §4.7: divide the
// requested span into cached and gap segments, stream cached segments
// from the cache iterator, stream gap segments from store's iterator
// while capturing them into a referring range, install each captured gap
// back into the cache, and finally run eviction once.
func (c *Cache) Scan(store Store, start []byte, maxLen int, end []byte) (*ScanResult, error) {
	snapshot := store.GetSnapshot()

	segments, err := c.Divide(start, maxLen, end)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}

	var (
		fullHit              = true
		totalBytes, hitBytes int64
	)

	// emittedBytes sums the user-key and value bytes appended to result
	// from index from onward.
	emittedBytes := func(from int) int64 {
		var n int64
		for j := from; j < len(result.UserKeys); j++ {
			n += int64(len(result.UserKeys[j]) + len(result.Values[j]))
		}

		return n
	}

	for i, seg := range segments {
		from := len(result.UserKeys)

		if seg.InRangeCache {
			c.scanCached(seg, result)
			n := emittedBytes(from)
			hitBytes += n
			totalBytes += n

			continue
		}

		fullHit = false

		leftConcat := i > 0 && segments[i-1].InRangeCache
		rightConcat := i+1 < len(segments) && segments[i+1].InRangeCache

		if _, err := c.scanGap(store, snapshot, seg, leftConcat, rightConcat, result); err != nil {
			return nil, err
		}

		totalBytes += emittedBytes(from)
	}

	c.stats.recordScan(fullHit, totalBytes, hitBytes)
	c.TryVictim()

	return result, nil
}

// scanCached streams a cached logical range from the cache iterator and
// returns the number of entries emitted.
func (c *Cache) scanCached(seg LogicalRange, result *ScanResult) int {
	it := c.NewIterator()
	if !it.Seek(seg.StartUserKey) {
		return 0
	}

	if !seg.LeftIncluded && compareBytes(it.UserKey(), seg.StartUserKey) == 0 {
		if !it.Next() {
			return 0
		}
	}

	count := 0

	for it.Valid() {
		uk := it.UserKey()

		cmp := compareBytes(uk, seg.EndUserKey)
		if cmp > 0 || (cmp == 0 && !seg.RightIncluded) {
			break
		}

		result.append(uk, it.Value())
		count++

		if !it.HasNextInRange() {
			break
		}

		if !it.Next() {
			break
		}
	}

	return count
}

// scanGap streams a miss segment directly from store, capturing it into a
// referring range, then installs the captured gap back into the cache.
// Returns the number of entries emitted.
func (c *Cache) scanGap(store Store, snapshot Snapshot, seg LogicalRange, leftConcat, rightConcat bool, result *ScanResult) (int, error) {
	sit := store.Iterator(snapshot)
	defer sit.Close()

	sit.Seek(seg.StartUserKey)

	ref := NewReferringRange(uint64(snapshot))

	if sit.Valid() && !seg.LeftIncluded {
		if uk, err := InternalKeyUserKey(sit.Key()); err == nil && compareBytes(uk, seg.StartUserKey) == 0 {
			sit.Next()
		}
	}

	count := 0

	for sit.Valid() {
		uk, err := InternalKeyUserKey(sit.Key())
		if err != nil {
			c.logger.Warnf("scan: %v", err)

			break
		}

		if len(seg.EndUserKey) > 0 {
			cmp := compareBytes(uk, seg.EndUserKey)
			if cmp > 0 || (cmp == 0 && !seg.RightIncluded) {
				break
			}
		}

		value := sit.Value()

		if err := ref.Emplace(uk, value); err != nil {
			return count, err
		}

		result.append(uk, value)
		count++
		sit.Next()
	}

	if err := c.PutGap(seg.StartUserKey, seg.EndUserKey, seg.LeftIncluded, seg.RightIncluded, leftConcat, rightConcat, ref); err != nil {
		return count, err
	}

	return count, nil
}
