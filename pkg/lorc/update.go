package lorc

import "time"

// UpdateEntry patches a write into any cached copy of internalKey's user
// key. Returns false if no physical range in the cache covers that key (a
// pure miss — nothing to patch) or if the continuous layout refused a
// random insertion, in which case the caller must fall back to dropping
// and re-fetching that physical range.
func (c *Cache) UpdateEntry(internalKey, value []byte) bool {
	start := time.Now()
	defer func() { c.stats.recordPut(time.Since(start)) }()

	userKey, err := InternalKeyUserKey(internalKey)
	if err != nil {
		c.logger.Warnf("update_entry: %v", err)

		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	idx := c.set.upperBound(userKey)
	if idx == 0 {
		return false
	}

	h := c.set.at(idx - 1)
	if !userKeyInSpan(userKey, h.rng.StartUserKey(), h.rng.EndUserKey()) {
		return false
	}

	before := h.rng.ByteSize()

	result, err := h.rng.Update(internalKey, value)
	if err != nil {
		c.logger.Warnf("update_entry: %v", err)

		return false
	}

	switch result {
	case UpdateResultUpdated, UpdateResultInserted:
		c.currentSizeBytes += h.rng.ByteSize() - before
		if result == UpdateResultInserted {
			c.totalRangeLength++
		}

		c.set.Fix(h)
		c.generation++

		return true
	default:
		// UnableToInsert or OutOfRange: caller must re-fetch.
		return false
	}
}
