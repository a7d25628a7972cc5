package lorc

// TryVictim evicts physical ranges, shortest first, until the cache is
// back within budget. Takes the exclusive lock itself; callers inside the
// cache core that already hold it should call tryVictimLocked.
func (c *Cache) TryVictim() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tryVictimLocked()
}

// tryVictimLocked implements the eviction policy described in
// [Options.CapacityBytes]: evict the shortest range while current size
// exceeds the budget, except that CapacityBytes <= 0 evicts down to a
// single retained range rather than emptying the cache outright.
func (c *Cache) tryVictimLocked() {
	for {
		if c.capacityBytes > 0 {
			if c.currentSizeBytes <= c.capacityBytes {
				return
			}
		} else if c.set.Len() <= 1 {
			return
		}

		idx, ok := c.set.ShortestIndex()
		if !ok {
			return
		}

		h := c.set.RemoveAt(idx)
		c.currentSizeBytes -= h.rng.ByteSize()
		c.totalRangeLength -= int64(h.rng.Length())

		if err := c.view.shrinkAround(h.rng.StartUserKey(), h.rng.EndUserKey(), c.countEntriesInSpan); err != nil {
			c.invariantViolation("evict", err)
		}

		c.generation++
		c.releaser.release(h.rng)
	}
}
