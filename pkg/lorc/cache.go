package lorc

import (
	"sync"
	"time"
)

// Options configures a new [Cache].
type Options struct {
	// CapacityBytes is the soft byte budget the cache tries to stay under.
	// [Cache.TryVictim] evicts the shortest physical range while
	// current size exceeds this, except that a single remaining range is
	// retained when CapacityBytes <= 0 (see [Cache.TryVictim] docs).
	CapacityBytes int64

	// Layout selects the physical range implementation used for every
	// range this cache materializes. Fixed for the cache's lifetime.
	Layout Layout

	// LogLevel selects the verbosity of the default logger, used only if
	// Logger is nil.
	LogLevel LogLevel

	// Logger overrides the default standard-library-backed logger. If nil,
	// a logger gated at LogLevel is used.
	Logger Logger

	// ReleaseQueueLen sizes the background releaser's job queue. Zero
	// disables the background releaser; evictions of large ranges are
	// then dropped synchronously instead.
	ReleaseQueueLen int
}

// Cache is a Logically Ordered Range Cache: an in-memory cache of
// contiguous sorted key-value segments drawn from range-scan results. See
// the package docs for the full concurrency and data-model contract.
//
// A Cache must be constructed via [New]; the zero value is not usable.
type Cache struct {
	mu sync.RWMutex

	capacityBytes int64
	layout        Layout
	logger        Logger

	set  *orderedRangeSet
	view logicalRangeView

	currentSizeBytes int64
	totalRangeLength int64
	cacheSeqNum      uint64
	lruClock         uint64
	generation       uint64 // bumped by every mutation; lets iterators detect staleness

	stats    *Stats
	releaser *releaser

	closed bool
}

// New constructs a Cache with the given options.
func New(opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		if opts.LogLevel == LogLevelNone {
			logger = noopLogger{}
		} else {
			logger = NewStdLogger(opts.LogLevel)
		}
	}

	return &Cache{
		capacityBytes: opts.CapacityBytes,
		layout:        opts.Layout,
		logger:        logger,
		set:           newOrderedRangeSet(),
		stats:         &Stats{},
		releaser:      newReleaser(opts.ReleaseQueueLen),
	}
}

// Close stops the background releaser, if any, and releases all cached
// ranges. After Close, [Cache.Divide], [Cache.Scan], [Cache.PutOverlapping]
// and [Cache.PutGap] return [ErrClosed], and [Cache.Get], [Cache.Pin] and
// [Cache.UpdateEntry] report false.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.releaser.Stop()
	c.set = newOrderedRangeSet()
	c.view = logicalRangeView{}

	return nil
}

// Capacity returns the configured capacity in bytes.
func (c *Cache) Capacity() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.capacityBytes
}

// CurrentSize returns the current total byte size of all cached ranges.
func (c *Cache) CurrentSize() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.currentSizeBytes
}

// TotalRangeLength returns the sum of entry counts across all cached
// ranges.
func (c *Cache) TotalRangeLength() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.totalRangeLength
}

// Sequence returns the highest snapshot sequence number observed from the
// backing store across all installed ranges.
func (c *Cache) Sequence() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cacheSeqNum
}

// Stats returns the cache's telemetry accumulator.
func (c *Cache) Stats() *Stats { return c.stats }

// Pin updates the LRU-style timestamp of the physical range starting at
// startUserKey, without changing its contents. The current eviction policy
// is shortest-length-first (see [Cache.TryVictim]); the timestamp is
// reserved for a future least-recently-used policy.
func (c *Cache) Pin(startUserKey []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	idx := c.set.lowerBound(startUserKey)
	if idx >= c.set.Len() || compareBytes(c.set.at(idx).startKey, startUserKey) != 0 {
		return false
	}

	c.lruClock++
	c.set.at(idx).lastUsed = c.lruClock

	return true
}

// Get performs a point lookup, satisfied only if a cached entry for the
// given internal key's user-key portion exists under MVCC visibility
// (i.e. the cached entry's own snapshot sequence is <= the sequence
// encoded in internalKey).
func (c *Cache) Get(internalKey []byte) ([]byte, bool) {
	start := time.Now()
	defer func() { c.stats.recordGet(time.Since(start)) }()

	userKey, seq, _, err := DecodeInternalKey(internalKey)
	if err != nil {
		c.logger.Warnf("get: %v", err)

		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false
	}

	idx := c.set.upperBound(userKey)
	if idx == 0 {
		return nil, false
	}

	h := c.set.at(idx - 1)
	if compareBytes(userKey, h.rng.EndUserKey()) > 0 {
		return nil, false
	}

	entryIdx, found := h.rng.Find(userKey)
	if !found || compareBytes(h.rng.UserKeyAt(entryIdx), userKey) != 0 {
		return nil, false
	}

	_, entrySeq, _, err := DecodeInternalKey(h.rng.InternalKeyAt(entryIdx))
	if err != nil || entrySeq > seq {
		return nil, false
	}

	return h.rng.ValueAt(entryIdx), true
}

// invariantViolation reports an [ErrInvariantViolation] the way spec.md §7
// requires: log full context through the configured [Logger], then abort
// the process. Corrupted internal bookkeeping (a non-monotonic logical
// view, a double-insertion) is not a condition callers can recover from by
// inspecting a returned error, so this never returns.
func (c *Cache) invariantViolation(ctx string, err error) {
	c.logger.Errorf("%s: %v", ctx, err)
	panic(err)
}
