// Package lorc implements a Logically Ordered Range Cache: an in-memory
// cache sitting beside a sorted key-value store whose purpose is to
// accelerate range scans rather than point lookups.
//
// Unlike a row cache (entries keyed independently) or a block cache
// (entries keyed by underlying storage blocks), lorc stores contiguous
// sorted key-value segments drawn from scan results, preserving their
// order so that future scans overlapping a cached segment can skip the
// underlying store.
//
// # Basic usage
//
//	c := lorc.New(lorc.Options{
//	    CapacityBytes: 64 << 20,
//	    Layout:        lorc.LayoutVec,
//	})
//	defer c.Close()
//
//	// After a scan of the backing store over [start, end) produced rr:
//	c.PutOverlapping(rr)
//
//	// Patch a live write into any cached copy:
//	c.UpdateEntry(ik, newValue)
//
// # Concurrency
//
// A [Cache] is safe for concurrent use by multiple goroutines. Mutators
// ([Cache.PutOverlapping], [Cache.PutGap], [Cache.UpdateEntry],
// [Cache.TryVictim]) take an exclusive lock; reads ([Cache.Get],
// [Cache.Divide] and iterator positioning) take a shared lock for the
// duration of each call.
//
// # No durability
//
// The cache is purely in-memory and is lost on process restart. There is
// no cross-process sharing, no replication, and no transactional isolation
// beyond snapshot-consistent reads.
package lorc
