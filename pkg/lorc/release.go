package lorc

// largeRangeBytes is the byte-size threshold at or above which an evicted
// physical range is handed to the background releaser instead of being
// dropped under the exclusive cache lock.
const largeRangeBytes = 16 << 20 // 16 MiB

// releaser destroys evicted physical ranges off the hot path. Destroying a
// multi-megabyte owned buffer under the exclusive cache lock is a known
// latency spike; a single worker draining a bounded queue keeps that work
// off the critical section without requiring every caller to reason about
// it. Correctness never depends on this path running: if the queue is
// full, or releasing is disabled, the range is simply dropped immediately
// and the Go garbage collector reclaims it in its own time.
type releaser struct {
	jobs chan PhysicalRange
	done chan struct{}
}

func newReleaser(queueLen int) *releaser {
	if queueLen <= 0 {
		return nil
	}

	r := &releaser{
		jobs: make(chan PhysicalRange, queueLen),
		done: make(chan struct{}),
	}

	go r.run()

	return r
}

func (r *releaser) run() {
	defer close(r.done)

	for range r.jobs { //nolint:revive // draining releases the range by letting it fall out of scope
	}
}

// release hands rng to the background worker if it is large enough to be
// worth deferring and the queue has room; otherwise the caller's own
// reference simply goes out of scope and the range is collected normally.
func (r *releaser) release(rng PhysicalRange) {
	if r == nil || rng.ByteSize() < largeRangeBytes {
		return
	}

	select {
	case r.jobs <- rng:
	default:
		// Queue full: drop synchronously, same as not using the releaser.
	}
}

// Stop closes the job queue and waits for the worker to drain it. Safe to
// call on a nil releaser.
func (r *releaser) Stop() {
	if r == nil {
		return
	}

	close(r.jobs)
	<-r.done
}
