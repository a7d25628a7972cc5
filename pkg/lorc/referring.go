package lorc

import "sort"

// ReferringRange is a read-only, borrowed view over a just-produced scan
// result: parallel sequences of user keys and values, plus the snapshot
// sequence that produced them.
//
// ReferringRange is purely a builder. It owns none of the bytes it holds
// and must never outlive the scan buffers it borrows from; that is a
// lifetime contract enforced by the caller, not by the runtime. Entries
// must be emplaced in strictly ascending, unique user-key order.
type ReferringRange struct {
	snapshotSeq uint64
	keys        [][]byte
	values      [][]byte
}

// NewReferringRange creates an empty builder for entries materialized
// under snapshotSeq.
func NewReferringRange(snapshotSeq uint64) *ReferringRange {
	return &ReferringRange{snapshotSeq: snapshotSeq}
}

// Reserve pre-allocates capacity for n additional entries.
func (r *ReferringRange) Reserve(n int) {
	if n <= 0 {
		return
	}

	keys := make([][]byte, len(r.keys), len(r.keys)+n)
	copy(keys, r.keys)
	r.keys = keys

	values := make([][]byte, len(r.values), len(r.values)+n)
	copy(values, r.values)
	r.values = values
}

// Emplace appends a borrowed (userKey, value) pair.
//
// Returns [ErrOrderViolation] if userKey is not strictly greater than the
// previously emplaced key.
func (r *ReferringRange) Emplace(userKey, value ByteSlice) error {
	if n := len(r.keys); n > 0 && compareBytes(userKey, r.keys[n-1]) <= 0 {
		return ErrOrderViolation
	}

	r.keys = append(r.keys, userKey)
	r.values = append(r.values, value)

	return nil
}

// Len returns the number of entries currently held.
func (r *ReferringRange) Len() int { return len(r.keys) }

// SnapshotSeq returns the snapshot sequence entries were produced under.
func (r *ReferringRange) SnapshotSeq() uint64 { return r.snapshotSeq }

// StartUserKey returns the first entry's user key, or nil if empty.
func (r *ReferringRange) StartUserKey() []byte {
	if len(r.keys) == 0 {
		return nil
	}

	return r.keys[0]
}

// EndUserKey returns the last entry's user key, or nil if empty.
func (r *ReferringRange) EndUserKey() []byte {
	if len(r.keys) == 0 {
		return nil
	}

	return r.keys[len(r.keys)-1]
}

// Find returns the index of the first entry whose user key is >= probe
// (lower bound), or false if all entries are less than probe.
func (r *ReferringRange) Find(userKey ByteSlice) (int, bool) {
	idx := sort.Search(len(r.keys), func(i int) bool {
		return compareBytes(r.keys[i], userKey) >= 0
	})

	if idx == len(r.keys) {
		return 0, false
	}

	return idx, true
}

// window resolves [lo, hi] with inclusivity flags to a half-open index
// range [loIdx, hiIdx) over r.keys.
func (r *ReferringRange) window(lo, hi ByteSlice, loInclusive, hiInclusive bool) (int, int) {
	loIdx := sort.Search(len(r.keys), func(i int) bool {
		if loInclusive {
			return compareBytes(r.keys[i], lo) >= 0
		}

		return compareBytes(r.keys[i], lo) > 0
	})

	hiIdx := sort.Search(len(r.keys), func(i int) bool {
		if hiInclusive {
			return compareBytes(r.keys[i], hi) > 0
		}

		return compareBytes(r.keys[i], hi) >= 0
	})

	if hiIdx < loIdx {
		hiIdx = loIdx
	}

	return loIdx, hiIdx
}

// DumpSubrange materializes the sub-window [lo, hi] (with the given
// inclusivity) into an owned PhysicalRange in the given layout, re-encoding
// internal keys with the recorded snapshot sequence and the
// [KeyTypeRangeCacheValue] tag.
//
// Returns [ErrEmpty] if the resulting window is empty.
func (r *ReferringRange) DumpSubrange(lo, hi ByteSlice, loInclusive, hiInclusive bool, layout Layout) (PhysicalRange, error) {
	loIdx, hiIdx := r.window(lo, hi, loInclusive, hiInclusive)
	if hiIdx <= loIdx {
		return nil, ErrEmpty
	}

	return buildPhysicalRange(layout, r.snapshotSeq, r.keys[loIdx:hiIdx], r.values[loIdx:hiIdx])
}

// Dump materializes the whole referring range into an owned PhysicalRange.
//
// Returns [ErrEmpty] if the range holds no entries.
func (r *ReferringRange) Dump(layout Layout) (PhysicalRange, error) {
	if len(r.keys) == 0 {
		return nil, ErrEmpty
	}

	return buildPhysicalRange(layout, r.snapshotSeq, r.keys, r.values)
}
