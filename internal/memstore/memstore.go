// Package memstore provides a small in-memory sorted key-value store
// implementing lorc.Store, for exercising and testing the range cache
// without wiring up a real storage engine.
package memstore

import (
	"bytes"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jerry-gk/lorckv/pkg/lorc"
)

// Store is a versioned, sorted in-memory key-value store. Every Put
// appends a new internal-key version rather than overwriting in place, so
// a snapshot taken before a Put never observes it.
//
// Entries are kept sorted by [lorc.CompareInternalKey]: ascending by user
// key, newest sequence first for a given user key. This is the same
// ordering discipline the cache's own physical ranges use, for the same
// reason — it lets Seek/lower-bound reuse sort.Search directly.
type Store struct {
	mu   sync.RWMutex
	keys [][]byte
	vals [][]byte
	seq  uint64
}

// New returns an empty store.
func New() *Store { return &Store{} }

// Put appends a new version of userKey under a freshly allocated sequence
// number and returns it.
func (s *Store) Put(userKey, value []byte, typ lorc.KeyType) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := atomic.AddUint64(&s.seq, 1)
	ik := lorc.NewInternalKey(userKey, seq, typ)

	pos := sort.Search(len(s.keys), func(i int) bool {
		c, _ := lorc.CompareInternalKey(s.keys[i], ik)
		return c >= 0
	})

	s.keys = append(s.keys, nil)
	copy(s.keys[pos+1:], s.keys[pos:])
	s.keys[pos] = ik

	s.vals = append(s.vals, nil)
	copy(s.vals[pos+1:], s.vals[pos:])
	s.vals[pos] = value

	return seq
}

// Delete appends a tombstone version of userKey.
func (s *Store) Delete(userKey []byte) uint64 {
	return s.Put(userKey, nil, lorc.KeyTypeDeletion)
}

// GetSnapshot returns the store's current sequence number.
func (s *Store) GetSnapshot() lorc.Snapshot {
	return lorc.Snapshot(atomic.LoadUint64(&s.seq))
}

// Iterator returns a cursor over the MVCC-visible entries as of snapshot:
// for each user key, the newest version whose sequence is <= snapshot,
// skipping tombstones.
func (s *Store) Iterator(snapshot lorc.Snapshot) lorc.StoreIterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([][]byte, len(s.keys))
	copy(keys, s.keys)

	vals := make([][]byte, len(s.vals))
	copy(vals, s.vals)

	return &storeIterator{keys: keys, vals: vals, snapshot: snapshot, idx: -1}
}

type storeIterator struct {
	keys     [][]byte
	vals     [][]byte
	snapshot lorc.Snapshot
	idx      int
}

// Seek positions at the first MVCC-visible entry whose user key is >=
// userKey.
func (it *storeIterator) Seek(userKey []byte) {
	pos := sort.Search(len(it.keys), func(i int) bool {
		uk, _ := lorc.InternalKeyUserKey(it.keys[i])
		return compareUserKeys(uk, userKey) >= 0
	})

	it.idx = pos
	it.skipToVisible()
}

// skipToVisible advances past versions too new for the snapshot and past
// every version of a user key once its visible (or tombstoned) version has
// been considered.
func (it *storeIterator) skipToVisible() {
	for it.idx < len(it.keys) {
		uk, seq, typ, err := lorc.DecodeInternalKey(it.keys[it.idx])
		if err != nil {
			it.idx++

			continue
		}

		if seq > uint64(it.snapshot) {
			it.idx++

			continue
		}

		if typ == lorc.KeyTypeDeletion {
			it.idx = it.skipUserKey(uk)

			continue
		}

		return
	}
}

// skipUserKey returns the index of the first entry past all versions of
// uk, starting the search from the current position.
func (it *storeIterator) skipUserKey(uk []byte) int {
	i := it.idx
	for i < len(it.keys) {
		next, _ := lorc.InternalKeyUserKey(it.keys[i])
		if compareUserKeys(next, uk) != 0 {
			break
		}

		i++
	}

	return i
}

func (it *storeIterator) Valid() bool { return it.idx < len(it.keys) }

func (it *storeIterator) Next() {
	uk, _ := lorc.InternalKeyUserKey(it.keys[it.idx])
	it.idx = it.skipUserKey(uk)
	it.skipToVisible()
}

func (it *storeIterator) Key() []byte { return it.keys[it.idx] }

func (it *storeIterator) Value() []byte { return it.vals[it.idx] }

func (it *storeIterator) Close() error { return nil }

func compareUserKeys(a, b []byte) int { return bytes.Compare(a, b) }
