package lorc

import (
	"encoding/binary"
	"fmt"
)

// KeyType is the one-byte tag trailing every internal key.
type KeyType uint8

const (
	// KeyTypeValue marks a live MVCC value from the backing store.
	KeyTypeValue KeyType = iota

	// KeyTypeDeletion marks a live MVCC tombstone from the backing store.
	KeyTypeDeletion

	// KeyTypeRangeCacheValue marks an entry materialized from a scan and
	// stored in the cache, as opposed to a live MVCC entry. An iterator
	// join between cache and store must never confuse a cached copy for a
	// tombstone or blob-index from the base store; the distinguished tag
	// is what lets it tell them apart.
	KeyTypeRangeCacheValue
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeValue:
		return "Value"
	case KeyTypeDeletion:
		return "Deletion"
	case KeyTypeRangeCacheValue:
		return "RangeCacheValue"
	default:
		return fmt.Sprintf("KeyType(%d)", uint8(t))
	}
}

// trailerSize is the fixed width, in bytes, of the sequence/type trailer
// appended to every internal key.
const trailerSize = 8

// EncodeInternalKey appends userKey followed by the big-endian 8-byte
// trailer (seq<<8)|type to dst and returns the result.
//
// seq must fit in 56 bits; the low 8 bits of the trailer are reserved for
// typ.
func EncodeInternalKey(dst []byte, userKey []byte, seq uint64, typ KeyType) []byte {
	dst = append(dst, userKey...)

	var trailer [trailerSize]byte
	putTrailer(trailer[:], seq, typ)

	return append(dst, trailer[:]...)
}

// putTrailer encodes (seq<<8)|typ as a big-endian 8-byte trailer into buf,
// which must have length exactly trailerSize.
func putTrailer(buf []byte, seq uint64, typ KeyType) {
	binary.BigEndian.PutUint64(buf, (seq<<8)|uint64(typ))
}

// NewInternalKey is a convenience wrapper around EncodeInternalKey that
// allocates a fresh slice.
func NewInternalKey(userKey []byte, seq uint64, typ KeyType) []byte {
	return EncodeInternalKey(make([]byte, 0, len(userKey)+trailerSize), userKey, seq, typ)
}

// DecodeInternalKey splits an internal key into its user key, sequence
// number and type tag.
//
// Returns [ErrCorruptInternalKey] if len(ik) < 8.
func DecodeInternalKey(ik []byte) (userKey []byte, seq uint64, typ KeyType, err error) {
	if len(ik) < trailerSize {
		return nil, 0, 0, ErrCorruptInternalKey
	}

	split := len(ik) - trailerSize
	trailer := binary.BigEndian.Uint64(ik[split:])

	return ik[:split], trailer >> 8, KeyType(trailer & 0xff), nil
}

// InternalKeyUserKey returns the user-key portion of an internal key
// without decoding the trailer.
//
// Returns [ErrCorruptInternalKey] if len(ik) < 8.
func InternalKeyUserKey(ik []byte) ([]byte, error) {
	if len(ik) < trailerSize {
		return nil, ErrCorruptInternalKey
	}

	return ik[:len(ik)-trailerSize], nil
}

// trailerOf returns the raw 8-byte trailer value (seq<<8)|type for an
// already-validated internal key.
func trailerOf(ik []byte) uint64 {
	return binary.BigEndian.Uint64(ik[len(ik)-trailerSize:])
}

// CompareInternalKey orders two internal keys: ascending by user key, then
// newest-first (descending sequence, and descending type as a tiebreak) for
// equal user keys.
//
// Returns [ErrCorruptInternalKey] if either key is malformed.
func CompareInternalKey(a, b []byte) (int, error) {
	ua, err := InternalKeyUserKey(a)
	if err != nil {
		return 0, err
	}

	ub, err := InternalKeyUserKey(b)
	if err != nil {
		return 0, err
	}

	if c := compareBytes(ua, ub); c != 0 {
		return c, nil
	}

	ta, tb := trailerOf(a), trailerOf(b)

	switch {
	case ta > tb:
		return -1, nil
	case ta < tb:
		return 1, nil
	default:
		return 0, nil
	}
}
