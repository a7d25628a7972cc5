package lorc

import "bytes"

// ByteSlice is a borrowed view over a byte buffer, ordered lexicographically.
//
// Go slices are already borrowed (pointer, length, capacity) views, so
// ByteSlice is a plain alias rather than a wrapper struct: wrapping it would
// only add ceremony around operations the standard library already provides
// (bytes.Compare, bytes.HasPrefix). The caller's backing array must outlive
// any ByteSlice derived from it, exactly as for any Go slice.
type ByteSlice = []byte

// compareBytes orders two byte slices lexicographically.
func compareBytes(a, b ByteSlice) int {
	return bytes.Compare(a, b)
}

// hasPrefix reports whether s begins with prefix.
func hasPrefix(s, prefix ByteSlice) bool {
	return bytes.HasPrefix(s, prefix)
}

// cloneBytes returns an owned copy of s, or nil if s is empty.
func cloneBytes(s ByteSlice) []byte {
	if len(s) == 0 {
		return nil
	}

	out := make([]byte, len(s))
	copy(out, s)

	return out
}
