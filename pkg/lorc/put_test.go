package lorc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func refRange(t *testing.T, seq uint64, keys ...string) *lorc.ReferringRange {
	t.Helper()

	r := lorc.NewReferringRange(seq)
	for _, k := range keys {
		require.NoError(t, r.Emplace([]byte(k), []byte("v-"+k)))
	}

	return r
}

func Test_PutGap_Registers_A_KnownEmpty_Gap_With_No_Backing_Range(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, lorc.LayoutVec)

	empty := lorc.NewReferringRange(1)
	require.NoError(t, c.PutGap([]byte("a"), []byte("z"), true, false, true, true, empty))

	assert.Equal(t, int64(0), c.TotalRangeLength())

	segments, err := c.Divide([]byte("a"), 0, []byte("z"))
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.True(t, segments[0].InRangeCache)
	assert.Equal(t, 0, segments[0].LengthHint)
}

func Test_PutGap_Installs_A_Physical_Range_When_Entries_Present(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, lorc.LayoutVec)

	r := refRange(t, 1, "a", "b", "c")
	require.NoError(t, c.PutGap([]byte("a"), []byte("d"), true, false, true, true, r))

	assert.Equal(t, int64(3), c.TotalRangeLength())

	value, ok := c.Get(lorc.NewInternalKey([]byte("b"), 1, lorc.KeyTypeValue))
	require.True(t, ok)
	assert.Equal(t, []byte("v-b"), value)
}

func Test_PutOverlapping_Rejects_Empty_ReferringRange(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, lorc.LayoutVec)

	err := c.PutOverlapping(lorc.NewReferringRange(1))
	require.ErrorIs(t, err, lorc.ErrEmpty)
}

// cachedEntryCount sums LengthHint across every in-range-cache segment
// Divide reports over [start, end) — the total number of entries the cache
// can answer within that span, regardless of how many logical ranges they
// are currently split across.
func cachedEntryCount(t *testing.T, c *lorc.Cache, start, end []byte) int {
	t.Helper()

	segments, err := c.Divide(start, 0, end)
	require.NoError(t, err)

	total := 0
	for _, s := range segments {
		if s.InRangeCache {
			total += s.LengthHint
		}
	}

	return total
}

func Test_PutOverlapping_Merges_A_New_Scan_Into_An_Existing_Range(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, lorc.LayoutVec)

	first := refRange(t, 1, "b", "c")
	require.NoError(t, c.PutGap([]byte("b"), []byte("d"), true, false, true, true, first))

	second := refRange(t, 2, "a", "b", "c", "d")
	require.NoError(t, c.PutOverlapping(second))

	// The overlapping put covers the whole span densely, so every key in
	// it is now answerable from the cache even though PutOverlapping only
	// coalesces logical ranges that share an exact boundary key.
	assert.Equal(t, 4, cachedEntryCount(t, c, []byte("a"), []byte("e")))

	for _, k := range []string{"a", "b", "c", "d"} {
		value, ok := c.Get(lorc.NewInternalKey([]byte(k), 2, lorc.KeyTypeValue))
		require.True(t, ok, "key %q should be cached", k)
		assert.Equal(t, []byte("v-"+k), value)
	}
}

func Test_PutOverlapping_Materializes_The_Gap_Between_Two_Existing_Ranges(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, lorc.LayoutVec)

	require.NoError(t, c.PutGap([]byte("a"), []byte("b"), true, true, true, true, refRange(t, 1, "a", "b")))
	require.NoError(t, c.PutGap([]byte("e"), []byte("f"), true, true, true, true, refRange(t, 1, "e", "f")))

	middle := refRange(t, 2, "a", "b", "c", "d", "e", "f")
	require.NoError(t, c.PutOverlapping(middle))

	assert.Equal(t, 6, cachedEntryCount(t, c, []byte("a"), []byte("g")))

	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		value, ok := c.Get(lorc.NewInternalKey([]byte(k), 2, lorc.KeyTypeValue))
		require.True(t, ok, "key %q should be cached", k)
		assert.Equal(t, []byte("v-"+k), value)
	}
}
