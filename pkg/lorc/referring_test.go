package lorc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func Test_ReferringRange_Emplace_Rejects_NonAscending_Keys(t *testing.T) {
	t.Parallel()

	r := lorc.NewReferringRange(1)
	require.NoError(t, r.Emplace([]byte("b"), []byte("1")))

	err := r.Emplace([]byte("a"), []byte("2"))
	require.ErrorIs(t, err, lorc.ErrOrderViolation)

	err = r.Emplace([]byte("b"), []byte("2"))
	require.ErrorIs(t, err, lorc.ErrOrderViolation)
}

func Test_ReferringRange_Find_Returns_LowerBound(t *testing.T) {
	t.Parallel()

	r := lorc.NewReferringRange(1)
	require.NoError(t, r.Emplace([]byte("b"), []byte("1")))
	require.NoError(t, r.Emplace([]byte("d"), []byte("2")))
	require.NoError(t, r.Emplace([]byte("f"), []byte("3")))

	idx, ok := r.Find([]byte("c"))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = r.Find([]byte("z"))
	assert.False(t, ok)
}

func Test_ReferringRange_Dump_Returns_ErrEmpty_When_No_Entries(t *testing.T) {
	t.Parallel()

	r := lorc.NewReferringRange(1)

	_, err := r.Dump(lorc.LayoutVec)
	require.ErrorIs(t, err, lorc.ErrEmpty)
}

func Test_ReferringRange_Dump_Materializes_All_Entries(t *testing.T) {
	t.Parallel()

	r := lorc.NewReferringRange(7)
	require.NoError(t, r.Emplace([]byte("a"), []byte("1")))
	require.NoError(t, r.Emplace([]byte("b"), []byte("2")))

	rng, err := r.Dump(lorc.LayoutVec)
	require.NoError(t, err)
	assert.Equal(t, 2, rng.Length())
	assert.Equal(t, []byte("a"), rng.StartUserKey())
	assert.Equal(t, []byte("b"), rng.EndUserKey())
}

func Test_ReferringRange_DumpSubrange_Honors_Inclusivity(t *testing.T) {
	t.Parallel()

	r := lorc.NewReferringRange(1)
	require.NoError(t, r.Emplace([]byte("a"), []byte("1")))
	require.NoError(t, r.Emplace([]byte("b"), []byte("2")))
	require.NoError(t, r.Emplace([]byte("c"), []byte("3")))

	rng, err := r.DumpSubrange([]byte("a"), []byte("b"), true, false, lorc.LayoutVec)
	require.NoError(t, err)
	assert.Equal(t, 1, rng.Length())
	assert.Equal(t, []byte("a"), rng.StartUserKey())

	rng, err = r.DumpSubrange([]byte("a"), []byte("b"), true, true, lorc.LayoutVec)
	require.NoError(t, err)
	assert.Equal(t, 2, rng.Length())
}

func Test_ReferringRange_DumpSubrange_Returns_ErrEmpty_For_Empty_Window(t *testing.T) {
	t.Parallel()

	r := lorc.NewReferringRange(1)
	require.NoError(t, r.Emplace([]byte("a"), []byte("1")))

	_, err := r.DumpSubrange([]byte("z"), []byte("zz"), true, true, lorc.LayoutVec)
	require.ErrorIs(t, err, lorc.ErrEmpty)
}
