package lorc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func buildTestRange(t *testing.T, layout lorc.Layout, keys, values []string) lorc.PhysicalRange {
	t.Helper()

	ref := lorc.NewReferringRange(1)

	for i := range keys {
		require.NoError(t, ref.Emplace([]byte(keys[i]), []byte(values[i])))
	}

	rng, err := ref.Dump(layout)
	require.NoError(t, err)

	return rng
}

func Test_PhysicalRange_Exposes_Entries_In_Sorted_Order(t *testing.T) {
	t.Parallel()

	for _, layout := range []lorc.Layout{lorc.LayoutVec, lorc.LayoutContinuous} {
		t.Run(layout.String(), func(t *testing.T) {
			t.Parallel()

			rng := buildTestRange(t, layout, []string{"a", "b", "c"}, []string{"1", "2", "3"})

			assert.Equal(t, 3, rng.Length())
			assert.Equal(t, []byte("a"), rng.StartUserKey())
			assert.Equal(t, []byte("c"), rng.EndUserKey())

			idx, ok := rng.Find([]byte("b"))
			require.True(t, ok)
			assert.Equal(t, []byte("2"), rng.ValueAt(idx))
		})
	}
}

func Test_VecPhysicalRange_Update_Inserts_New_Key_In_Sorted_Order(t *testing.T) {
	t.Parallel()

	rng := buildTestRange(t, lorc.LayoutVec, []string{"a", "c"}, []string{"1", "3"})

	ik := lorc.NewInternalKey([]byte("b"), 2, lorc.KeyTypeValue)
	result, err := rng.Update(ik, []byte("2"))
	require.NoError(t, err)
	assert.Equal(t, lorc.UpdateResultInserted, result)
	assert.Equal(t, 3, rng.Length())

	idx, ok := rng.Find([]byte("b"))
	require.True(t, ok)
	assert.Equal(t, []byte("2"), rng.ValueAt(idx))
}

func Test_VecPhysicalRange_Update_Replaces_Existing_Value(t *testing.T) {
	t.Parallel()

	rng := buildTestRange(t, lorc.LayoutVec, []string{"a", "b"}, []string{"1", "2"})

	ik := lorc.NewInternalKey([]byte("b"), 9, lorc.KeyTypeValue)
	result, err := rng.Update(ik, []byte("updated"))
	require.NoError(t, err)
	assert.Equal(t, lorc.UpdateResultUpdated, result)

	idx, ok := rng.Find([]byte("b"))
	require.True(t, ok)
	assert.Equal(t, []byte("updated"), rng.ValueAt(idx))
}

func Test_ContinuousPhysicalRange_Update_Refuses_Random_Insertion(t *testing.T) {
	t.Parallel()

	rng := buildTestRange(t, lorc.LayoutContinuous, []string{"a", "c"}, []string{"1", "3"})

	ik := lorc.NewInternalKey([]byte("b"), 2, lorc.KeyTypeValue)
	result, err := rng.Update(ik, []byte("2"))
	require.NoError(t, err)
	assert.Equal(t, lorc.UpdateResultUnableToInsert, result)
	assert.Equal(t, 2, rng.Length())
}

func Test_ContinuousPhysicalRange_Update_Overflows_When_Value_Grows(t *testing.T) {
	t.Parallel()

	rng := buildTestRange(t, lorc.LayoutContinuous, []string{"a"}, []string{"x"})

	ik := lorc.NewInternalKey([]byte("a"), 2, lorc.KeyTypeValue)
	result, err := rng.Update(ik, []byte("a much longer replacement value"))
	require.NoError(t, err)
	assert.Equal(t, lorc.UpdateResultUpdated, result)
	assert.Equal(t, []byte("a much longer replacement value"), rng.ValueAt(0))
}

func Test_PhysicalRange_Update_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, layout := range []lorc.Layout{lorc.LayoutVec, lorc.LayoutContinuous} {
		t.Run(layout.String(), func(t *testing.T) {
			t.Parallel()

			rng := buildTestRange(t, layout, []string{"b", "c"}, []string{"1", "2"})

			ik := lorc.NewInternalKey([]byte("z"), 2, lorc.KeyTypeValue)
			result, err := rng.Update(ik, []byte("v"))
			require.NoError(t, err)
			assert.Equal(t, lorc.UpdateResultOutOfRange, result)
		})
	}
}
