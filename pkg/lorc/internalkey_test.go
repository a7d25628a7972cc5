package lorc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func Test_InternalKey_RoundTrips_Through_Encode_And_Decode(t *testing.T) {
	t.Parallel()

	ik := lorc.NewInternalKey([]byte("hello"), 42, lorc.KeyTypeRangeCacheValue)

	userKey, seq, typ, err := lorc.DecodeInternalKey(ik)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), userKey)
	assert.Equal(t, uint64(42), seq)
	assert.Equal(t, lorc.KeyTypeRangeCacheValue, typ)
}

func Test_DecodeInternalKey_Returns_CorruptInternalKey_For_Short_Input(t *testing.T) {
	t.Parallel()

	_, _, _, err := lorc.DecodeInternalKey([]byte("short"))
	require.ErrorIs(t, err, lorc.ErrCorruptInternalKey)
}

func Test_CompareInternalKey_Orders_By_UserKey_Then_Newest_Sequence_First(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		a, b []byte
		want int
	}{
		{
			name: "DifferentUserKeys",
			a:    lorc.NewInternalKey([]byte("a"), 1, lorc.KeyTypeValue),
			b:    lorc.NewInternalKey([]byte("b"), 1, lorc.KeyTypeValue),
			want: -1,
		},
		{
			name: "SameUserKeyHigherSequenceSortsFirst",
			a:    lorc.NewInternalKey([]byte("a"), 5, lorc.KeyTypeValue),
			b:    lorc.NewInternalKey([]byte("a"), 3, lorc.KeyTypeValue),
			want: -1,
		},
		{
			name: "Equal",
			a:    lorc.NewInternalKey([]byte("a"), 5, lorc.KeyTypeValue),
			b:    lorc.NewInternalKey([]byte("a"), 5, lorc.KeyTypeValue),
			want: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := lorc.CompareInternalKey(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
