package memstore_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/internal/memstore"
	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func Test_Store_Iterator_Sees_Only_Versions_Visible_At_Snapshot(t *testing.T) {
	t.Parallel()

	s := memstore.New()
	s.Put([]byte("a"), []byte("v1"), lorc.KeyTypeValue)
	snap := s.GetSnapshot()
	s.Put([]byte("a"), []byte("v2"), lorc.KeyTypeValue)

	it := s.Iterator(snap)
	defer func() { _ = it.Close() }()

	it.Seek([]byte("a"))
	require.True(t, it.Valid())
	assert.Equal(t, []byte("v1"), it.Value())

	it.Next()
	assert.False(t, it.Valid())
}

func Test_Store_Iterator_Skips_Tombstoned_Keys(t *testing.T) {
	t.Parallel()

	s := memstore.New()
	s.Put([]byte("a"), []byte("1"), lorc.KeyTypeValue)
	s.Put([]byte("b"), []byte("2"), lorc.KeyTypeValue)
	s.Delete([]byte("a"))
	snap := s.GetSnapshot()

	it := s.Iterator(snap)
	defer func() { _ = it.Close() }()

	var keys [][]byte
	for it.Seek(nil); it.Valid(); it.Next() {
		uk, err := lorc.InternalKeyUserKey(it.Key())
		require.NoError(t, err)
		keys = append(keys, uk)
	}

	if diff := cmp.Diff([][]byte{[]byte("b")}, keys); diff != "" {
		t.Fatalf("unexpected visible keys (-want +got):\n%s", diff)
	}
}

func Test_Store_Iterator_Seek_Positions_At_Lower_Bound(t *testing.T) {
	t.Parallel()

	s := memstore.New()
	s.Put([]byte("a"), []byte("1"), lorc.KeyTypeValue)
	s.Put([]byte("c"), []byte("2"), lorc.KeyTypeValue)
	snap := s.GetSnapshot()

	it := s.Iterator(snap)
	defer func() { _ = it.Close() }()

	it.Seek([]byte("b"))
	require.True(t, it.Valid())

	uk, err := lorc.InternalKeyUserKey(it.Key())
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), uk)
}
