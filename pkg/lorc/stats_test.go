package lorc_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/internal/memstore"
	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func Test_Stats_Snapshot_Reflects_Scans_And_Gets(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	store.Put([]byte("a"), []byte("1"), lorc.KeyTypeValue)
	store.Put([]byte("b"), []byte("2"), lorc.KeyTypeValue)

	c := lorc.New(lorc.Options{CapacityBytes: 1 << 20, Layout: lorc.LayoutVec})
	defer func() { _ = c.Close() }()

	_, err := c.Scan(store, []byte("a"), 0, []byte("z"))
	require.NoError(t, err)

	snap := c.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.ScanCount)

	// Second scan over the same span should now be a full cache hit.
	_, err = c.Scan(store, []byte("a"), 0, []byte("z"))
	require.NoError(t, err)

	snap = c.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.ScanCount)
	assert.Greater(t, snap.HitByteRate, 0.0)
}

func Test_Stats_DumpSnapshot_Writes_Valid_JSON(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	store.Put([]byte("a"), []byte("1"), lorc.KeyTypeValue)

	c := lorc.New(lorc.Options{CapacityBytes: 1 << 20, Layout: lorc.LayoutVec})
	defer func() { _ = c.Close() }()

	_, err := c.Scan(store, []byte("a"), 0, []byte("z"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, c.Stats().DumpSnapshot(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap lorc.StatsSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, int64(1), snap.ScanCount)
}
