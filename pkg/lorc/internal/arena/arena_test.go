package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/pkg/lorc/internal/arena"
)

func Test_Arena_Alloc_Bumps_Offset_And_Returns_Disjoint_Slices(t *testing.T) {
	t.Parallel()

	a, err := arena.New(64)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	first, ok := a.Alloc(10)
	require.True(t, ok)
	assert.Len(t, first, 10)
	assert.Equal(t, 10, a.Used())

	second, ok := a.Alloc(10)
	require.True(t, ok)
	assert.Equal(t, 20, a.Used())

	first[0] = 'x'
	assert.NotEqual(t, first[0], second[0])
}

func Test_Arena_Alloc_Fails_Once_Capacity_Exhausted(t *testing.T) {
	t.Parallel()

	a, err := arena.New(16)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	_, ok := a.Alloc(16)
	require.True(t, ok)

	_, ok = a.Alloc(1)
	assert.False(t, ok)
}

func Test_Arena_Reset_Makes_Capacity_Available_Again(t *testing.T) {
	t.Parallel()

	a, err := arena.New(16)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	_, ok := a.Alloc(16)
	require.True(t, ok)

	a.Reset()
	assert.Equal(t, 0, a.Used())

	_, ok = a.Alloc(16)
	assert.True(t, ok)
}

func Test_New_Rejects_NonPositive_Size(t *testing.T) {
	t.Parallel()

	_, err := arena.New(0)
	assert.Error(t, err)
}
