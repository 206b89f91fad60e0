package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRandomSizes(t *testing.T) {
	tbl := sampleTable(t)

	train, test, err := tbl.SplitRandom(0.33, 42)
	require.NoError(t, err)

	// 6 rows at a third held out: 2 test, 4 train.
	assert.Equal(t, 4, train.Len())
	assert.Equal(t, 2, test.Len())
}

func TestSplitRandomDisjointAndComplete(t *testing.T) {
	tbl := sampleTable(t)

	train, test, err := tbl.SplitRandom(0.5, 7)
	require.NoError(t, err)

	trainStations, err := train.Column("station")
	require.NoError(t, err)

	testStations, err := test.Column("station")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, s := range trainStations {
		seen[s] = true
	}

	for _, s := range testStations {
		assert.False(t, seen[s], "station %s in both sides", s)
		seen[s] = true
	}

	// Together the sides cover every row exactly once.
	assert.Len(t, seen, tbl.Len())
}

func TestSplitRandomDeterministic(t *testing.T) {
	tbl := sampleTable(t)

	_, first, err := tbl.SplitRandom(0.5, 42)
	require.NoError(t, err)

	_, second, err := tbl.SplitRandom(0.5, 42)
	require.NoError(t, err)

	a, err := first.Column("station")
	require.NoError(t, err)

	b, err := second.Column("station")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSplitRandomValidation(t *testing.T) {
	tbl := sampleTable(t)

	_, _, err := tbl.SplitRandom(0, 1)
	assert.Error(t, err)

	_, _, err = tbl.SplitRandom(1, 1)
	assert.Error(t, err)

	one, err := tbl.Select([]int{0})
	require.NoError(t, err)

	_, _, err = one.SplitRandom(0.5, 1)
	assert.Error(t, err)
}

func TestSplitByPartition(t *testing.T) {
	tbl := sampleTable(t)

	train, test, err := tbl.SplitByPartition("part", "south")
	require.NoError(t, err)
	assert.Equal(t, 4, train.Len())
	assert.Equal(t, 2, test.Len())

	// The evaluation side is exactly the held-out partition.
	parts, err := test.Column("part")
	require.NoError(t, err)
	for _, p := range parts {
		assert.Equal(t, "south", p)
	}

	parts, err = train.Column("part")
	require.NoError(t, err)
	for _, p := range parts {
		assert.NotEqual(t, "south", p)
	}
}

func TestSplitByPartitionMultipleHoldouts(t *testing.T) {
	tbl := sampleTable(t)

	train, test, err := tbl.SplitByPartition("part", "south", "east")
	require.NoError(t, err)
	assert.Equal(t, 2, train.Len())
	assert.Equal(t, 4, test.Len())
}

func TestSplitByPartitionValidation(t *testing.T) {
	tbl := sampleTable(t)

	_, _, err := tbl.SplitByPartition("part")
	assert.Error(t, err)

	_, _, err = tbl.SplitByPartition("missing", "south")
	assert.Error(t, err)

	// A holdout matching nothing is an error, not an empty eval set.
	_, _, err = tbl.SplitByPartition("part", "west")
	assert.Error(t, err)

	// Holding out every partition leaves nothing to train on.
	_, _, err = tbl.SplitByPartition("part", "north", "south", "east")
	assert.Error(t, err)
}
