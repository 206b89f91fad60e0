package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tbl, err := Read(strings.NewReader("x\n1\n2\n3\n4\n5\n"))
	require.NoError(t, err)

	summaries, err := tbl.Describe("x")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "x", s.Column)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.5811388300, s.StdDev, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 2.0, s.Q25)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q75)
	assert.Equal(t, 5.0, s.Max)
}

func TestDescribeMultipleColumns(t *testing.T) {
	tbl := sampleTable(t)

	summaries, err := tbl.Describe("turbidity", "red")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "turbidity", summaries[0].Column)
	assert.Equal(t, "red", summaries[1].Column)
	assert.Equal(t, 6, summaries[0].Count)
	assert.InDelta(t, 4.2333333333, summaries[0].Mean, 1e-9)
}

func TestDescribeErrors(t *testing.T) {
	tbl := sampleTable(t)

	// Non-numeric and missing columns fail.
	_, err := tbl.Describe("part")
	assert.Error(t, err)

	_, err = tbl.Describe("missing")
	assert.Error(t, err)

	// A header-only table has nothing to summarize.
	empty, err := Read(strings.NewReader("x\n"))
	require.NoError(t, err)

	_, err = empty.Describe("x")
	assert.Error(t, err)
}
