package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `station,part,turbidity,red,nir
A1,north,4.2,0.11,0.30
A2,north,3.8,0.10,0.28
B1,south,6.1,0.15,0.35
B2,south,5.9,0.14,0.34
C1,east,2.5,0.08,0.20
C2,east,2.9,0.09,0.22
`

func sampleTable(t *testing.T) *Table {
	t.Helper()

	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	return tbl
}

func TestRead(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, 6, tbl.Len())
	assert.Equal(t, []string{"station", "part", "turbidity", "red", "nir"}, tbl.Columns())
	assert.True(t, tbl.HasColumn("turbidity"))
	assert.False(t, tbl.HasColumn("blue"))
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadDuplicateColumn(t *testing.T) {
	_, err := Read(strings.NewReader("a,a\n1,2\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestReadRaggedRow(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, tbl.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestColumn(t *testing.T) {
	tbl := sampleTable(t)

	parts, err := tbl.Column("part")
	require.NoError(t, err)
	assert.Equal(t, []string{"north", "north", "south", "south", "east", "east"}, parts)

	_, err = tbl.Column("missing")
	assert.Error(t, err)
}

func TestNumericColumn(t *testing.T) {
	tbl := sampleTable(t)

	turbidity, err := tbl.NumericColumn("turbidity")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.2, 3.8, 6.1, 5.9, 2.5, 2.9}, turbidity)

	// Non-numeric cells report the column and row.
	_, err = tbl.NumericColumn("part")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"part"`)
	assert.Contains(t, err.Error(), "row 1")
}

func TestFeatures(t *testing.T) {
	tbl := sampleTable(t)

	features, err := tbl.Features("red", "nir")
	require.NoError(t, err)
	require.Len(t, features, 6)
	assert.Equal(t, []float64{0.11, 0.30}, features[0])
	assert.Equal(t, []float64{0.09, 0.22}, features[5])

	_, err = tbl.Features()
	assert.Error(t, err)

	_, err = tbl.Features("red", "missing")
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	tbl := sampleTable(t)

	sub, err := tbl.Select([]int{4, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Len())

	stations, err := sub.Column("station")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "A1"}, stations)

	_, err = tbl.Select([]int{99})
	assert.Error(t, err)
}
