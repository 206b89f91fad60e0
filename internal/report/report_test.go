package report

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesfsp/gridsearch"
	"github.com/thalesfsp/gridsearch/dataset"
)

// sampleReport builds a two-trial report with one success and one failure,
// best pointing at the success.
func sampleReport() *gridsearch.Report {
	good := gridsearch.TrialResult{
		Index: 0,
		Params: gridsearch.NewCombination(map[string]gridsearch.Value{
			"k": gridsearch.Int(3),
		}),
		Score:    1.25,
		Duration: 12 * time.Millisecond,
	}

	badParams := gridsearch.NewCombination(map[string]gridsearch.Value{
		"k": gridsearch.Int(500),
	})

	bad := gridsearch.TrialResult{
		Index:  1,
		Params: badParams,
		Score:  math.NaN(),
		Err: &gridsearch.TrialError{
			Stage:  gridsearch.StageTrain,
			Params: badParams,
			Cause:  errors.New("k exceeds training rows"),
		},
		Duration: 3 * time.Millisecond,
	}

	return &gridsearch.Report{
		RunID:     "test-run",
		Results:   []gridsearch.TrialResult{good, bad},
		Best:      &good,
		Completed: 2,
		Failed:    1,
		Elapsed:   15 * time.Millisecond,
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, sampleReport(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "TRIAL")
	assert.Contains(t, out, "k=3")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "FAILED: train failed")
	assert.Contains(t, out, "best: (k=3) score=1.25")
}

func TestRenderTableNoViableCombination(t *testing.T) {
	rep := sampleReport()
	rep.Best = nil
	rep.Failed = 2

	var buf bytes.Buffer

	require.NoError(t, Render(&buf, rep, FormatTable))
	assert.Contains(t, buf.String(), "no viable combination (2 of 2 trials failed)")
	assert.NotContains(t, buf.String(), "best:")
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, sampleReport(), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "| Trial | Params | Score | Duration |")
	assert.Contains(t, out, "| 0 | k=3 | 1.25 |")
	assert.Contains(t, out, "best: (k=3)")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, sampleReport(), FormatJSON))

	var decoded reportRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "test-run", decoded.RunID)
	assert.Equal(t, 2, decoded.Completed)
	assert.Equal(t, 1, decoded.Failed)
	require.Len(t, decoded.Trials, 2)

	// Success carries a score; failure serializes a null score plus the error.
	require.NotNil(t, decoded.Trials[0].Score)
	assert.Equal(t, 1.25, *decoded.Trials[0].Score)
	assert.Nil(t, decoded.Trials[1].Score)
	assert.Contains(t, decoded.Trials[1].Error, "k exceeds training rows")

	require.NotNil(t, decoded.Best)
	assert.Equal(t, 0, decoded.Best.Index)
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer

	err := Render(&buf, sampleReport(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestSummariesTableAndMarkdown(t *testing.T) {
	summaries := []dataset.Summary{
		{Column: "turbidity", Count: 4, Mean: 2.5, StdDev: 1.29, Min: 1, Q25: 1.5, Median: 2.5, Q75: 3.5, Max: 4},
	}

	var table bytes.Buffer

	require.NoError(t, Summaries(&table, summaries, FormatTable))
	assert.Contains(t, table.String(), "turbidity")
	assert.Contains(t, table.String(), "COLUMN")

	var md bytes.Buffer

	require.NoError(t, Summaries(&md, summaries, FormatMarkdown))
	assert.Contains(t, md.String(), "| turbidity | 4 |")
}

func TestScatterPlotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")

	err := ScatterPlot(path,
		[]float64{1, 2, 3, 4},
		[]float64{2, 4, 6, 8},
		"feature", "target", "feature vs target")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestScatterPlotLengthMismatch(t *testing.T) {
	err := ScatterPlot("unused.png", []float64{1}, []float64{1, 2}, "x", "y", "t")
	assert.Error(t, err)
}

func TestPredictionPlotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pred.png")

	err := PredictionPlot(path,
		[]float64{1, 2, 3},
		[]float64{1.1, 1.9, 3.2},
		"predicted vs observed")
	require.NoError(t, err)
	assert.FileExists(t, path)
}
