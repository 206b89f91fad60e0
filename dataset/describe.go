package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//////
// Const, vars, types.
//////

// Summary holds the exploratory statistics of one numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

//////
// Exported functionalities.
//////

// Describe computes per-column summaries for the named numeric columns, in
// the given order. StdDev is the sample standard deviation and is NaN for a
// single-row table.
func (t *Table) Describe(names ...string) ([]Summary, error) {
	summaries := make([]Summary, 0, len(names))

	for _, name := range names {
		xs, err := t.NumericColumn(name)
		if err != nil {
			return nil, err
		}

		if len(xs) == 0 {
			return nil, fmt.Errorf("column %q has no rows to summarize", name)
		}

		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)

		summaries = append(summaries, Summary{
			Column: name,
			Count:  len(xs),
			Mean:   stat.Mean(xs, nil),
			StdDev: stat.StdDev(xs, nil),
			Min:    floats.Min(sorted),
			Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
			Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
			Max:    floats.Max(sorted),
		})
	}

	return summaries, nil
}
