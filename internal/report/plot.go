package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ScatterPlot writes a PNG scatter of ys against xs, one point per row.
// The explore command uses it to plot each feature against the target.
func ScatterPlot(path string, xs, ys []float64, xLabel, yLabel, title string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("scatter plot needs equal series lengths, got %d and %d", len(xs), len(ys))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}

	sc.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	sc.GlyphStyle.Radius = vg.Points(2.2)
	p.Add(sc)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}

	return nil
}

// PredictionPlot writes a PNG of predicted against observed values with the
// identity line overlaid; a perfect model puts every point on the line. The
// run command uses it for the best combination's model.
func PredictionPlot(path string, observed, predicted []float64, title string) error {
	if len(observed) != len(predicted) {
		return fmt.Errorf("prediction plot needs equal series lengths, got %d and %d", len(observed), len(predicted))
	}

	if len(observed) == 0 {
		return fmt.Errorf("prediction plot needs at least one point")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "observed"
	p.Y.Label.Text = "predicted"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(observed))

	lo, hi := observed[0], observed[0]

	for i := range observed {
		pts[i] = plotter.XY{X: observed[i], Y: predicted[i]}

		if observed[i] < lo {
			lo = observed[i]
		}

		if observed[i] > hi {
			hi = observed[i]
		}
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}

	sc.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	sc.GlyphStyle.Radius = vg.Points(2.2)
	p.Add(sc)

	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return fmt.Errorf("building identity line: %w", err)
	}

	ident.Color = color.RGBA{R: 180, A: 255}
	ident.Width = vg.Points(1)
	p.Add(ident)
	p.Legend.Add("y = x", ident)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}

	return nil
}
