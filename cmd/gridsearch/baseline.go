package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/gridsearch"
	"github.com/thalesfsp/gridsearch/internal/config"
	"github.com/thalesfsp/gridsearch/metrics"
	"github.com/thalesfsp/gridsearch/models"
)

func newBaselineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "baseline",
		Short: "Fit every model with default hyperparameters and print its metrics",
		RunE:  runBaseline,
	}
}

// baselineMetrics are the columns of the baseline table, in print order.
var baselineMetrics = []struct {
	name string
	fn   metrics.Func
}{
	{"MAPE", metrics.MAPE},
	{"RMSE", metrics.RMSE},
	{"MAE", metrics.MAE},
	{"R2", metrics.R2},
}

func runBaseline(cmd *cobra.Command, _ []string) error {
	exp, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	trainSet, evalSet, err := loadSplit(exp)
	if err != nil {
		return err
	}

	// Default hyperparameters come from an empty combination: every model
	// getter falls back to its configured default.
	defaults := gridsearch.NewCombination(nil)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "MODEL\tMAPE\tRMSE\tMAE\tR2")
	fmt.Fprintln(tw, strings.Repeat("-", 56))

	for _, name := range models.Names() {
		row, err := baselineRow(cmd, name, defaults, trainSet, evalSet)
		if err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", name, err)

			continue
		}

		fmt.Fprintf(tw, "%s\t%s\n", name, row)
	}

	return tw.Flush()
}

// baselineRow fits one model on the training set and renders its evaluation
// metrics as tab-separated cells.
func baselineRow(cmd *cobra.Command, name string, defaults gridsearch.Combination, trainSet, evalSet *tabular) (string, error) {
	m, err := models.FromCombination(name, defaults)
	if err != nil {
		return "", err
	}

	if err := m.Fit(cmd.Context(), trainSet.Features, trainSet.Target); err != nil {
		return "", err
	}

	predicted, err := models.PredictAll(m, evalSet.Features)
	if err != nil {
		return "", err
	}

	cells := make([]string, 0, len(baselineMetrics))

	for _, metric := range baselineMetrics {
		score, err := metric.fn(evalSet.Target, predicted)
		if err != nil {
			return "", fmt.Errorf("%s: %w", metric.name, err)
		}

		cells = append(cells, fmt.Sprintf("%.6g", score))
	}

	return strings.Join(cells, "\t"), nil
}
