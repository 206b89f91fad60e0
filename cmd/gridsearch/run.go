package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/gridsearch"
	"github.com/thalesfsp/gridsearch/internal/config"
	"github.com/thalesfsp/gridsearch/internal/logging"
	"github.com/thalesfsp/gridsearch/internal/report"
	"github.com/thalesfsp/gridsearch/metrics"
	"github.com/thalesfsp/gridsearch/models"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the grid search described by the experiment file",
		RunE:  runSearch,
	}
}

func runSearch(_ *cobra.Command, _ []string) error {
	exp, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	grid, err := exp.Grid()
	if err != nil {
		return err
	}

	metricFn, err := metrics.ByName(exp.Search.Metric)
	if err != nil {
		return err
	}

	trainSet, evalSet, err := loadSplit(exp)
	if err != nil {
		return err
	}

	trainFn := func(ctx context.Context, params gridsearch.Combination, train *tabular) (models.Regressor, error) {
		m, err := models.FromCombination(exp.Model.Name, params)
		if err != nil {
			return nil, err
		}

		return m, m.Fit(ctx, train.Features, train.Target)
	}

	evalFn := func(_ context.Context, m models.Regressor, eval *tabular) (float64, error) {
		predicted, err := models.PredictAll(m, eval.Features)
		if err != nil {
			return 0, err
		}

		return metricFn(eval.Target, predicted)
	}

	searchCfg := gridsearch.DefaultConfig(grid, trainSet, evalSet)
	searchCfg.Workers = exp.Search.Workers
	searchCfg.RunID = exp.Search.RunID
	searchCfg.Logger = logging.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, searchErr := gridsearch.Search(ctx, searchCfg, trainFn, evalFn)

	// A partial or all-failed report is still worth printing; only a nil
	// report (empty grid) has nothing to show.
	if rep != nil {
		if err := report.Render(os.Stdout, rep, exp.Report.Format); err != nil {
			return err
		}
	}

	if searchErr != nil {
		return searchErr
	}

	if exp.Report.PlotDir != "" {
		if err := plotBest(ctx, exp, rep, trainSet, evalSet); err != nil {
			return err
		}
	}

	return nil
}

// plotBest refits the winning combination and writes a predicted-vs-observed
// scatter for it into the configured plot directory.
func plotBest(ctx context.Context, exp *config.Experiment, rep *gridsearch.Report, trainSet, evalSet *tabular) error {
	if err := os.MkdirAll(exp.Report.PlotDir, 0o755); err != nil {
		return fmt.Errorf("creating plot directory: %w", err)
	}

	m, err := models.FromCombination(exp.Model.Name, rep.Best.Params)
	if err != nil {
		return err
	}

	if err := m.Fit(ctx, trainSet.Features, trainSet.Target); err != nil {
		return fmt.Errorf("refitting best combination: %w", err)
	}

	predicted, err := models.PredictAll(m, evalSet.Features)
	if err != nil {
		return err
	}

	path := filepath.Join(exp.Report.PlotDir, "predicted_vs_observed.png")
	title := fmt.Sprintf("%s (%s)", exp.Model.Name, rep.Best.Params)

	if err := report.PredictionPlot(path, evalSet.Target, predicted, title); err != nil {
		return err
	}

	logging.Info().Str("path", path).Msg("wrote prediction plot")

	return nil
}
