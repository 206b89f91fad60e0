package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/gridsearch/dataset"
	"github.com/thalesfsp/gridsearch/internal/config"
	"github.com/thalesfsp/gridsearch/internal/logging"
	"github.com/thalesfsp/gridsearch/internal/report"
)

func newExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Summarize the dataset's target and feature columns",
		RunE:  runExplore,
	}
}

func runExplore(_ *cobra.Command, _ []string) error {
	exp, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	table, err := dataset.Load(exp.Dataset.Path)
	if err != nil {
		return err
	}

	columns := append([]string{exp.Dataset.Target}, exp.Dataset.Features...)

	summaries, err := table.Describe(columns...)
	if err != nil {
		return err
	}

	if err := report.Summaries(os.Stdout, summaries, exp.Report.Format); err != nil {
		return err
	}

	if exp.Report.PlotDir == "" {
		return nil
	}

	return plotFeatures(exp, table)
}

// plotFeatures writes one feature-vs-target scatter per feature column.
func plotFeatures(exp *config.Experiment, table *dataset.Table) error {
	if err := os.MkdirAll(exp.Report.PlotDir, 0o755); err != nil {
		return fmt.Errorf("creating plot directory: %w", err)
	}

	target, err := table.NumericColumn(exp.Dataset.Target)
	if err != nil {
		return err
	}

	for _, feature := range exp.Dataset.Features {
		xs, err := table.NumericColumn(feature)
		if err != nil {
			return err
		}

		path := filepath.Join(exp.Report.PlotDir,
			fmt.Sprintf("%s_vs_%s.png", feature, exp.Dataset.Target))

		title := fmt.Sprintf("%s vs %s", feature, exp.Dataset.Target)
		if err := report.ScatterPlot(path, xs, target, feature, exp.Dataset.Target, title); err != nil {
			return err
		}

		logging.Info().Str("path", path).Msg("wrote scatter plot")
	}

	return nil
}
