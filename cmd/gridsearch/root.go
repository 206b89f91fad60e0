package main

import (
	"github.com/spf13/cobra"

	"github.com/thalesfsp/gridsearch/internal/logging"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridsearch",
		Short: "Exhaustive hyperparameter search for baseline regression models",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg := logging.DefaultConfig()
			cfg.Level = flagLogLevel
			cfg.Format = flagLogFormat
			logging.Init(cfg)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "gridsearch.yaml", "experiment file path")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "log format: console or json")

	root.AddCommand(newRunCmd())
	root.AddCommand(newExploreCmd())
	root.AddCommand(newBaselineCmd())

	return root
}
