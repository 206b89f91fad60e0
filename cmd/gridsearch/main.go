// Command gridsearch tunes baseline regression models over a CSV dataset by
// exhaustive hyperparameter search, with companion commands for exploring the
// data and scoring untuned baselines.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
