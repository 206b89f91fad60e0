package main

import (
	"fmt"

	"github.com/thalesfsp/gridsearch/dataset"
	"github.com/thalesfsp/gridsearch/internal/config"
)

// tabular is the dataset type handed to the search's trial functions: a
// row-major feature matrix plus its target column, extracted once so every
// trial shares the same read-only slices.
type tabular struct {
	Features [][]float64
	Target   []float64
}

// extract pulls the configured feature and target columns out of a table.
func extract(t *dataset.Table, exp *config.Experiment) (*tabular, error) {
	features, err := t.Features(exp.Dataset.Features...)
	if err != nil {
		return nil, err
	}

	target, err := t.NumericColumn(exp.Dataset.Target)
	if err != nil {
		return nil, err
	}

	return &tabular{Features: features, Target: target}, nil
}

// loadSplit loads the CSV and divides it per the experiment's split section,
// returning the extracted training and evaluation sets.
func loadSplit(exp *config.Experiment) (trainSet, evalSet *tabular, err error) {
	table, err := dataset.Load(exp.Dataset.Path)
	if err != nil {
		return nil, nil, err
	}

	var trainTable, evalTable *dataset.Table

	switch exp.Split.Kind {
	case config.SplitSpatial:
		trainTable, evalTable, err = table.SplitByPartition(
			exp.Split.PartitionColumn, exp.Split.Holdout...)
	default:
		trainTable, evalTable, err = table.SplitRandom(
			exp.Split.TestFraction, exp.Split.Seed)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("splitting dataset: %w", err)
	}

	if trainSet, err = extract(trainTable, exp); err != nil {
		return nil, nil, fmt.Errorf("training set: %w", err)
	}

	if evalSet, err = extract(evalTable, exp); err != nil {
		return nil, nil, fmt.Errorf("evaluation set: %w", err)
	}

	return trainSet, evalSet, nil
}
