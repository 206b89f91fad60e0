// Package models provides the baseline regression models wired for grid
// search: a mean predictor, ordinary least squares with an optional ridge
// term, k-nearest-neighbours, and an RBF-kernel Gaussian process. Each model
// exposes its hyperparameters through a config struct with a Default
// factory, and FromCombination binds a search combination to those configs.
//
// None of these implement tree construction or boosting internals; the
// linear-algebra heavy lifting is delegated to gonum.
package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/thalesfsp/gridsearch"
)

//////
// Const, vars, types.
//////

// Model names accepted by FromCombination.
const (
	NameMean   = "mean"
	NameLinear = "linear"
	NameKNN    = "knn"
	NameGP     = "gp"
)

// ErrNotFitted is returned by Predict before a successful Fit.
var ErrNotFitted = errors.New("model is not fitted")

// Regressor is a trainable regression model. Fit validates shapes and must
// leave its inputs unmodified; Predict is safe for concurrent use after a
// successful Fit.
type Regressor interface {
	// Name returns the model's configuration name.
	Name() string

	// Fit trains on a row-major feature matrix and its target column.
	Fit(ctx context.Context, features [][]float64, target []float64) error

	// Predict returns the prediction for one feature vector.
	Predict(features []float64) (float64, error)
}

//////
// Exported functionalities.
//////

// Names lists the available model names in a stable order.
func Names() []string {
	return []string{NameMean, NameLinear, NameKNN, NameGP}
}

// FromCombination builds a model of the named kind with hyperparameters
// taken from a search combination; parameters absent from the combination
// keep their defaults. This is the factory a search's training function
// uses:
//
//	trainFn := func(ctx context.Context, params gridsearch.Combination, train Split) (models.Regressor, error) {
//	    m, err := models.FromCombination("knn", params)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return m, m.Fit(ctx, train.Features, train.Target)
//	}
func FromCombination(name string, params gridsearch.Combination) (Regressor, error) {
	switch name {
	case NameMean:
		return NewMean(), nil
	case NameLinear:
		cfg := DefaultLinearConfig()
		cfg.Ridge = params.Float("ridge", cfg.Ridge)

		return NewLinear(cfg), nil
	case NameKNN:
		cfg := DefaultKNNConfig()
		cfg.K = int(params.Int("k", int64(cfg.K)))
		cfg.Weighting = params.Str("weighting", cfg.Weighting)

		return NewKNN(cfg), nil
	case NameGP:
		cfg := DefaultGPConfig()
		cfg.LengthScale = params.Float("length_scale", cfg.LengthScale)
		cfg.Noise = params.Float("noise", cfg.Noise)

		return NewGaussianProcess(cfg), nil
	default:
		return nil, fmt.Errorf("unknown model %q (have %v)", name, Names())
	}
}

// PredictAll runs Predict over a row-major feature matrix.
func PredictAll(m Regressor, features [][]float64) ([]float64, error) {
	out := make([]float64, len(features))

	for i, row := range features {
		pred, err := m.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("predicting row %d: %w", i, err)
		}

		out[i] = pred
	}

	return out, nil
}

//////
// Mean.
//////

// Mean predicts the training-target mean for every input: the floor every
// other model has to beat.
type Mean struct {
	fitted bool
	mean   float64
}

var _ Regressor = (*Mean)(nil)

// NewMean returns an unfitted mean predictor.
func NewMean() *Mean { return &Mean{} }

// Name implements Regressor.
func (m *Mean) Name() string { return NameMean }

// Fit stores the target mean. Features only take part in shape validation.
func (m *Mean) Fit(ctx context.Context, features [][]float64, target []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkTrainingData(features, target); err != nil {
		return err
	}

	var sum float64
	for _, y := range target {
		sum += y
	}

	m.mean = sum / float64(len(target))
	m.fitted = true

	return nil
}

// Predict implements Regressor.
func (m *Mean) Predict(_ []float64) (float64, error) {
	if !m.fitted {
		return 0, ErrNotFitted
	}

	return m.mean, nil
}

//////
// Helper functions.
//////

// checkTrainingData validates the shared Fit preconditions: non-empty data,
// matching row counts, and a rectangular feature matrix.
func checkTrainingData(features [][]float64, target []float64) error {
	if len(features) == 0 {
		return errors.New("no training rows")
	}

	if len(features) != len(target) {
		return fmt.Errorf("feature rows %d do not match target rows %d",
			len(features), len(target))
	}

	width := len(features[0])
	if width == 0 {
		return errors.New("no feature columns")
	}

	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}

	return nil
}
