// Package metrics provides the standard regression error metrics the search
// and the baseline reports score models with. Every metric is a pure
// function of (observed, predicted) slices; MAPE, RMSE and MAE follow the
// lower-is-better convention the search driver expects, while R² is
// higher-is-better and reported for context only.
package metrics

import (
	"errors"
	"fmt"
	"math"
)

//////
// Const, vars, types.
//////

// Metric names accepted by ByName.
const (
	NameMAPE = "mape"
	NameRMSE = "rmse"
	NameMAE  = "mae"
)

// ErrUnknownMetric is returned by ByName for names it does not recognize.
var ErrUnknownMetric = errors.New("unknown metric")

// Func is a regression error metric: lower is better. Implementations must
// fail on malformed input (length mismatch, empty slices) rather than
// returning a misleading score.
type Func func(observed, predicted []float64) (float64, error)

//////
// Exported functionalities.
//////

// MAPE returns the mean absolute percentage error, in percent:
// mean(|observed-predicted| / |observed|) * 100.
//
// Returns an error when the slices are empty or of different lengths, or
// when any observation is zero (the percentage is undefined there).
func MAPE(observed, predicted []float64) (float64, error) {
	if err := checkPair(observed, predicted); err != nil {
		return 0, err
	}

	var sum float64

	for i := range observed {
		if observed[i] == 0 {
			return 0, fmt.Errorf("mape undefined: observation %d is zero", i)
		}

		sum += math.Abs(observed[i]-predicted[i]) / math.Abs(observed[i])
	}

	return sum / float64(len(observed)) * 100, nil
}

// RMSE returns the root mean squared error:
// sqrt(mean((observed-predicted)²)).
func RMSE(observed, predicted []float64) (float64, error) {
	if err := checkPair(observed, predicted); err != nil {
		return 0, err
	}

	var sum float64

	for i := range observed {
		diff := observed[i] - predicted[i]
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(observed))), nil
}

// MAE returns the mean absolute error: mean(|observed-predicted|).
func MAE(observed, predicted []float64) (float64, error) {
	if err := checkPair(observed, predicted); err != nil {
		return 0, err
	}

	var sum float64

	for i := range observed {
		sum += math.Abs(observed[i] - predicted[i])
	}

	return sum / float64(len(observed)), nil
}

// R2 returns the coefficient of determination: 1 - SSres/SStot. Unlike the
// error metrics it is higher-is-better (1 is a perfect fit, 0 matches the
// mean predictor, negative is worse than the mean predictor), so it is not
// accepted by ByName for driving a search.
//
// Returns an error for malformed input or when the observations are
// constant, which leaves SStot zero and the ratio undefined.
func R2(observed, predicted []float64) (float64, error) {
	if err := checkPair(observed, predicted); err != nil {
		return 0, err
	}

	var mean float64
	for _, o := range observed {
		mean += o
	}
	mean /= float64(len(observed))

	var ssRes, ssTot float64

	for i := range observed {
		res := observed[i] - predicted[i]
		ssRes += res * res

		tot := observed[i] - mean
		ssTot += tot * tot
	}

	if ssTot == 0 {
		return 0, errors.New("r2 undefined: observations are constant")
	}

	return 1 - ssRes/ssTot, nil
}

// ByName resolves a lower-is-better metric by its configuration name
// (mape, rmse or mae).
func ByName(name string) (Func, error) {
	switch name {
	case NameMAPE:
		return MAPE, nil
	case NameRMSE:
		return RMSE, nil
	case NameMAE:
		return MAE, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownMetric)
	}
}

//////
// Helper functions.
//////

// checkPair rejects empty and mismatched series before any metric math runs.
func checkPair(observed, predicted []float64) error {
	if len(observed) == 0 {
		return errors.New("no observations")
	}

	if len(observed) != len(predicted) {
		return fmt.Errorf("length mismatch: %d observed vs %d predicted",
			len(observed), len(predicted))
	}

	return nil
}
