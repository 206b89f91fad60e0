package models

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearExactFit(t *testing.T) {
	m := NewLinear(DefaultLinearConfig())

	// y = 2x + 1, exactly.
	err := m.Fit(context.Background(),
		[][]float64{{1}, {2}, {3}, {4}, {5}, {6}},
		[]float64{3, 5, 7, 9, 11, 13})
	require.NoError(t, err)

	intercept, weights, err := m.Coefficients()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, intercept, 1e-9)
	require.Len(t, weights, 1)
	assert.InDelta(t, 2.0, weights[0], 1e-9)

	pred, err := m.Predict([]float64{10})
	require.NoError(t, err)
	assert.InDelta(t, 21.0, pred, 1e-9)
}

func TestLinearMultiFeature(t *testing.T) {
	m := NewLinear(DefaultLinearConfig())

	// y = 1 + 2a - 3b, exactly.
	features := [][]float64{
		{1, 0}, {0, 1}, {2, 1}, {1, 2}, {3, 0},
	}
	target := make([]float64, len(features))
	for i, row := range features {
		target[i] = 1 + 2*row[0] - 3*row[1]
	}

	require.NoError(t, m.Fit(context.Background(), features, target))

	pred, err := m.Predict([]float64{2, 2})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, pred, 1e-9)
}

func TestLinearRidgeShrinksWeights(t *testing.T) {
	features := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	target := []float64{3, 5, 7, 9, 11, 13}

	plain := NewLinear(LinearConfig{Ridge: 0})
	require.NoError(t, plain.Fit(context.Background(), features, target))

	ridged := NewLinear(LinearConfig{Ridge: 100})
	require.NoError(t, ridged.Fit(context.Background(), features, target))

	_, plainWeights, err := plain.Coefficients()
	require.NoError(t, err)

	_, ridgedWeights, err := ridged.Coefficients()
	require.NoError(t, err)

	assert.Less(t, math.Abs(ridgedWeights[0]), math.Abs(plainWeights[0]))
}

func TestLinearSingularWithoutRidge(t *testing.T) {
	// Identical feature columns make plain OLS singular; a ridge term makes
	// the same system solvable.
	features := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	target := []float64{2, 4, 6, 8}

	plain := NewLinear(LinearConfig{Ridge: 0})
	assert.Error(t, plain.Fit(context.Background(), features, target))

	ridged := NewLinear(LinearConfig{Ridge: 1})
	assert.NoError(t, ridged.Fit(context.Background(), features, target))
}

func TestLinearUnderdetermined(t *testing.T) {
	m := NewLinear(DefaultLinearConfig())

	// Two rows cannot determine three coefficients (intercept + 2 weights).
	err := m.Fit(context.Background(), [][]float64{{1, 2}, {3, 4}}, []float64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 coefficients")
}

func TestLinearNegativeRidgeTreatedAsZero(t *testing.T) {
	m := NewLinear(LinearConfig{Ridge: -5})

	require.NoError(t, m.Fit(context.Background(),
		[][]float64{{1}, {2}, {3}}, []float64{2, 4, 6}))

	pred, err := m.Predict([]float64{4})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, pred, 1e-9)
}

func TestLinearNotFitted(t *testing.T) {
	m := NewLinear(DefaultLinearConfig())

	_, err := m.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, _, err = m.Coefficients()
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestLinearFeatureWidthMismatch(t *testing.T) {
	m := NewLinear(DefaultLinearConfig())
	require.NoError(t, m.Fit(context.Background(),
		[][]float64{{1, 2}, {3, 5}, {5, 6}}, []float64{1, 2, 3}))

	_, err := m.Predict([]float64{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fitted on 2")
}
