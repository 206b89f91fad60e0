package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMAPE(t *testing.T) {
	observed := []float64{100, 200}
	predicted := []float64{110, 180}

	// |100-110|/100 = 0.10, |200-180|/200 = 0.10 -> mean 0.10 -> 10%.
	got, err := MAPE(observed, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestMAPEZeroObservation(t *testing.T) {
	_, err := MAPE([]float64{0, 1}, []float64{1, 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "zero")
}

func TestRMSE(t *testing.T) {
	observed := []float64{1, 2, 3}
	predicted := []float64{2, 2, 5}

	// Squared errors: 1, 0, 4 -> mean 5/3 -> sqrt.
	got, err := RMSE(observed, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 1.2909944487, got, 1e-9)
}

func TestRMSEPerfect(t *testing.T) {
	got, err := RMSE([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestMAE(t *testing.T) {
	got, err := MAE([]float64{1, 2, 3}, []float64{2, 2, 5})
	require.NoError(t, err)

	// Absolute errors: 1, 0, 2 -> mean 1.
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestR2(t *testing.T) {
	observed := []float64{1, 2, 3, 4}

	// Perfect predictions give exactly 1.
	got, err := R2(observed, observed)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)

	// Predicting the mean gives exactly 0.
	mean := []float64{2.5, 2.5, 2.5, 2.5}
	got, err = R2(observed, mean)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-9)
}

func TestR2ConstantObservations(t *testing.T) {
	_, err := R2([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "constant")
}

func TestLengthMismatch(t *testing.T) {
	for name, fn := range map[string]Func{
		"mape": MAPE,
		"rmse": RMSE,
		"mae":  MAE,
		"r2":   R2,
	} {
		_, err := fn([]float64{1, 2}, []float64{1})
		assert.Error(t, err, name)
	}
}

func TestEmptyInput(t *testing.T) {
	_, err := RMSE(nil, nil)
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	for _, name := range []string{NameMAPE, NameRMSE, NameMAE} {
		fn, err := ByName(name)
		require.NoError(t, err)
		assert.NotNil(t, fn)
	}

	_, err := ByName("accuracy")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}
