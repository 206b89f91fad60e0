package models

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitGP(t *testing.T, cfg GPConfig) *GaussianProcess {
	t.Helper()

	m := NewGaussianProcess(cfg)
	require.NoError(t, m.Fit(context.Background(),
		[][]float64{{0}, {1}, {2}}, []float64{1, 3, 2}))

	return m
}

func TestGPInterpolatesTrainingPoints(t *testing.T) {
	m := fitGP(t, GPConfig{LengthScale: 0.5, Noise: 1e-6})

	// With near-zero noise the posterior mean passes through the training
	// targets.
	for i, x := range [][]float64{{0}, {1}, {2}} {
		pred, err := m.Predict(x)
		require.NoError(t, err)
		assert.InDelta(t, []float64{1, 3, 2}[i], pred, 1e-4)
	}
}

func TestGPRevertsToPriorFarFromData(t *testing.T) {
	m := fitGP(t, GPConfig{LengthScale: 0.5, Noise: 1e-6})

	// The RBF similarity to every training point vanishes far away, so the
	// prediction falls back to the zero-mean prior.
	pred, err := m.Predict([]float64{100})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, pred, 1e-9)
}

func TestGPSingularKernel(t *testing.T) {
	m := NewGaussianProcess(GPConfig{LengthScale: 1, Noise: 0})

	// Duplicated points with zero noise leave the kernel matrix only
	// positive semi-definite.
	err := m.Fit(context.Background(), [][]float64{{1}, {1}, {2}}, []float64{1, 1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive definite")
}

func TestGPConfigSanitization(t *testing.T) {
	m := NewGaussianProcess(GPConfig{LengthScale: -1, Noise: -1})
	assert.Equal(t, DefaultGPConfig().LengthScale, m.config.LengthScale)
	assert.Equal(t, DefaultGPConfig().Noise, m.config.Noise)
}

func TestGPNotFitted(t *testing.T) {
	_, err := NewGaussianProcess(DefaultGPConfig()).Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestGPFeatureWidthMismatch(t *testing.T) {
	m := fitGP(t, DefaultGPConfig())

	_, err := m.Predict([]float64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fitted on 1")
}

func TestGPDoesNotShareTrainingStorage(t *testing.T) {
	features := [][]float64{{0}, {1}, {2}}
	target := []float64{1, 3, 2}

	m := NewGaussianProcess(GPConfig{LengthScale: 0.5, Noise: 1e-6})
	require.NoError(t, m.Fit(context.Background(), features, target))

	before, err := m.Predict([]float64{1})
	require.NoError(t, err)

	// The model keeps deep copies; mutating the caller's data changes nothing.
	features[1][0] = 50
	target[1] = 50

	after, err := m.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGPConcurrentPredict(t *testing.T) {
	m := fitGP(t, GPConfig{LengthScale: 0.5, Noise: 1e-6})

	want, err := m.Predict([]float64{0.5})
	require.NoError(t, err)

	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := 0; i < 100; i++ {
				got, err := m.Predict([]float64{0.5})
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}()
	}

	wg.Wait()
}
