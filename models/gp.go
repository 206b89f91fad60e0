package models

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

// GPConfig contains the hyperparameters of the GaussianProcess model.
type GPConfig struct {
	// LengthScale is the RBF kernel width. Larger values produce smoother
	// interpolation; smaller values give each training point more local
	// influence. Typical range: 0.1-10.0, relative to the feature scale.
	LengthScale float64

	// Noise is the variance added to the kernel diagonal. It keeps the
	// kernel matrix positive definite and controls how tightly the model
	// interpolates the training targets. Typical range: 1e-6-1.0.
	Noise float64
}

// DefaultGPConfig returns the default Gaussian process configuration.
func DefaultGPConfig() GPConfig {
	return GPConfig{
		LengthScale: 1.0,
		Noise:       1e-2,
	}
}

// GaussianProcess is an RBF-kernel Gaussian process regressor. Fit factorizes
// the noisy kernel matrix once with a Cholesky decomposition; Predict is then
// a kernel dot product against the precomputed weights.
//
// Thread safety:
// - All fields are protected by the RWMutex
// - Fit takes the write lock; Predict takes the read lock
// - Concurrent Predict calls after a successful Fit proceed in parallel.
type GaussianProcess struct {
	// mu protects access to all fields
	mu sync.RWMutex

	config GPConfig

	fitted bool

	// x stores copies of the training points
	x [][]float64

	// alpha holds (K + noise·I)⁻¹ y, the per-point prediction weights
	alpha []float64
}

var _ Regressor = (*GaussianProcess)(nil)

//////
// Factory.
//////

// NewGaussianProcess returns an unfitted Gaussian process. Non-positive
// length scale or negative noise fall back to the defaults.
func NewGaussianProcess(cfg GPConfig) *GaussianProcess {
	def := DefaultGPConfig()

	if cfg.LengthScale <= 0 {
		cfg.LengthScale = def.LengthScale
	}

	if cfg.Noise < 0 {
		cfg.Noise = def.Noise
	}

	return &GaussianProcess{config: cfg}
}

//////
// Methods.
//////

// Name implements Regressor.
func (g *GaussianProcess) Name() string { return NameGP }

// Fit builds the kernel matrix over the training points, adds the noise term
// to its diagonal, and solves for the prediction weights via Cholesky. A
// factorization failure (duplicated points with zero noise, say) is reported
// as a training failure with a hint rather than a panic.
func (g *GaussianProcess) Fit(ctx context.Context, features [][]float64, target []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkTrainingData(features, target); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(features)

	// Deep copies keep the shared training table untouched.
	x := make([][]float64, n)
	for i, row := range features {
		x[i] = append([]float64(nil), row...)
	}

	kernel := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k := rbfKernel(x[i], x[j], g.config.LengthScale)
			if i == j {
				k += g.config.Noise
			}

			kernel.SetSym(i, j, k)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(kernel); !ok {
		return errors.New("kernel matrix is not positive definite; increase noise")
	}

	var weights mat.VecDense
	if err := chol.SolveVecTo(&weights, mat.NewVecDense(n, append([]float64(nil), target...))); err != nil {
		return fmt.Errorf("solving for prediction weights: %w", err)
	}

	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = weights.AtVec(i)
	}

	g.x = x
	g.alpha = alpha
	g.fitted = true

	return nil
}

// Predict implements Regressor: the RBF similarity of the query point to
// every training point, dotted with the precomputed weights.
func (g *GaussianProcess) Predict(features []float64) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.fitted {
		return 0, ErrNotFitted
	}

	if len(features) != len(g.x[0]) {
		return 0, fmt.Errorf("got %d features, model was fitted on %d",
			len(features), len(g.x[0]))
	}

	k := make([]float64, len(g.x))
	for i := range g.x {
		k[i] = rbfKernel(features, g.x[i], g.config.LengthScale)
	}

	return floats.Dot(k, g.alpha), nil
}

//////
// Helper functions.
//////

// rbfKernel is the radial basis function kernel:
//
//	k(x1, x2) = exp(-sum((x1 - x2)²) / (2 · lengthScale²))
//
// 1.0 for identical points, falling towards 0.0 with squared distance.
// Callers guarantee equal-length inputs.
func rbfKernel(x1, x2 []float64, lengthScale float64) float64 {
	var sum float64

	for i := range x1 {
		diff := x1[i] - x2[i]
		sum += diff * diff
	}

	return math.Exp(-sum / (2 * lengthScale * lengthScale))
}
