package models

import (
	"context"
	"fmt"
	"math"
	"sort"
)

//////
// Const, vars, types.
//////

// Weighting schemes accepted by KNNConfig.
const (
	WeightingUniform  = "uniform"
	WeightingDistance = "distance"
)

// KNNConfig contains the hyperparameters of the KNN model.
type KNNConfig struct {
	// K is the number of nearest neighbours averaged into a prediction.
	// Typical range: 1-15.
	K int

	// Weighting selects how neighbour targets are combined: "uniform"
	// averages them equally, "distance" weights each by the inverse of its
	// Euclidean distance so closer neighbours dominate.
	Weighting string
}

// DefaultKNNConfig returns the default KNN configuration.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{
		K:         5,
		Weighting: WeightingUniform,
	}
}

// KNN is a k-nearest-neighbours regressor: a prediction is the (optionally
// distance-weighted) mean of the targets of the k training rows closest to
// the query point. There is no model beyond the memorized training data.
type KNN struct {
	config KNNConfig

	fitted   bool
	features [][]float64
	target   []float64
}

var _ Regressor = (*KNN)(nil)

//////
// Factory.
//////

// NewKNN returns an unfitted KNN model. Non-positive K falls back to the
// default; the weighting scheme is validated at Fit time so a bad value
// surfaces as a training failure.
func NewKNN(cfg KNNConfig) *KNN {
	if cfg.K <= 0 {
		cfg.K = DefaultKNNConfig().K
	}

	if cfg.Weighting == "" {
		cfg.Weighting = WeightingUniform
	}

	return &KNN{config: cfg}
}

//////
// Methods.
//////

// Name implements Regressor.
func (k *KNN) Name() string { return NameKNN }

// Fit memorizes a copy of the training data. It fails when K exceeds the
// number of training rows — a K drawn from a search grid can be nonsensical
// for a small dataset, and that is a per-trial failure, not a panic.
func (k *KNN) Fit(ctx context.Context, features [][]float64, target []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkTrainingData(features, target); err != nil {
		return err
	}

	if k.config.Weighting != WeightingUniform && k.config.Weighting != WeightingDistance {
		return fmt.Errorf("unknown weighting %q (have %q, %q)",
			k.config.Weighting, WeightingUniform, WeightingDistance)
	}

	if k.config.K > len(features) {
		return fmt.Errorf("k=%d exceeds %d training rows", k.config.K, len(features))
	}

	// Copies keep the shared training table untouched.
	k.features = make([][]float64, len(features))
	for i, row := range features {
		k.features[i] = append([]float64(nil), row...)
	}

	k.target = append([]float64(nil), target...)
	k.fitted = true

	return nil
}

// Predict implements Regressor.
func (k *KNN) Predict(features []float64) (float64, error) {
	if !k.fitted {
		return 0, ErrNotFitted
	}

	if len(features) != len(k.features[0]) {
		return 0, fmt.Errorf("got %d features, model was fitted on %d",
			len(features), len(k.features[0]))
	}

	type neighbour struct {
		index    int
		distance float64
	}

	neighbours := make([]neighbour, len(k.features))
	for i, row := range k.features {
		neighbours[i] = neighbour{index: i, distance: euclidean(features, row)}
	}

	sort.Slice(neighbours, func(i, j int) bool {
		if neighbours[i].distance != neighbours[j].distance {
			return neighbours[i].distance < neighbours[j].distance
		}

		// Stable order on distance ties keeps predictions deterministic.
		return neighbours[i].index < neighbours[j].index
	})

	nearest := neighbours[:k.config.K]

	if k.config.Weighting == WeightingUniform {
		var sum float64
		for _, n := range nearest {
			sum += k.target[n.index]
		}

		return sum / float64(len(nearest)), nil
	}

	// Distance weighting: an exact match decides outright, otherwise weight
	// each neighbour by the inverse of its distance.
	var weighted, total float64

	for _, n := range nearest {
		if n.distance == 0 {
			return k.target[n.index], nil
		}

		w := 1 / n.distance
		weighted += w * k.target[n.index]
		total += w
	}

	return weighted / total, nil
}

//////
// Helper functions.
//////

// euclidean returns the Euclidean distance between two equal-length vectors.
func euclidean(a, b []float64) float64 {
	var sum float64

	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return math.Sqrt(sum)
}
