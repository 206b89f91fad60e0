package models

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

// LinearConfig contains the hyperparameters of the Linear model.
type LinearConfig struct {
	// Ridge is the L2 penalty applied to the feature coefficients (the
	// intercept is never penalized). Zero fits ordinary least squares.
	// Typical range: 0.0-10.0.
	Ridge float64
}

// DefaultLinearConfig returns the default linear configuration: ordinary
// least squares with no ridge term.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{
		Ridge: 0,
	}
}

// Linear is a least-squares regressor with an optional ridge penalty. The
// solve is delegated to gonum: a QR-backed least-squares solution for plain
// OLS, and the penalized normal equations when a ridge term is set.
type Linear struct {
	config LinearConfig

	fitted bool
	coef   []float64 // intercept first, then one weight per feature
}

var _ Regressor = (*Linear)(nil)

//////
// Factory.
//////

// NewLinear returns an unfitted linear model. A negative ridge value is
// treated as zero.
func NewLinear(cfg LinearConfig) *Linear {
	if cfg.Ridge < 0 {
		cfg.Ridge = 0
	}

	return &Linear{config: cfg}
}

//////
// Methods.
//////

// Name implements Regressor.
func (l *Linear) Name() string { return NameLinear }

// Fit solves for the coefficients of target ≈ intercept + features·weights.
// It needs at least as many rows as coefficients; collinear features make the
// plain OLS system singular and are reported as a training failure rather
// than a silent bad fit.
func (l *Linear) Fit(ctx context.Context, features [][]float64, target []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkTrainingData(features, target); err != nil {
		return err
	}

	rows := len(features)
	cols := len(features[0]) + 1 // Intercept column plus one per feature.

	if rows < cols {
		return fmt.Errorf("%d rows cannot determine %d coefficients", rows, cols)
	}

	design := mat.NewDense(rows, cols, nil)
	for i, row := range features {
		design.Set(i, 0, 1)

		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	y := mat.NewVecDense(rows, append([]float64(nil), target...))

	var beta mat.VecDense

	if l.config.Ridge == 0 {
		// QR-backed least squares.
		if err := beta.SolveVec(design, y); err != nil {
			return fmt.Errorf("least-squares solve: %w", err)
		}
	} else {
		// Penalized normal equations: (XᵀX + λD)β = Xᵀy with D zero on the
		// intercept diagonal entry.
		var gram mat.Dense
		gram.Mul(design.T(), design)

		for j := 1; j < cols; j++ {
			gram.Set(j, j, gram.At(j, j)+l.config.Ridge)
		}

		var xty mat.VecDense
		xty.MulVec(design.T(), y)

		if err := beta.SolveVec(&gram, &xty); err != nil {
			return fmt.Errorf("ridge solve: %w", err)
		}
	}

	l.coef = make([]float64, cols)
	for j := range l.coef {
		l.coef[j] = beta.AtVec(j)
	}

	l.fitted = true

	return nil
}

// Predict implements Regressor.
func (l *Linear) Predict(features []float64) (float64, error) {
	if !l.fitted {
		return 0, ErrNotFitted
	}

	if len(features)+1 != len(l.coef) {
		return 0, fmt.Errorf("got %d features, model was fitted on %d",
			len(features), len(l.coef)-1)
	}

	pred := l.coef[0]
	for j, v := range features {
		pred += l.coef[j+1] * v
	}

	return pred, nil
}

// Coefficients returns the fitted intercept and per-feature weights.
func (l *Linear) Coefficients() (intercept float64, weights []float64, err error) {
	if !l.fitted {
		return 0, nil, ErrNotFitted
	}

	return l.coef[0], append([]float64(nil), l.coef[1:]...), nil
}
