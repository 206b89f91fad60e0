// Package gridsearch provides exhaustive hyperparameter search over a fixed
// grid of candidate values. It trains one model per combination through an
// injected training function, scores each on a held-out set through an
// injected evaluation function, and returns the full results table together
// with the best combination found.
//
// # Features
//
// The package includes the following key features:
//
//   - Exhaustive Enumeration: The full Cartesian product of every parameter's
//     candidate list, walked in a fixed, reproducible order
//   - Generic Driver: Works with any dataset and model type via type
//     parameters; the driver never inspects either
//   - Tagged Values: Heterogeneous grids mixing integer, float, string and
//     boolean hyperparameters, validatable before any training runs
//   - Bounded Concurrency: A configurable worker pool runs independent trials
//     in parallel while preserving the enumeration order of results
//   - Deterministic Outcome: Identical inputs yield an identical results
//     sequence and an identical best at any worker count; score ties break
//     to the earliest-enumerated combination
//   - Failure Isolation: A combination that fails to train or evaluate is
//     recorded and skipped; one bad combination never aborts the search
//   - Cooperative Cancellation: Cancelling the context between trials yields
//     a valid partial report covering a contiguous prefix of the enumeration
//   - Progress Monitoring: Per-trial updates via an optional channel with
//     non-blocking sends
//   - Structured Logging: zerolog events for run start, per-trial outcomes
//     and the final summary
//
// # Basic usage
//
// Define a grid, a training function and an evaluation function, then run
// the search:
//
//	grid := gridsearch.Grid{
//	    "max_depth": gridsearch.Ints(3, 6, 9),
//	    "eta":       gridsearch.Floats(0.01, 0.1, 0.3),
//	}
//
//	trainFn := func(ctx context.Context, params gridsearch.Combination, train *Split) (*Model, error) {
//	    return fit(train, params.Int("max_depth", 6), params.Float("eta", 0.3))
//	}
//
//	evalFn := func(ctx context.Context, model *Model, eval *Split) (float64, error) {
//	    return rmse(eval.Target, model.Predict(eval.Features))
//	}
//
//	config := gridsearch.DefaultConfig(grid, trainSplit, evalSplit)
//	config.Workers = 4
//
//	report, err := gridsearch.Search(ctx, config, trainFn, evalFn)
//	if err != nil {
//	    // ErrEmptyGrid: the grid enumerates to nothing - nothing ran.
//	    // ErrAllTrialsFailed: every combination failed - inspect report.Results.
//	    // Context errors: partial report with a valid best-so-far.
//	    return err
//	}
//
//	fmt.Println(report.Best.Params, report.Best.Score)
//
// # Scores
//
// Lower is always better. The driver never inverts or transforms scores; to
// maximize a quantity, return its negation from the evaluation function.
// Failed trials carry a NaN score and are excluded from the best scan.
//
// # Concurrency
//
// Trials are embarrassingly parallel: no trial reads another trial's model or
// score, and the train and eval sets are shared read-only. Config.Workers
// bounds the pool; size it to the machine, and reduce it when the training
// routine spawns its own internal thread pool. Results are written into
// enumeration-order slots, so concurrency affects wall-clock time, not output
// ordering or the tie-break rule.
//
// # Subpackages
//
// The companion packages cover the rest of a small modeling workflow:
// dataset (CSV tables, random and partition-based splits, summaries),
// metrics (MAPE, RMSE, MAE, R²), and models (baseline regressors wired for
// grid search). The cmd/gridsearch CLI drives them from a YAML experiment
// file.
package gridsearch
