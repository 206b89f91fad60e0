package gridsearch

import (
	"context"
	"math"
	"time"
)

//////
// Helper functions.
//////

// runTrial runs one train-then-evaluate cycle and packages the outcome as an
// immutable TrialResult, timing the full cycle.
//
// Parameters:
// - ctx: The search context, passed through to the trial functions
// - index: The combination's enumeration position
// - params: The combination to run
// - config: Supplies the shared train and eval sets
// - trainFn, evalFn: The injected trial functions
//
// Returns:
// - TrialResult: Success with a score, or a failure carrying a *TrialError
//
// Important notes:
// - Failures are recorded, never propagated: one bad combination must not
//   abort the grid
// - A failed trial's Score is NaN and is excluded from the best-score scan
// - Duration covers training plus evaluation, including a failed stage
//
// Thread safety:
// - Safe for concurrent calls as long as trainFn/evalFn do not mutate the
//   shared sets; the driver guarantees each index is run exactly once.
func runTrial[D, M any](
	ctx context.Context,
	index int,
	params Combination,
	config Config[D],
	trainFn TrainFunc[D, M],
	evalFn EvalFunc[D, M],
) TrialResult {
	start := time.Now()

	model, err := trainFn(ctx, params, config.TrainSet)
	if err != nil {
		return TrialResult{
			Index:    index,
			Params:   params,
			Score:    math.NaN(),
			Err:      &TrialError{Stage: StageTrain, Params: params, Cause: err},
			Duration: time.Since(start),
		}
	}

	score, err := evalFn(ctx, model, config.EvalSet)
	if err != nil {
		return TrialResult{
			Index:    index,
			Params:   params,
			Score:    math.NaN(),
			Err:      &TrialError{Stage: StageEval, Params: params, Cause: err},
			Duration: time.Since(start),
		}
	}

	return TrialResult{
		Index:    index,
		Params:   params,
		Score:    score,
		Duration: time.Since(start),
	}
}

// newReport assembles the immutable Report for a (possibly partial) results
// slice: failure count, then the deterministic best scan.
func newReport(runID string, results []TrialResult, elapsed time.Duration) *Report {
	report := &Report{
		RunID:     runID,
		Results:   results,
		Completed: len(results),
		Elapsed:   elapsed,
	}

	for i := range results {
		if results[i].Failed() {
			report.Failed++
		}
	}

	report.Best = report.BestSoFar()

	return report
}
