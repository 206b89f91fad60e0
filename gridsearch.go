package gridsearch

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

//////
// Exported functionalities.
//////

// DefaultConfig returns a configuration for a sequential search (one worker,
// disabled logger, no progress updates) over the given grid and dataset
// split. Adjust fields as needed before calling Search.
func DefaultConfig[D any](grid Grid, trainSet, evalSet D) Config[D] {
	return Config[D]{
		Grid:         grid,
		TrainSet:     trainSet,
		EvalSet:      evalSet,
		Workers:      1,
		Logger:       zerolog.Nop(),
		ProgressChan: nil, // Default to no progress updates.
	}
}

// Search exhaustively evaluates every combination in the grid: one model is
// trained per combination via trainFn and scored on the held-out set via
// evalFn, and the combination with the lowest score wins. The full results
// table is returned alongside the winner.
//
// Type Parameters:
//   - D: The dataset type shared read-only by all trials
//   - M: The model type produced by training
//
// Parameters:
// - ctx: Cancels the search between trials; in-flight trials finish first
// - config: Grid, dataset split and execution settings (see Config)
// - trainFn: Trains one model for one combination
// - evalFn: Scores a trained model (lower is better)
//
// Returns:
// - *Report: Results in enumeration order plus the best trial
// - error: ErrEmptyGrid, ErrAllTrialsFailed, or the context error
//
// Usage example:
//
//	grid := gridsearch.Grid{
//	    "max_depth": gridsearch.Ints(3, 6, 9),
//	    "eta":       gridsearch.Floats(0.01, 0.1, 0.3),
//	}
//
//	trainFn := func(ctx context.Context, params gridsearch.Combination, train *Split) (*Model, error) {
//	    return fitBooster(train, params.Int("max_depth", 6), params.Float("eta", 0.3))
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
//	    return err
//	}
//	fmt.Println(report.Best.Params, report.Best.Score)
//
// How it works:
//  1. Validates the grid and enumerates the full Cartesian product in a
//     fixed, reproducible order (see Grid)
//  2. Dispatches trial indexes in enumeration order to a pool of
//     config.Workers goroutines
//  3. Each trial trains, then evaluates, and records its outcome — including
//     failures — as an immutable TrialResult in its enumeration slot
//  4. After the pool drains, a single scan selects the minimum score among
//     successful trials, keeping the earliest-enumerated on ties
//
// Failure policy:
// - A failing trainFn or evalFn marks only that trial as failed; the search
//   continues with the remaining combinations
// - ErrAllTrialsFailed is returned (with the full Report) when every
//   combination failed, so callers cannot mistake it for a zero-error best
//
// Cancellation:
// - Cancelling ctx stops dispatching; trials already handed to workers run
//   to completion, so the returned partial Report always covers a contiguous
//   prefix of the enumeration with a valid best-so-far
//
// Important notes:
// - Deterministic: identical grid and deterministic trainFn/evalFn yield an
//   identical results sequence and identical best at any worker count;
//   concurrency affects wall-clock time only
// - The driver owns no long-lived state and introduces no hidden globals;
//   seeding for reproducible training belongs in the trainFn closure
// - TrainSet/EvalSet are shared without locking and must not be mutated by
//   the trial functions.
func Search[D, M any](
	ctx context.Context,
	config Config[D],
	trainFn TrainFunc[D, M],
	evalFn EvalFunc[D, M],
) (*Report, error) {
	combos, err := config.Grid.Combinations()
	if err != nil {
		return nil, err
	}

	total := len(combos)

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	runID := config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := config.Logger.With().Str("run_id", runID).Logger()

	logger.Info().
		Int("combinations", total).
		Int("workers", workers).
		Msg("starting grid search")

	// results is index-addressed: each worker writes its trial into the
	// trial's enumeration slot, so the final sequence is in enumeration
	// order no matter the completion order.
	results := make([]TrialResult, total)

	// Best-so-far tracking feeds progress updates only. The authoritative
	// best in the Report comes from a deterministic scan after the pool
	// drains.
	var (
		bestMu     sync.Mutex
		completed  int
		bestIndex  = -1
		bestScore  = math.Inf(1)
		bestParams Combination
	)

	// sendProgress folds a finished trial into the best-so-far state and
	// emits a ProgressUpdate without ever blocking on a slow consumer.
	sendProgress := func(res TrialResult) {
		bestMu.Lock()

		completed++

		// A NaN score with a nil error never becomes best; see BestSoFar.
		if !res.Failed() && !math.IsNaN(res.Score) {
			// Prefer the lower enumeration index on ties so progress agrees
			// with the final tie-break.
			if bestIndex == -1 || res.Score < bestScore ||
				(res.Score == bestScore && res.Index < bestIndex) {
				bestIndex = res.Index
				bestScore = res.Score
				bestParams = res.Params
			}
		}

		update := ProgressUpdate{
			Completed:  completed,
			Total:      total,
			Trial:      res,
			BestIndex:  bestIndex,
			BestScore:  bestScore,
			BestParams: bestParams,
		}

		bestMu.Unlock()

		if config.ProgressChan != nil {
			select {
			case config.ProgressChan <- update:
			default:
				// Skip the update if the channel is full.
			}
		}
	}

	start := time.Now()

	// Unbuffered on purpose: an index is handed over only when a worker is
	// ready to run it, and every handed-over trial runs to completion. The
	// completed set after a cancellation is therefore always a contiguous
	// prefix of the enumeration.
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				res := runTrial(ctx, idx, combos[idx], config, trainFn, evalFn)
				results[idx] = res

				if res.Failed() {
					logger.Warn().
						Int("trial", idx).
						Stringer("params", res.Params).
						Err(res.Err).
						Msg("trial failed")
				} else {
					logger.Debug().
						Int("trial", idx).
						Stringer("params", res.Params).
						Float64("score", res.Score).
						Dur("duration", res.Duration).
						Msg("trial complete")
				}

				sendProgress(res)
			}
		}()
	}

	// Dispatch indexes in enumeration order, checking for cancellation
	// between trials.
	dispatched := 0

dispatch:
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}

		select {
		case jobs <- i:
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}

	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)

	// A cancellation that arrived after the last dispatch cut nothing short;
	// only an actually truncated search is reported as cancelled.
	if err := ctx.Err(); err != nil && dispatched < total {
		report := newReport(runID, results[:dispatched], elapsed)

		logger.Warn().
			Int("completed", report.Completed).
			Int("combinations", total).
			Msg("search cancelled, returning partial results")

		return report, fmt.Errorf("search cancelled after %d of %d trials: %w", dispatched, total, err)
	}

	report := newReport(runID, results, elapsed)

	if report.Best == nil {
		logger.Error().
			Int("failed", report.Failed).
			Msg("no viable combination found")

		return report, fmt.Errorf("%d of %d trials failed: %w", report.Failed, total, ErrAllTrialsFailed)
	}

	logger.Info().
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Stringer("best_params", report.Best.Params).
		Float64("best_score", report.Best.Score).
		Dur("elapsed", elapsed).
		Msg("grid search complete")

	return report, nil
}
