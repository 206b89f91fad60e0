package gridsearch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/constraints"
)

//////
// Const, vars, types.
//////

var (
	// ErrEmptyGrid is returned when a grid produces zero combinations, either
	// because it has no parameters at all or because some parameter has an
	// empty candidate list. The search fails fast before any training runs.
	ErrEmptyGrid = errors.New("grid produces no combinations")

	// ErrAllTrialsFailed is returned when every combination in the grid was
	// attempted and every one of them failed. It is reported distinctly from
	// a successful search so callers cannot mistake "no viable combination"
	// for "best has zero error". The Report returned alongside this error
	// still carries the per-trial failures.
	ErrAllTrialsFailed = errors.New("all trials failed")
)

// Kind identifies the concrete type held by a Value.
type Kind int

// Supported value kinds. Grids are heterogeneous: one parameter may hold
// integers (tree depth), another floats (learning rate), another enumerated
// strings (weighting scheme) or booleans (feature toggles).
const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is one candidate hyperparameter value, represented as a tagged union
// so grids can mix value types while remaining validatable before any
// training function runs.
//
// Construct values with the Int, Float, String and Bool constructors (or
// their bulk Ints/Floats/Strings/Bools counterparts when building candidate
// lists). The zero Value is an int with value 0.
//
// Usage example:
//
//	grid := gridsearch.Grid{
//	    "max_depth": gridsearch.Ints(3, 6, 9),
//	    "eta":       gridsearch.Floats(0.01, 0.1, 0.3),
//	    "weighting": gridsearch.Strings("uniform", "distance"),
//	}
//
// Important notes:
// - Values are immutable; accessors return copies
// - Int and Float kinds do not compare equal even for the same number
// - Use the typed accessors (Int, Float, Str, Bool) to extract the payload.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Int wraps an integer as a Value.
func Int[T constraints.Integer](v T) Value {
	return Value{kind: KindInt, i: int64(v)}
}

// Float wraps a floating-point number as a Value.
func Float[T constraints.Float](v T) Value {
	return Value{kind: KindFloat, f: float64(v)}
}

// String wraps a string as a Value.
func String(v string) Value {
	return Value{kind: KindString, s: v}
}

// Bool wraps a boolean as a Value.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Ints builds a candidate list from integer values, preserving order.
func Ints[T constraints.Integer](vs ...T) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Int(v)
	}

	return out
}

// Floats builds a candidate list from floating-point values, preserving order.
func Floats[T constraints.Float](vs ...T) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}

	return out
}

// Strings builds a candidate list from string values, preserving order.
func Strings(vs ...string) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = String(v)
	}

	return out
}

// Bools builds a candidate list from boolean values, preserving order.
func Bools(vs ...bool) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Bool(v)
	}

	return out
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload. ok is false when the value is not an int.
func (v Value) Int() (value int64, ok bool) { return v.i, v.kind == KindInt }

// Float returns the float payload. ok is false when the value is not a float.
// Integer values are not promoted here; see Combination.Float for a getter
// that promotes.
func (v Value) Float() (value float64, ok bool) { return v.f, v.kind == KindFloat }

// Str returns the string payload. ok is false when the value is not a string.
func (v Value) Str() (value string, ok bool) { return v.s, v.kind == KindString }

// Bool returns the boolean payload. ok is false when the value is not a bool.
func (v Value) Bool() (value bool, ok bool) { return v.b, v.kind == KindBool }

// Any returns the payload as an untyped interface value (int64, float64,
// string or bool). Intended for serialization surfaces.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	default:
		return false
	}
}

// String renders the payload without its kind tag, e.g. "3", "0.1", "true".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "?"
	}
}

// Combination is one concrete assignment of a value to every parameter in a
// grid — a single point of the Cartesian product. Combinations are immutable
// once generated: the constructor copies its input and accessors never expose
// the internal map.
//
// Typed getters return a caller-supplied default when the parameter is absent
// or has a different kind, so training functions can read hyperparameters
// without boilerplate:
//
//	depth := params.Int("max_depth", 6)
//	eta := params.Float("eta", 0.3)
//	scheme := params.Str("weighting", "uniform")
type Combination struct {
	values map[string]Value
}

// NewCombination builds a combination from a name→value map. The map is
// copied; later mutations of the argument do not affect the combination.
func NewCombination(values map[string]Value) Combination {
	copied := make(map[string]Value, len(values))
	for name, v := range values {
		copied[name] = v
	}

	return Combination{values: copied}
}

// Len returns the number of parameters in the combination.
func (c Combination) Len() int { return len(c.values) }

// Names returns the parameter names in lexicographic order.
func (c Combination) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Value returns the raw tagged value for a parameter.
func (c Combination) Value(name string) (Value, bool) {
	v, ok := c.values[name]

	return v, ok
}

// Int returns the integer value of a parameter, or def when the parameter is
// absent or not an integer.
func (c Combination) Int(name string, def int64) int64 {
	if v, ok := c.values[name]; ok {
		if i, ok := v.Int(); ok {
			return i
		}
	}

	return def
}

// Float returns the float value of a parameter, or def when the parameter is
// absent or not numeric. Integer values are promoted to float64, so a grid
// axis written as Ints(0, 1, 2) still satisfies a float hyperparameter.
func (c Combination) Float(name string, def float64) float64 {
	if v, ok := c.values[name]; ok {
		if f, ok := v.Float(); ok {
			return f
		}

		if i, ok := v.Int(); ok {
			return float64(i)
		}
	}

	return def
}

// Str returns the string value of a parameter, or def when the parameter is
// absent or not a string.
func (c Combination) Str(name string, def string) string {
	if v, ok := c.values[name]; ok {
		if s, ok := v.Str(); ok {
			return s
		}
	}

	return def
}

// Bool returns the boolean value of a parameter, or def when the parameter is
// absent or not a boolean.
func (c Combination) Bool(name string, def bool) bool {
	if v, ok := c.values[name]; ok {
		if b, ok := v.Bool(); ok {
			return b
		}
	}

	return def
}

// Map returns the combination as a name→payload map with untyped values.
// Intended for serialization surfaces; the returned map is a fresh copy.
func (c Combination) Map() map[string]any {
	out := make(map[string]any, len(c.values))
	for name, v := range c.values {
		out[name] = v.Any()
	}

	return out
}

// String renders the combination deterministically as "a=1, b=0.1" with
// parameter names in lexicographic order.
func (c Combination) String() string {
	var sb strings.Builder

	for i, name := range c.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(c.values[name].String())
	}

	return sb.String()
}

// Stage identifies which half of a trial failed.
type Stage string

// Trial stages.
const (
	StageTrain Stage = "train"
	StageEval  Stage = "eval"
)

// TrialError records the failure of a single trial: which stage broke, for
// which combination, and the underlying cause. It unwraps to the cause so
// callers can errors.Is/errors.As through it.
type TrialError struct {
	// Stage is the half of the trial that failed (train or eval).
	Stage Stage

	// Params is the combination the trial was running.
	Params Combination

	// Cause is the error returned by the training or evaluation function.
	Cause error
}

// Error implements the error interface.
func (e *TrialError) Error() string {
	return fmt.Sprintf("%s failed for combination (%s): %v", e.Stage, e.Params, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TrialError) Unwrap() error { return e.Cause }

// TrialResult is the immutable record of one train-then-evaluate cycle.
// Exactly one result exists per enumerated combination; results are retained
// only inside the Report unless the caller persists them.
type TrialResult struct {
	// Index is the combination's position in the grid enumeration order.
	// It is the tie-break key: on equal scores the lower index wins.
	Index int

	// Params is the combination this trial ran.
	Params Combination

	// Score is the evaluation score (lower is better). NaN when the trial
	// failed; failed trials are excluded from the best-score scan.
	Score float64

	// Err is nil on success, or a *TrialError describing the failure.
	Err error

	// Duration covers training plus evaluation for this trial.
	Duration time.Duration
}

// Failed reports whether the trial failed in either stage.
func (t TrialResult) Failed() bool { return t.Err != nil }

// Report is the self-contained, immutable outcome of one search invocation.
// The driver owns no state beyond it: re-running a search produces a fresh
// Report rather than mutating anything shared.
type Report struct {
	// RunID identifies this search invocation. Generated when the caller
	// did not set one on the Config.
	RunID string

	// Results holds one TrialResult per attempted combination, in grid
	// enumeration order regardless of the completion order under
	// concurrency. After a cancelled search this is the contiguous prefix
	// of the enumeration that completed.
	Results []TrialResult

	// Best points at the winning entry inside Results: the minimum score
	// among trials that did not fail, earliest enumerated on ties. Nil when
	// no trial succeeded.
	Best *TrialResult

	// Completed is the number of trials attempted (successes + failures).
	Completed int

	// Failed is the number of trials that recorded an error.
	Failed int

	// Elapsed is the wall-clock duration of the whole search.
	Elapsed time.Duration
}

// BestSoFar scans Results for the best successful trial: minimum score,
// earliest enumerated on ties. It returns nil when no trial succeeded.
// Useful on partial reports after cancellation; Search uses the same scan to
// fill Report.Best.
func (r *Report) BestSoFar() *TrialResult {
	var best *TrialResult

	for i := range r.Results {
		t := &r.Results[i]

		// A NaN score with a nil error is as unusable as a failure: it can
		// never compare below anything, so it must never become best.
		if t.Failed() || math.IsNaN(t.Score) {
			continue
		}

		// Strict less-than keeps the earliest-enumerated on ties.
		if best == nil || t.Score < best.Score {
			best = t
		}
	}

	return best
}

// ProgressUpdate is a per-trial notification emitted while the search runs.
// Updates arrive in completion order, which under concurrency is not the
// enumeration order; the final Report is always in enumeration order.
type ProgressUpdate struct {
	// Completed is the number of trials finished so far, this one included.
	Completed int

	// Total is the grid size.
	Total int

	// Trial is the trial that just finished.
	Trial TrialResult

	// BestIndex is the enumeration index of the best successful trial among
	// those completed so far, or -1 when none has succeeded yet.
	BestIndex int

	// BestScore is the score at BestIndex. +Inf when none has succeeded yet.
	BestScore float64

	// BestParams is the combination at BestIndex. Zero when none has
	// succeeded yet.
	BestParams Combination
}

// TrainFunc trains one model for one combination on the shared training set.
// It is opaque to the driver; any failure (a nonsensical parameter value for
// the dataset size, say) aborts only that trial, never the search.
//
// Type Parameters:
//   - D: the dataset type shared read-only across trials
//   - M: the model type produced by training
//
// The context is the search context: implementations may honor it to stop
// early, but the driver itself only checks it between trials. The training
// set must not be mutated in place — it is shared across concurrent trials
// without locking. Determinism (fixed random seeds and the like) is the
// caller's responsibility, carried in the closure, not managed by the driver.
type TrainFunc[D, M any] func(ctx context.Context, params Combination, trainSet D) (M, error)

// EvalFunc scores a trained model on the shared evaluation set. Lower is
// better; the driver never inverts or transforms the score. The evaluation
// set is only ever passed to EvalFunc, never to TrainFunc.
type EvalFunc[D, M any] func(ctx context.Context, model M, evalSet D) (float64, error)

// Config carries everything one search invocation needs. Start from
// DefaultConfig and adjust fields as needed.
//
// Type Parameter:
//   - D: the dataset type handed to the training and evaluation functions
//
// Usage example:
//
//	config := gridsearch.DefaultConfig(grid, trainSet, evalSet)
//	config.Workers = 4
//	report, err := gridsearch.Search(ctx, config, trainFn, evalFn)
type Config[D any] struct {
	// Grid is the search space: parameter name → non-empty ordered candidate
	// list. Validated before any training runs.
	Grid Grid

	// TrainSet is handed to every TrainFunc call. Shared read-only across
	// concurrent trials.
	TrainSet D

	// EvalSet is handed to every EvalFunc call and never to TrainFunc.
	// Shared read-only across concurrent trials.
	EvalSet D

	// Workers bounds the number of trials running at once. Values below 1
	// are treated as 1 (sequential). The cap is deliberately configurable
	// rather than auto-detected: if the training routine spawns its own
	// internal thread pool, oversubscription is avoided by reducing this,
	// not by the driver guessing.
	Workers int

	// RunID identifies the search in logs and the Report. A fresh UUID is
	// generated when empty.
	RunID string

	// Logger receives structured search events. DefaultConfig sets a
	// disabled logger; pass a real one to observe trial progress.
	Logger zerolog.Logger

	// ProgressChan receives one ProgressUpdate per finished trial when
	// non-nil. Sends are non-blocking: a slow consumer drops updates rather
	// than stalling the search.
	ProgressChan chan<- ProgressUpdate
}
