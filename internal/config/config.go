// Package config loads and validates the experiment file the gridsearch CLI
// runs from: dataset location and columns, the train/test split, the model
// and its hyperparameter grid, search settings, and report output.
//
// Configuration is layered, highest precedence last: built-in defaults, then
// an optional YAML file, then GRIDSEARCH_* environment variables. The merged
// result is validated before any data is touched, so a bad experiment fails
// before a long search starts rather than halfway through it.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/thalesfsp/gridsearch"
)

// EnvPrefix is the prefix of environment variables that override file and
// default settings, e.g. GRIDSEARCH_MODEL_NAME=knn.
const EnvPrefix = "GRIDSEARCH_"

// Split kinds accepted by SplitConfig.Kind.
const (
	SplitRandom  = "random"
	SplitSpatial = "spatial"
)

// Experiment is the full configuration of one CLI invocation. It is immutable
// after Load and safe to share across goroutines.
type Experiment struct {
	Dataset DatasetConfig `koanf:"dataset"`
	Split   SplitConfig   `koanf:"split"`
	Model   ModelConfig   `koanf:"model"`
	Search  SearchConfig  `koanf:"search"`
	Report  ReportConfig  `koanf:"report"`
}

// DatasetConfig locates the CSV file and names its columns.
type DatasetConfig struct {
	// Path is the CSV file with a header row.
	Path string `koanf:"path" validate:"required"`

	// Target is the numeric column the models predict.
	Target string `koanf:"target" validate:"required"`

	// Features are the numeric columns the models predict from. From the
	// environment this is a comma-separated list.
	Features []string `koanf:"features" validate:"min=1,dive,required"`
}

// SplitConfig controls how rows divide into a training and an evaluation set.
type SplitConfig struct {
	// Kind selects the split strategy: "random" holds out a seeded random
	// fraction of rows; "spatial" holds out whole partitions so evaluation
	// rows never sit next to training rows.
	Kind string `koanf:"kind" validate:"required,oneof=random spatial"`

	// TestFraction is the share of rows a random split holds out.
	// Default: 0.2.
	TestFraction float64 `koanf:"test_fraction" validate:"gt=0,lt=1"`

	// Seed makes a random split reproducible. Default: 42.
	Seed int64 `koanf:"seed"`

	// PartitionColumn names the label column a spatial split groups by.
	// Required when Kind is "spatial".
	PartitionColumn string `koanf:"partition_column"`

	// Holdout lists the partition labels forming the evaluation set. From
	// the environment this is a comma-separated list.
	Holdout []string `koanf:"holdout"`
}

// ModelConfig selects the model and its hyperparameter grid.
type ModelConfig struct {
	// Name is the model to tune: mean, linear, knn or gp.
	Name string `koanf:"name" validate:"required,oneof=mean linear knn gp"`

	// Grid maps hyperparameter names to candidate lists as written in YAML.
	// Candidates keep their YAML types: whole numbers become integer
	// candidates, decimals floats, and quoted values strings. See Grid.
	Grid map[string][]any `koanf:"grid"`
}

// SearchConfig controls the search execution.
type SearchConfig struct {
	// Metric scores trials: mape, rmse or mae (lower is better).
	// Default: rmse.
	Metric string `koanf:"metric" validate:"required,oneof=mape rmse mae"`

	// Workers bounds how many trials run at once. Default: 1 (sequential).
	Workers int `koanf:"workers" validate:"min=1"`

	// RunID labels the run in logs and reports; autogenerated when empty.
	RunID string `koanf:"run_id"`
}

// ReportConfig controls how results are rendered.
type ReportConfig struct {
	// Format is the output format: table, markdown or json. Default: table.
	Format string `koanf:"format" validate:"required,oneof=table markdown json"`

	// PlotDir, when set, receives scatter PNGs (explore: each feature
	// against the target; run: predicted against observed for the best
	// combination).
	PlotDir string `koanf:"plot_dir"`
}

// Default returns the experiment defaults: a seeded 80/20 random split, the
// linear model, RMSE scoring, a sequential search, and table output. The
// dataset section has no default and must come from the file or environment.
func Default() *Experiment {
	return &Experiment{
		Split: SplitConfig{
			Kind:         SplitRandom,
			TestFraction: 0.2,
			Seed:         42,
		},
		Model: ModelConfig{
			Name: "linear",
		},
		Search: SearchConfig{
			Metric:  "rmse",
			Workers: 1,
		},
		Report: ReportConfig{
			Format: "table",
		},
	}
}

// Load builds the experiment configuration by layering, lowest precedence
// first: Default, the YAML file at path, and GRIDSEARCH_* environment
// variables. An empty path skips the file layer (environment-only
// configuration); a non-empty path must name an existing file.
func Load(path string) (*Experiment, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading experiment file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToPath), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := splitListValues(k); err != nil {
		return nil, err
	}

	exp := &Experiment{}
	if err := k.Unmarshal("", exp); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return exp, nil
}

// Validate checks the struct tags, then the cross-field rules a tag cannot
// express. The first violation is returned with the offending field named.
func (e *Experiment) Validate() error {
	if err := newValidator().Struct(e); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return fmt.Errorf("%s %s", fields[0].Namespace(), describeViolation(fields[0]))
		}

		return err
	}

	for _, feature := range e.Dataset.Features {
		if feature == e.Dataset.Target {
			return fmt.Errorf("target column %q cannot also be a feature", e.Dataset.Target)
		}
	}

	if e.Split.Kind == SplitSpatial {
		if e.Split.PartitionColumn == "" {
			return errors.New("split.partition_column is required for a spatial split")
		}

		if len(e.Split.Holdout) == 0 {
			return errors.New("split.holdout needs at least one partition label for a spatial split")
		}
	}

	return nil
}

// Grid converts the raw YAML grid into a typed search grid. Whole numbers
// become integer candidates, decimals floats, booleans and strings their own
// kinds; anything else (nested lists, nulls) is rejected with the parameter
// and candidate position named.
func (e *Experiment) Grid() (gridsearch.Grid, error) {
	grid := make(gridsearch.Grid, len(e.Model.Grid))

	for name, raw := range e.Model.Grid {
		values := make([]gridsearch.Value, len(raw))

		for i, v := range raw {
			value, err := gridValue(v)
			if err != nil {
				return nil, fmt.Errorf("grid parameter %q, candidate %d: %w", name, i, err)
			}

			values[i] = value
		}

		grid[name] = values
	}

	return grid, nil
}

// envMappings routes environment variables (prefix stripped, lowercased) to
// config paths. Unmapped variables are ignored rather than merged, so a stray
// GRIDSEARCH_* variable cannot pollute the configuration.
var envMappings = map[string]string{
	"dataset_path":           "dataset.path",
	"dataset_target":         "dataset.target",
	"dataset_features":       "dataset.features",
	"split_kind":             "split.kind",
	"split_test_fraction":    "split.test_fraction",
	"split_seed":             "split.seed",
	"split_partition_column": "split.partition_column",
	"split_holdout":          "split.holdout",
	"model_name":             "model.name",
	"search_metric":          "search.metric",
	"search_workers":         "search.workers",
	"search_run_id":          "search.run_id",
	"report_format":          "report.format",
	"report_plot_dir":        "report.plot_dir",
}

// envToPath maps one environment variable name to its config path, or ""
// to skip it.
func envToPath(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}

// listConfigPaths are the config paths holding string lists; environment
// overrides supply them as comma-separated values.
var listConfigPaths = []string{
	"dataset.features",
	"split.holdout",
}

// splitListValues converts comma-separated strings into slices for the known
// list paths. Values that already arrived as lists (from YAML) pass through.
func splitListValues(k *koanf.Koanf) error {
	for _, path := range listConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}

		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))

		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}

		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("setting %s: %w", path, err)
		}
	}

	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// newValidator returns the package validator, built once. The validator
// caches struct metadata, so sharing one instance keeps repeated Validate
// calls cheap.
func newValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// describeViolation turns a field error into a short human-readable clause.
func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entries", fe.Param())
		}

		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// gridValue converts one YAML candidate into a tagged search value.
func gridValue(v any) (gridsearch.Value, error) {
	switch x := v.(type) {
	case int:
		return gridsearch.Int(x), nil
	case int64:
		return gridsearch.Int(x), nil
	case float64:
		return gridsearch.Float(x), nil
	case bool:
		return gridsearch.Bool(x), nil
	case string:
		return gridsearch.String(x), nil
	default:
		return gridsearch.Value{}, fmt.Errorf("unsupported candidate type %T", v)
	}
}
