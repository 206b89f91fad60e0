package gridsearch

import (
	"fmt"
	"sort"
)

//////
// Const, vars, types.
//////

// Grid is the search space: a mapping from parameter name to a non-empty
// ordered list of candidate values. The grid enumerates to the full Cartesian
// product of its candidate lists, in a fixed, reproducible order.
//
// Enumeration order:
//   - Parameter names are sorted lexicographically.
//   - The product is walked odometer-style with the last sorted name varying
//     fastest, each axis in its candidate list order.
//
// So Grid{"a": Ints(1, 2), "b": Ints(10, 20)} enumerates
// (a=1,b=10), (a=1,b=20), (a=2,b=10), (a=2,b=20). The order is what makes
// searches reproducible and gives the tie-break rule ("earliest enumerated
// wins") a stable meaning.
//
// Usage example:
//
//	grid := gridsearch.Grid{
//	    "max_depth":    gridsearch.Ints(3, 6, 9),
//	    "eta":          gridsearch.Floats(0.01, 0.1, 0.3),
//	    "n_estimators": gridsearch.Ints(50, 100, 200),
//	}
//	combos, err := grid.Combinations() // 27 combinations
type Grid map[string][]Value

//////
// Methods.
//////

// Names returns the parameter names in lexicographic order — the enumeration
// order of the grid's axes.
func (g Grid) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Size returns the number of combinations the grid enumerates to: the
// product of the candidate counts of every parameter. An empty grid or any
// empty candidate list yields 0.
func (g Grid) Size() int {
	if len(g) == 0 {
		return 0
	}

	size := 1
	for _, values := range g {
		size *= len(values)
	}

	return size
}

// Validate checks that the grid produces at least one combination. It
// returns an error wrapping ErrEmptyGrid naming the offending parameter when
// a candidate list is empty, or ErrEmptyGrid itself when the grid has no
// parameters.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("grid has no parameters: %w", ErrEmptyGrid)
	}

	for _, name := range g.Names() {
		if len(g[name]) == 0 {
			return fmt.Errorf("parameter %q has an empty candidate list: %w", name, ErrEmptyGrid)
		}
	}

	return nil
}

// Combinations enumerates the full Cartesian product in the fixed order
// documented on Grid. Each returned Combination is an independent immutable
// snapshot; mutating the grid afterwards does not affect them.
//
// Returns an error wrapping ErrEmptyGrid when the grid produces no
// combinations.
func (g Grid) Combinations() ([]Combination, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	names := g.Names()
	combos := make([]Combination, 0, g.Size())

	// Odometer walk: indexes[i] selects the candidate for names[i]; the last
	// position increments first and carries leftwards on overflow.
	indexes := make([]int, len(names))

	for {
		values := make(map[string]Value, len(names))
		for i, name := range names {
			values[name] = g[name][indexes[i]]
		}

		combos = append(combos, Combination{values: values})

		pos := len(indexes) - 1
		for pos >= 0 {
			indexes[pos]++
			if indexes[pos] < len(g[names[pos]]) {
				break
			}

			indexes[pos] = 0
			pos--
		}

		if pos < 0 {
			break
		}
	}

	return combos, nil
}
