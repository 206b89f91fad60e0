package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

//////
// Exported functionalities.
//////

// SplitRandom shuffles the rows with the given seed and holds out testFraction
// of them as the evaluation table. The split is deterministic for a fixed
// seed. At least one row lands on each side; tables with fewer than two rows
// cannot be split.
//
// This is the naive split: evaluation rows may be arbitrarily close (in
// space, time, or anything else) to training rows. Use SplitByPartition when
// leakage through proximity matters.
func (t *Table) SplitRandom(testFraction float64, seed int64) (train, test *Table, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v outside (0,1)", testFraction)
	}

	n := t.Len()
	if n < 2 {
		return nil, nil, fmt.Errorf("cannot split %d rows", n)
	}

	testCount := int(math.Round(testFraction * float64(n)))
	if testCount < 1 {
		testCount = 1
	}

	if testCount > n-1 {
		testCount = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testRows := append([]int(nil), perm[:testCount]...)
	trainRows := append([]int(nil), perm[testCount:]...)

	// Keep file order within each side so splits read naturally.
	sort.Ints(testRows)
	sort.Ints(trainRows)

	train, err = t.Select(trainRows)
	if err != nil {
		return nil, nil, err
	}

	test, err = t.Select(testRows)
	if err != nil {
		return nil, nil, err
	}

	return train, test, nil
}

// SplitByPartition holds out every row whose value in the partition column
// matches one of the holdout labels, forming a spatially-aware split: the
// evaluation side is a whole partition the model never trained on.
//
// Partition values are arbitrary string labels; they carry no ordering.
// Errors when no holdout label is given, when the column is missing, or when
// either side of the split ends up empty.
func (t *Table) SplitByPartition(column string, holdout ...string) (train, test *Table, err error) {
	if len(holdout) == 0 {
		return nil, nil, fmt.Errorf("no holdout labels for partition column %q", column)
	}

	labels, err := t.Column(column)
	if err != nil {
		return nil, nil, err
	}

	held := make(map[string]bool, len(holdout))
	for _, label := range holdout {
		held[label] = true
	}

	var trainRows, testRows []int

	for i, label := range labels {
		if held[label] {
			testRows = append(testRows, i)
		} else {
			trainRows = append(trainRows, i)
		}
	}

	if len(testRows) == 0 {
		return nil, nil, fmt.Errorf("holdout %v matches no rows in column %q", holdout, column)
	}

	if len(trainRows) == 0 {
		return nil, nil, fmt.Errorf("holdout %v leaves no training rows", holdout)
	}

	train, err = t.Select(trainRows)
	if err != nil {
		return nil, nil, err
	}

	test, err = t.Select(testRows)
	if err != nil {
		return nil, nil, err
	}

	return train, test, nil
}
