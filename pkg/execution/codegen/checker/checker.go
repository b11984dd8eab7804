package checker

import "fmt"

// Checker inspects the rows an OutputStore accumulated over a query run and
// reports whether they satisfy whatever property it checks.
type Checker interface {
	// ProcessBatch is called once per flushed output batch - Checkers that
	// need streaming behavior (running sums, running counts) hook in here;
	// Checkers that only need the final row set can no-op and read Store in
	// CheckCorrectness instead.
	ProcessBatch(rows []int)

	// CheckCorrectness evaluates the accumulated state and returns an error
	// describing the first violation found, or nil if everything checks out.
	CheckCorrectness() error
}

// NumChecker verifies the output produced exactly Want rows.
type NumChecker struct {
	Store *OutputStore
	Want  int
}

func (c *NumChecker) ProcessBatch(rows []int) {}

func (c *NumChecker) CheckCorrectness() error {
	if got := c.Store.NumRows(); got != c.Want {
		return fmt.Errorf("expected %d rows, got %d", c.Want, got)
	}
	return nil
}

// SingleIntComparisonChecker verifies every row's Col satisfies Cmp against
// each row's own value (e.g. every row passed a pushed-down predicate).
type SingleIntComparisonChecker struct {
	Store *OutputStore
	Col   int
	Cmp   func(v int64) bool
}

func (c *SingleIntComparisonChecker) ProcessBatch(rows []int) {}

func (c *SingleIntComparisonChecker) CheckCorrectness() error {
	for i := 0; i < c.Store.NumRows(); i++ {
		v, isNull, err := c.Store.Int(i, c.Col)
		if err != nil {
			return err
		}
		if isNull {
			continue
		}
		if !c.Cmp(v) {
			return fmt.Errorf("row %d column %d value %d failed comparison", i, c.Col, v)
		}
	}
	return nil
}

// SingleIntJoinChecker verifies a join's left and right key columns agree on
// every output row.
type SingleIntJoinChecker struct {
	Store          *OutputStore
	LeftCol, RightCol int
}

func (c *SingleIntJoinChecker) ProcessBatch(rows []int) {}

func (c *SingleIntJoinChecker) CheckCorrectness() error {
	for i := 0; i < c.Store.NumRows(); i++ {
		l, lNull, err := c.Store.Int(i, c.LeftCol)
		if err != nil {
			return err
		}
		r, rNull, err := c.Store.Int(i, c.RightCol)
		if err != nil {
			return err
		}
		if lNull || rNull {
			// A join never matches a NULL key against anything, including
			// another NULL, so a NULL on either side of an output row can
			// only happen if it rode along in a non-key column.
			if lNull != rNull {
				return fmt.Errorf("row %d join key mismatch: left=%v right=%v", i, l, r)
			}
			continue
		}
		if l != r {
			return fmt.Errorf("row %d join key mismatch: left=%d right=%d", i, l, r)
		}
	}
	return nil
}

// SingleIntSumChecker verifies the sum of a single integer column over every
// output row equals Want.
type SingleIntSumChecker struct {
	Store *OutputStore
	Col   int
	Want  int64
}

func (c *SingleIntSumChecker) ProcessBatch(rows []int) {}

func (c *SingleIntSumChecker) CheckCorrectness() error {
	var sum int64
	for i := 0; i < c.Store.NumRows(); i++ {
		v, isNull, err := c.Store.Int(i, c.Col)
		if err != nil {
			return err
		}
		if isNull {
			continue
		}
		sum += v
	}
	if sum != c.Want {
		return fmt.Errorf("expected sum %d over column %d, got %d", c.Want, c.Col, sum)
	}
	return nil
}

// SingleIntSortChecker verifies Col is non-decreasing (or non-increasing,
// when Desc) across the output rows in the order they were produced. Col is
// a constructor argument, not a hardcoded column - a sort over any output
// column can be checked.
type SingleIntSortChecker struct {
	Store *OutputStore
	Col   int
	Desc  bool
}

func (c *SingleIntSortChecker) ProcessBatch(rows []int) {}

func (c *SingleIntSortChecker) CheckCorrectness() error {
	var prev int64
	var prevNull bool
	for i := 0; i < c.Store.NumRows(); i++ {
		v, isNull, err := c.Store.Int(i, c.Col)
		if err != nil {
			return err
		}
		if i > 0 {
			// Nulls compare equal only to nulls - never out of order against
			// each other - and neither direction orders a null against a
			// real value, so only a non-null/non-null pair can violate.
			if !isNull && !prevNull {
				if c.Desc && v > prev {
					return fmt.Errorf("row %d column %d value %d out of descending order after %d", i, c.Col, v, prev)
				}
				if !c.Desc && v < prev {
					return fmt.Errorf("row %d column %d value %d out of ascending order after %d", i, c.Col, v, prev)
				}
			}
		}
		prev, prevNull = v, isNull
	}
	return nil
}

// GenericChecker wraps an arbitrary predicate over the whole store, for
// checks none of the specialized variants cover.
type GenericChecker struct {
	Store *OutputStore
	Check func(*OutputStore) error
}

func (c *GenericChecker) ProcessBatch(rows []int) {}

func (c *GenericChecker) CheckCorrectness() error {
	return c.Check(c.Store)
}

// MultiChecker runs every sub-checker and reports the first failure, the way
// a query test that asserts several properties (row count, sum, ordering)
// at once would.
type MultiChecker struct {
	Checkers []Checker
}

func (c *MultiChecker) ProcessBatch(rows []int) {
	for _, sub := range c.Checkers {
		sub.ProcessBatch(rows)
	}
}

func (c *MultiChecker) CheckCorrectness() error {
	for _, sub := range c.Checkers {
		if err := sub.CheckCorrectness(); err != nil {
			return err
		}
	}
	return nil
}
