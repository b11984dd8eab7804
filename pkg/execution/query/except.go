package query

import (
	"fmt"
	"ridgebase/pkg/iterator"
	"ridgebase/pkg/tuple"
)

// Except represents an EXCEPT operator that returns tuples from the left
// input that do not appear in the right input. EXCEPT removes duplicates
// from the result (set semantics), while EXCEPT ALL subtracts right-side
// occurrence counts from left-side occurrence counts.
type Except struct {
	base       *iterator.BaseIterator
	leftChild  *SourceIter
	rightChild *SourceIter
	exceptAll  bool

	rightHashes map[uint32]int  // hash -> count of tuples in right child
	leftSeen    map[uint32]bool // for EXCEPT's deduplication of left tuples already emitted
	initialized bool
}

// NewExcept creates a new Except operator.
// If exceptAll is true, result counts are left-count minus right-count per
// distinct tuple, clamped at zero (EXCEPT ALL). If exceptAll is false, a
// left tuple is returned at most once, only when it has no match on the
// right (EXCEPT).
func NewExcept(left, right iterator.DbIterator, exceptAll bool) (*Except, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("except children cannot be nil")
	}

	leftOp, err := NewSourceOperator(left)
	if err != nil {
		return nil, fmt.Errorf("failed to create left source: %v", err)
	}

	rightOp, err := NewSourceOperator(right)
	if err != nil {
		return nil, fmt.Errorf("failed to create right source: %v", err)
	}

	if err := validateSchemaCompatibility(leftOp.GetTupleDesc(), rightOp.GetTupleDesc()); err != nil {
		return nil, err
	}

	ex := &Except{
		leftChild:   leftOp,
		rightChild:  rightOp,
		exceptAll:   exceptAll,
		rightHashes: make(map[uint32]int),
		initialized: false,
	}

	if !exceptAll {
		ex.leftSeen = make(map[uint32]bool)
	}

	ex.base = iterator.NewBaseIterator(ex.readNext)
	return ex, nil
}

// buildRightHashSet counts occurrences of every tuple in the right child.
func (ex *Except) buildRightHashSet() error {
	if ex.initialized {
		return nil
	}

	for {
		t, err := ex.rightChild.FetchNext()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}

		hash := hashTuple(t)
		ex.rightHashes[hash]++
	}

	ex.initialized = true
	return nil
}

// readNext implements the except logic. For EXCEPT, it returns each
// distinct left tuple that has no remaining match on the right. For
// EXCEPT ALL, it returns a left tuple as long as the right side's count
// for that hash hasn't yet absorbed it.
func (ex *Except) readNext() (*tuple.Tuple, error) {
	if !ex.initialized {
		if err := ex.buildRightHashSet(); err != nil {
			return nil, err
		}
	}

	for {
		t, err := ex.leftChild.FetchNext()
		if err != nil || t == nil {
			return t, err
		}

		hash := hashTuple(t)

		if ex.exceptAll {
			if ex.rightHashes[hash] > 0 {
				ex.rightHashes[hash]--
				continue
			}
			return t, nil
		}

		if ex.leftSeen[hash] {
			continue
		}
		if ex.rightHashes[hash] > 0 {
			continue
		}
		ex.leftSeen[hash] = true
		return t, nil
	}
}

// Open initializes the Except operator by opening both child operators.
func (ex *Except) Open() error {
	if err := ex.leftChild.Open(); err != nil {
		return fmt.Errorf("failed to open left child: %v", err)
	}

	if err := ex.rightChild.Open(); err != nil {
		ex.leftChild.Close()
		return fmt.Errorf("failed to open right child: %v", err)
	}

	ex.initialized = false
	ex.rightHashes = make(map[uint32]int)
	if !ex.exceptAll {
		ex.leftSeen = make(map[uint32]bool)
	}

	ex.base.MarkOpened()
	return nil
}

// Close releases resources by closing both child operators.
func (ex *Except) Close() error {
	leftErr := ex.leftChild.Close()
	rightErr := ex.rightChild.Close()

	if leftErr != nil {
		return leftErr
	}
	if rightErr != nil {
		return rightErr
	}

	return ex.base.Close()
}

// GetTupleDesc returns the schema of the except result, which matches
// the left child's schema.
func (ex *Except) GetTupleDesc() *tuple.TupleDescription {
	return ex.leftChild.GetTupleDesc()
}

// HasNext checks if there are more tuples available from the except.
func (ex *Except) HasNext() (bool, error) {
	return ex.base.HasNext()
}

// Next retrieves the next tuple from the except.
func (ex *Except) Next() (*tuple.Tuple, error) {
	return ex.base.Next()
}

// Rewind resets the Except operator to the beginning.
func (ex *Except) Rewind() error {
	if err := ex.leftChild.Rewind(); err != nil {
		return err
	}
	if err := ex.rightChild.Rewind(); err != nil {
		return err
	}

	ex.initialized = false
	ex.rightHashes = make(map[uint32]int)
	if !ex.exceptAll {
		ex.leftSeen = make(map[uint32]bool)
	}

	ex.base.ClearCache()
	return nil
}

// findTupleInList returns the index of the first tuple in list equal to
// tup, or -1 if no such tuple exists.
func findTupleInList(tup *tuple.Tuple, list []*tuple.Tuple) int {
	for i, candidate := range list {
		if tup.Equals(candidate) {
			return i
		}
	}
	return -1
}
