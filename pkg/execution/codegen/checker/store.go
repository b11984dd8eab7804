// Package checker implements the output-correctness checkers a compiled
// query's test harness registers against an OutputBuffer: each decodes the
// flushed row batches per the query's output schema and verifies some
// property of the accumulated rows.
package checker

import (
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

// OutputStore accumulates every row an OutputBuffer flushes, decoded per
// schema, for a Checker to inspect once the query has finished running. It
// is the bridge between runtime.OutputCallback and the Checker interface.
type OutputStore struct {
	Schema *tuple.TupleDescription
	Rows   []*tuple.Tuple
}

// NewOutputStore builds a store bound to schema, ready to be passed to
// runtime.NewOutputBuffer as its callback target via Callback.
func NewOutputStore(schema *tuple.TupleDescription) *OutputStore {
	return &OutputStore{Schema: schema}
}

// Callback satisfies runtime.OutputCallback, appending every row in batch.
func (s *OutputStore) Callback(batch []*tuple.Tuple, numTuples int, tupleSize uint32) {
	s.Rows = append(s.Rows, batch...)
}

// Int reads column col of row i as an integer-kinded SQL value. The second
// return is true when the field is NULL, in which case the int64 is
// meaningless and callers must not fold it into a sum or comparison.
func (s *OutputStore) Int(i, col int) (int64, bool, error) {
	f, err := s.Rows[i].GetField(col)
	if err != nil {
		return 0, false, err
	}
	if f == nil {
		return 0, true, nil
	}
	switch v := f.(type) {
	case *types.Int32Field:
		return int64(v.Value), false, nil
	case *types.Int64Field:
		return v.Value, false, nil
	case *types.IntField:
		return v.Value, false, nil
	case *types.Uint32Field:
		return int64(v.Value), false, nil
	case *types.Uint64Field:
		return int64(v.Value), false, nil
	default:
		return 0, false, nil
	}
}

// Real reads column col of row i as a floating-point SQL value. The second
// return is true when the field is NULL.
func (s *OutputStore) Real(i, col int) (float64, bool, error) {
	f, err := s.Rows[i].GetField(col)
	if err != nil {
		return 0, false, err
	}
	if f == nil {
		return 0, true, nil
	}
	if v, ok := f.(*types.Float64Field); ok {
		return v.Value, false, nil
	}
	return 0, false, nil
}

// NumRows returns the number of rows accumulated so far.
func (s *OutputStore) NumRows() int { return len(s.Rows) }

var _ runtime.OutputCallback = (&OutputStore{}).Callback
