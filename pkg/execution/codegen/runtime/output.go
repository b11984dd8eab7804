package runtime

import (
	"fmt"

	"ridgebase/pkg/tuple"
)

// OutputCallback is invoked once per flushed batch, carrying the decoded
// rows alongside the counts the spec's raw (bytes, num_tuples, tuple_size)
// contract names. ridgebase already represents a materialized row as a
// *tuple.Tuple rather than a raw byte span, so the callback is handed the
// decoded rows directly instead of a byte buffer - the output checker
// framework consumes rows either way.
type OutputCallback func(batch []*tuple.Tuple, numTuples int, tupleSize uint32)

// OutputBuffer backs Output's Alloc/Advance/SetNull/Finalize intrinsics with
// a growable row buffer; Finalize flushes whatever has accumulated since the
// last flush to the registered callback.
type OutputBuffer struct {
	schema   *tuple.TupleDescription
	callback OutputCallback

	pending []*tuple.Tuple
	cur     *tuple.Tuple
	nulls   map[int]bool
}

// NewOutputBuffer builds a buffer laid out per schema, invoking callback on
// each Finalize that has pending rows.
func NewOutputBuffer(schema *tuple.TupleDescription, callback OutputCallback) *OutputBuffer {
	return &OutputBuffer{schema: schema, callback: callback}
}

// Alloc starts a new output row - OutputAlloc's runtime counterpart.
func (b *OutputBuffer) Alloc() *tuple.Tuple {
	b.cur = tuple.NewTuple(b.schema)
	b.nulls = make(map[int]bool)
	return b.cur
}

// SetNull marks column idx of the current row as null.
func (b *OutputBuffer) SetNull(idx int) {
	if b.nulls == nil {
		b.nulls = make(map[int]bool)
	}
	b.nulls[idx] = true
}

// IsNull reports whether column idx of the current row was marked null.
func (b *OutputBuffer) IsNull(idx int) bool {
	return b.nulls != nil && b.nulls[idx]
}

// Advance commits the current row into the pending batch - OutputAdvance.
func (b *OutputBuffer) Advance() error {
	if b.cur == nil {
		return fmt.Errorf("output buffer: advance with no allocated row")
	}
	b.pending = append(b.pending, b.cur)
	b.cur = nil
	b.nulls = nil
	return nil
}

// Finalize flushes the pending batch through the callback and clears it -
// OutputFinalize.
func (b *OutputBuffer) Finalize() {
	if len(b.pending) == 0 {
		return
	}
	batch := b.pending
	b.pending = nil
	if b.callback != nil {
		b.callback(batch, len(batch), b.schema.GetSize())
	}
}
