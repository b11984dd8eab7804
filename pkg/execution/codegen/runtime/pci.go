// Package runtime provides the bridges a compiled operator body leans on at
// execution time: the table/index vector iterators, output buffer and
// thread-state container described as opaque engine containers in the
// semantic analyzer's intrinsic table. Translators never touch storage
// directly - they drive one of these bridges, which wraps the real
// heap/index/memory primitives.
package runtime

import "ridgebase/pkg/tuple"

// DefaultVectorWidth is the number of tuples a TableVectorIterator advance
// pulls into one ProjectedColumnsIterator batch.
const DefaultVectorWidth = 2048

// ProjectedColumnsIterator is the innermost cursor a scan loop drives: a
// fixed-width vector of tuples produced by one TableVectorIterator advance.
// PCIHasNext/PCIAdvance in the intrinsic table correspond to HasNext/Advance
// here.
type ProjectedColumnsIterator struct {
	tuples []*tuple.Tuple
	pos    int
}

func newPCI(tuples []*tuple.Tuple) *ProjectedColumnsIterator {
	return &ProjectedColumnsIterator{tuples: tuples, pos: -1}
}

// HasNext reports whether Advance would move the cursor onto a real row.
func (p *ProjectedColumnsIterator) HasNext() bool {
	return p.pos+1 < len(p.tuples)
}

// Advance moves the cursor to the next row, returning false once exhausted.
func (p *ProjectedColumnsIterator) Advance() bool {
	if !p.HasNext() {
		return false
	}
	p.pos++
	return true
}

// Current returns the row the cursor sits on, or nil before the first Advance.
func (p *ProjectedColumnsIterator) Current() *tuple.Tuple {
	if p.pos < 0 || p.pos >= len(p.tuples) {
		return nil
	}
	return p.tuples[p.pos]
}

// Match runs pred against the current row - the Go-side equivalent of the
// compiled PCIMatch intrinsic, which marks a row visible/invisible for the
// remainder of the vectorized filter chain.
func (p *ProjectedColumnsIterator) Match(pred func(*tuple.Tuple) bool) bool {
	return pred(p.Current())
}

// NumRows reports the batch size without re-walking the iterator.
func (p *ProjectedColumnsIterator) NumRows() int {
	return len(p.tuples)
}
