package iterator

import (
	"fmt"
	"ridgebase/pkg/tuple"
)

// ReadNextFunc produces the next tuple from an underlying data source, or
// nil when the source is exhausted.
type ReadNextFunc func() (*tuple.Tuple, error)

// BaseIterator implements the lookahead caching and open/close bookkeeping
// shared by every unary and binary operator in this package. It delegates
// the actual work of fetching a tuple to readNextFunc.
type BaseIterator struct {
	nextTuple    *tuple.Tuple
	opened       bool
	readNextFunc ReadNextFunc
}

// NewBaseIterator creates a base iterator around the given read function.
// The iterator starts closed; MarkOpened must be called before use.
func NewBaseIterator(readNextFunc ReadNextFunc) *BaseIterator {
	return &BaseIterator{readNextFunc: readNextFunc}
}

// HasNext reports whether a next tuple is available, caching it for the
// following Next call.
func (it *BaseIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("iterator not opened")
	}

	if it.nextTuple == nil {
		var err error
		it.nextTuple, err = it.readNextFunc()
		if err != nil {
			return false, err
		}
	}
	return it.nextTuple != nil, nil
}

// Next returns the cached tuple from HasNext, or reads one directly.
func (it *BaseIterator) Next() (*tuple.Tuple, error) {
	if !it.opened {
		return nil, fmt.Errorf("iterator not opened")
	}

	if it.nextTuple == nil {
		var err error
		it.nextTuple, err = it.readNextFunc()
		if err != nil {
			return nil, err
		}
		if it.nextTuple == nil {
			return nil, fmt.Errorf("no more tuples")
		}
	}

	result := it.nextTuple
	it.nextTuple = nil
	return result, nil
}

// Close marks the iterator closed and drops any cached tuple.
func (it *BaseIterator) Close() error {
	it.nextTuple = nil
	it.opened = false
	return nil
}

// MarkOpened marks the iterator opened, clearing any stale cache.
func (it *BaseIterator) MarkOpened() {
	it.opened = true
	it.nextTuple = nil
}

// ClearCache drops any cached lookahead tuple without touching open state.
// Operators call this after rewinding their source so the next HasNext
// re-reads rather than replays the stale cached tuple.
func (it *BaseIterator) ClearCache() {
	it.nextTuple = nil
}
