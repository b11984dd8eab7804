package runtime

import (
	"fmt"

	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/storage/index"
	"ridgebase/pkg/storage/page"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

// IndexIterator owns two aligned row buffers - one shaped like the index's
// key schema, one like the base table's schema - allocated on Init and
// addressed by the column-oid list the compiled scan was built against.
// ScanKey drives a lookup and Advance pulls matching base-table rows.
type IndexIterator struct {
	ctx   *transaction.TransactionContext
	store *memory.PageStore

	idx        index.Index
	keySchema  *tuple.TupleDescription
	baseSchema *tuple.TupleDescription
	columnOIDs []int
	tableFile  *heap.HeapFile

	keyRow  *tuple.Tuple
	baseRow *tuple.Tuple

	matches []*tuple.TupleRecordID
	pos     int
}

// NewIndexIterator validates the column-oid list up front: an empty list is
// rejected here, so Init itself never fails on it.
func NewIndexIterator(ctx *transaction.TransactionContext, store *memory.PageStore, idx index.Index, keySchema, baseSchema *tuple.TupleDescription, columnOIDs []int, tableFile *heap.HeapFile) (*IndexIterator, error) {
	if len(columnOIDs) == 0 {
		return nil, fmt.Errorf("index iterator requires a non-empty column-oid list")
	}
	if idx == nil {
		return nil, fmt.Errorf("index iterator requires a backing index")
	}
	return &IndexIterator{
		ctx:        ctx,
		store:      store,
		idx:        idx,
		keySchema:  keySchema,
		baseSchema: baseSchema,
		columnOIDs: columnOIDs,
		tableFile:  tableFile,
	}, nil
}

// Init allocates the two aligned row buffers.
func (it *IndexIterator) Init() error {
	it.keyRow = tuple.NewTuple(it.keySchema)
	it.baseRow = tuple.NewTuple(it.baseSchema)
	return nil
}

// ScanKey runs an equality lookup for key, buffering the matching record IDs.
func (it *IndexIterator) ScanKey(key types.Field) error {
	matches, err := it.idx.Search(key)
	if err != nil {
		return fmt.Errorf("index scan key: %w", err)
	}
	it.matches = matches
	it.pos = -1
	return nil
}

// HasNext reports whether Advance would yield another base-table row.
func (it *IndexIterator) HasNext() bool {
	return it.pos+1 < len(it.matches)
}

// Advance resolves the next matching record id into the base-row buffer and
// returns it.
func (it *IndexIterator) Advance() (*tuple.Tuple, error) {
	if !it.HasNext() {
		return nil, nil
	}
	it.pos++
	rid := it.matches[it.pos]

	pd, ok := rid.PageID.(*page.PageDescriptor)
	if !ok {
		return nil, fmt.Errorf("index iterator: record id page is not a heap page descriptor")
	}
	p, err := it.store.GetPage(it.ctx, it.tableFile, pd, transaction.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("index iterator fetch page: %w", err)
	}
	hp, ok := p.(*heap.HeapPage)
	if !ok {
		return nil, fmt.Errorf("index iterator: page is not a heap page")
	}
	row, err := hp.GetTupleAt(primitives.SlotID(rid.TupleNum))
	if err != nil {
		return nil, fmt.Errorf("index iterator fetch tuple: %w", err)
	}
	it.baseRow = row
	return row, nil
}

// Current returns the last row Advance resolved into the base-row buffer.
func (it *IndexIterator) Current() *tuple.Tuple {
	return it.baseRow
}

// ColumnOIDs returns the column-oid addressing list this iterator was built
// against.
func (it *IndexIterator) ColumnOIDs() []int {
	return it.columnOIDs
}
