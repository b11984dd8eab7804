package runtime

import (
	"fmt"

	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/storage/page"
	"ridgebase/pkg/tuple"
)

// TableVectorIterator wraps a heap file scan cursor and yields tuples in
// fixed-size ProjectedColumnsIterator batches, the runtime counterpart of
// the compiled loop's TableIterInit/TableIterAdvance pair.
type TableVectorIterator struct {
	ctx         *transaction.TransactionContext
	store       *memory.PageStore
	file        *heap.HeapFile
	vectorWidth int

	currentPage int
	numPages    primitives.PageNumber
	pending     []*tuple.Tuple // carry-over rows read past the last vector boundary
	pci         *ProjectedColumnsIterator
}

// NewTableVectorIterator builds a TVI over file scoped to ctx. vectorWidth
// <= 0 falls back to DefaultVectorWidth.
func NewTableVectorIterator(ctx *transaction.TransactionContext, store *memory.PageStore, file *heap.HeapFile, vectorWidth int) (*TableVectorIterator, error) {
	if file == nil {
		return nil, fmt.Errorf("table vector iterator requires a heap file")
	}
	if store == nil {
		return nil, fmt.Errorf("table vector iterator requires a page store")
	}
	if vectorWidth <= 0 {
		vectorWidth = DefaultVectorWidth
	}
	return &TableVectorIterator{
		ctx:         ctx,
		store:       store,
		file:        file,
		vectorWidth: vectorWidth,
		currentPage: -1,
	}, nil
}

// Init resolves the file's page count, mirroring TableIterInit.
func (tvi *TableVectorIterator) Init() error {
	n, err := tvi.file.NumPages()
	if err != nil {
		return fmt.Errorf("table vector iterator init: %w", err)
	}
	tvi.numPages = n
	return nil
}

// Advance pulls up to vectorWidth tuples, spanning pages as needed, into a
// fresh PCI. Returns false once the file is exhausted - TableIterAdvance's
// contract.
func (tvi *TableVectorIterator) Advance() (bool, error) {
	batch := tvi.pending
	tvi.pending = nil

	for len(batch) < tvi.vectorWidth {
		tvi.currentPage++
		if primitives.PageNumber(tvi.currentPage) >= tvi.numPages {
			break
		}
		rows, err := tvi.readPage(primitives.PageNumber(tvi.currentPage))
		if err != nil {
			return false, err
		}
		batch = append(batch, rows...)
	}

	if len(batch) > tvi.vectorWidth {
		tvi.pending = batch[tvi.vectorWidth:]
		batch = batch[:tvi.vectorWidth]
	}
	if len(batch) == 0 {
		return false, nil
	}
	tvi.pci = newPCI(batch)
	return true, nil
}

func (tvi *TableVectorIterator) readPage(pageNo primitives.PageNumber) ([]*tuple.Tuple, error) {
	pid := page.NewPageDescriptor(primitives.TableID(tvi.file.GetID()), pageNo)
	p, err := tvi.store.GetPage(tvi.ctx, tvi.file, pid, transaction.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("table vector iterator read page %d: %w", pageNo, err)
	}
	hp, ok := p.(*heap.HeapPage)
	if !ok {
		return nil, fmt.Errorf("page %d is not a heap page", pageNo)
	}
	return hp.GetTuples(), nil
}

// PCI returns the batch produced by the most recent Advance.
func (tvi *TableVectorIterator) PCI() *ProjectedColumnsIterator {
	return tvi.pci
}

// Close releases the underlying file handle.
func (tvi *TableVectorIterator) Close() error {
	return tvi.file.Close()
}
