package handles

import (
	"ridgebase/pkg/catalog/operations"
	"ridgebase/pkg/catalog/systemtable"
	"ridgebase/pkg/concurrency/transaction"
)

// pg_index column OIDs.
const (
	ColIndexOID      = 8001
	ColIndexName     = 8002
	ColIndexTableOID = 8003
	ColIndexColumn   = 8004
	ColIndexType     = 8005
	ColIndexReady    = 8006
	ColIndexValid    = 8007
	ColIndexLive     = 8008
	ColIndexPrimary  = 8009
	ColIndexUnique   = 8010
)

// IndexEntry is one CATALOG_INDEXES row (this engine's pg_index
// equivalent), carrying the online-build state machine flags.
type IndexEntry struct {
	*systemtable.IndexMetadata
}

func (e *IndexEntry) GetValue(columnOID int) (any, bool) {
	switch columnOID {
	case ColIndexOID:
		return e.IndexID, true
	case ColIndexName:
		return e.IndexName, true
	case ColIndexTableOID:
		return e.TableID, true
	case ColIndexColumn:
		return e.ColumnName, true
	case ColIndexType:
		return string(e.IndexType), true
	case ColIndexReady:
		return e.IndexReady, true
	case ColIndexValid:
		return e.IndexValid, true
	case ColIndexLive:
		return e.IndexLive, true
	case ColIndexPrimary:
		return e.IndexPrimary, true
	case ColIndexUnique:
		return e.IndexUnique, true
	default:
		return nil, false
	}
}

// IndexHandle is the typed handle over CATALOG_INDEXES.
type IndexHandle struct {
	ops *operations.IndexOperations
}

func NewIndexHandle(ops *operations.IndexOperations) *IndexHandle {
	return &IndexHandle{ops: ops}
}

func (h *IndexHandle) GetIndexEntry(txn *transaction.TransactionContext, oid int) (*IndexEntry, error) {
	md, err := h.ops.GetIndexByID(txn, oid)
	if err != nil {
		return nil, err
	}
	return &IndexEntry{md}, nil
}

func (h *IndexHandle) GetIndexEntryByName(txn *transaction.TransactionContext, name string) (*IndexEntry, error) {
	md, err := h.ops.GetIndexByName(txn, name)
	if err != nil {
		return nil, err
	}
	return &IndexEntry{md}, nil
}

// GetIndexesForTable returns every index entry registered against tableID,
// for a writer deciding which indexes it must maintain (it consults
// IndexReady, not IndexValid - a not-yet-valid index still needs new rows
// inserted into it during its build window).
func (h *IndexHandle) GetIndexesForTable(txn *transaction.TransactionContext, tableID int) ([]*IndexEntry, error) {
	mds, err := h.ops.GetIndexesByTable(txn, tableID)
	if err != nil {
		return nil, err
	}
	entries := make([]*IndexEntry, len(mds))
	for i, md := range mds {
		entries[i] = &IndexEntry{md}
	}
	return entries, nil
}
