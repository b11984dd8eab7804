package handles

import (
	"ridgebase/pkg/catalog/operations"
	"ridgebase/pkg/concurrency/transaction"
)

// pg_class column OIDs.
const (
	ColClassOID        = 6001
	ColClassName       = 6002
	ColClassFilePath   = 6003
	ColClassPrimaryKey = 6004
)

// TableEntry is one CATALOG_TABLES row, addressable by pg_class-style
// column OID as well as by its own typed fields.
type TableEntry struct {
	OID        int
	Name       string
	FilePath   string
	PrimaryKey string
}

func (e *TableEntry) GetValue(columnOID int) (any, bool) {
	switch columnOID {
	case ColClassOID:
		return e.OID, true
	case ColClassName:
		return e.Name, true
	case ColClassFilePath:
		return e.FilePath, true
	case ColClassPrimaryKey:
		return e.PrimaryKey, true
	default:
		return nil, false
	}
}

// TableHandle is the typed handle over CATALOG_TABLES (this engine's
// pg_class equivalent).
type TableHandle struct {
	ops *operations.TableOperations
}

func NewTableHandle(ops *operations.TableOperations) *TableHandle {
	return &TableHandle{ops: ops}
}

func (h *TableHandle) GetTableEntry(txn *transaction.TransactionContext, oid int) (*TableEntry, error) {
	md, err := h.ops.GetTableMetadataByID(txn, oid)
	if err != nil {
		return nil, err
	}
	return &TableEntry{OID: md.TableID, Name: md.TableName, FilePath: md.FilePath, PrimaryKey: md.PrimaryKeyCol}, nil
}

func (h *TableHandle) GetTableEntryByName(txn *transaction.TransactionContext, name string) (*TableEntry, error) {
	md, err := h.ops.GetTableMetadataByName(txn, name)
	if err != nil {
		return nil, err
	}
	return &TableEntry{OID: md.TableID, Name: md.TableName, FilePath: md.FilePath, PrimaryKey: md.PrimaryKeyCol}, nil
}
