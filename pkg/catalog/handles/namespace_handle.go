package handles

import (
	"ridgebase/pkg/catalog/operations"
	"ridgebase/pkg/concurrency/transaction"
)

// NamespaceHandle composes the table/column/index handles into the
// single implicit namespace ridgebase's catalog has. Terrier's
// NamespaceHandle.GetTableHandle composes pg_class, pg_namespace and
// pg_tablespace; ridgebase collapses all three into one CATALOG_TABLES
// system table, so there is only one namespace to navigate from.
type NamespaceHandle struct {
	tables  *TableHandle
	columns *AttributeHandle
	indexes *IndexHandle
}

func NewNamespaceHandle(tableOps *operations.TableOperations, columnOps *operations.ColumnOperations, indexOps *operations.IndexOperations) *NamespaceHandle {
	return &NamespaceHandle{
		tables:  NewTableHandle(tableOps),
		columns: NewAttributeHandle(columnOps),
		indexes: NewIndexHandle(indexOps),
	}
}

func (h *NamespaceHandle) TableHandle() *TableHandle         { return h.tables }
func (h *NamespaceHandle) AttributeHandle() *AttributeHandle { return h.columns }
func (h *NamespaceHandle) IndexHandle() *IndexHandle         { return h.indexes }

// GetTableWithColumns resolves a table by name and loads its column
// entries in one call, the composition navigation pattern the spec's
// handle model describes for the namespace -> table -> attribute path.
func (h *NamespaceHandle) GetTableWithColumns(txn *transaction.TransactionContext, tableName string) (*TableEntry, []*AttributeEntry, error) {
	table, err := h.tables.GetTableEntryByName(txn, tableName)
	if err != nil {
		return nil, nil, err
	}

	var attrs []*AttributeEntry
	for i := 0; ; i++ {
		attr, err := h.columns.GetAttributeEntry(txn, table.OID, tableName, i)
		if err != nil {
			break
		}
		attrs = append(attrs, attr)
	}

	return table, attrs, nil
}
