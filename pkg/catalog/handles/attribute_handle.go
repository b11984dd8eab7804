package handles

import (
	"fmt"

	"ridgebase/pkg/catalog/operations"
	"ridgebase/pkg/catalog/schema"
	"ridgebase/pkg/concurrency/transaction"
)

// pg_attribute column OIDs.
const (
	ColAttributeTableOID = 7001
	ColAttributeName     = 7002
	ColAttributeType     = 7003
	ColAttributePosition = 7004
	ColAttributePrimary  = 7005
	ColAttributeAutoInc  = 7006
)

// AttributeEntry is one CATALOG_COLUMNS row (this engine's pg_attribute
// equivalent).
type AttributeEntry struct {
	TableID   int
	Name      string
	TypeID    int
	Position  int
	IsPrimary bool
	IsAutoInc bool
}

func (e *AttributeEntry) GetValue(columnOID int) (any, bool) {
	switch columnOID {
	case ColAttributeTableOID:
		return e.TableID, true
	case ColAttributeName:
		return e.Name, true
	case ColAttributeType:
		return e.TypeID, true
	case ColAttributePosition:
		return e.Position, true
	case ColAttributePrimary:
		return e.IsPrimary, true
	case ColAttributeAutoInc:
		return e.IsAutoInc, true
	default:
		return nil, false
	}
}

// AttributeHandle is the typed handle over CATALOG_COLUMNS.
type AttributeHandle struct {
	ops *operations.ColumnOperations
}

func NewAttributeHandle(ops *operations.ColumnOperations) *AttributeHandle {
	return &AttributeHandle{ops: ops}
}

// GetAttributeEntry looks up a column by table and position (the "oid" for
// an attribute handle is its 0-based position within the table).
func (h *AttributeHandle) GetAttributeEntry(txn *transaction.TransactionContext, tableID int, tableName string, position int) (*AttributeEntry, error) {
	sch, err := h.ops.LoadTableSchema(txn, tableID, tableName)
	if err != nil {
		return nil, err
	}
	col := sch.GetColumnMetadataByIndex(position)
	if col == nil {
		return nil, fmt.Errorf("column at position %d not found in table %d", position, tableID)
	}
	return toAttributeEntry(tableID, col), nil
}

// GetAttributeEntryByName looks up a column by table and column name.
func (h *AttributeHandle) GetAttributeEntryByName(txn *transaction.TransactionContext, tableID int, tableName, columnName string) (*AttributeEntry, error) {
	sch, err := h.ops.LoadTableSchema(txn, tableID, tableName)
	if err != nil {
		return nil, err
	}
	idx := sch.GetFieldIndex(columnName)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in table %d", columnName, tableID)
	}
	col := sch.GetColumnMetadataByIndex(idx)
	return toAttributeEntry(tableID, col), nil
}

func toAttributeEntry(tableID int, col *schema.ColumnMetadata) *AttributeEntry {
	return &AttributeEntry{
		TableID:   tableID,
		Name:      col.Name,
		TypeID:    int(col.FieldType),
		Position:  int(col.Position),
		IsPrimary: col.IsPrimary,
		IsAutoInc: col.IsAutoInc,
	}
}
