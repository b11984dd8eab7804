package memory

import (
	"path/filepath"
	"testing"

	"ridgebase/pkg/catalog/schema"
	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

func testTableSchema(t *testing.T, tableID primitives.TableID, name string) *schema.Schema {
	t.Helper()
	idCol, err := schema.NewColumnMetadata("id", types.IntType, 0, tableID, true, false)
	if err != nil {
		t.Fatalf("NewColumnMetadata id: %v", err)
	}
	nameCol, err := schema.NewColumnMetadata("name", types.StringType, 1, tableID, false, false)
	if err != nil {
		t.Fatalf("NewColumnMetadata name: %v", err)
	}
	s, err := schema.NewSchema(tableID, name, []schema.ColumnMetadata{*idCol, *nameCol})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

// setupPageStore wires a HeapFile, TableManager and WAL into a fresh PageStore
// ready for insert/delete/commit/abort tests.
func setupPageStore(t *testing.T) (*PageStore, *heap.HeapFile) {
	t.Helper()

	tempDir := t.TempDir()
	walPath := filepath.Join(tempDir, "test.wal")
	heapPath := filepath.Join(tempDir, "test.heap")

	s := testTableSchema(t, 1, "widgets")

	heapFile, err := heap.NewHeapFile(primitives.Filepath(heapPath), s.TupleDesc)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	t.Cleanup(func() { heapFile.Close() })

	tm := NewTableManager()
	if err := tm.AddTable(heapFile, s); err != nil {
		t.Fatalf("AddTable: %v", err)
	}

	ps, err := NewPageStore(tm, walPath, 8192)
	if err != nil {
		t.Fatalf("NewPageStore: %v", err)
	}
	t.Cleanup(func() { ps.Close() })

	return ps, heapFile
}

func newTestTuple(td *tuple.TupleDescription, id int64, name string) *tuple.Tuple {
	tup := tuple.NewTuple(td)
	tup.SetField(0, types.NewIntField(id))
	tup.SetField(1, types.NewStringField(name, 50))
	return tup
}

func newTestTxContext() TxContext {
	return transaction.NewTransactionContext(primitives.NewTransactionID())
}
