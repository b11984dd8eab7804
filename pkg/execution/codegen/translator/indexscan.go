package translator

import (
	"fmt"

	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/storage/index"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

// IndexScanTranslator drives an IndexIterator leaf for an equality lookup
// plan (AccessMethod == "indexscan"). It is the translator counterpart of
// IndexScan's contract: IndexIteratorInit/ScanKey followed by Advance.
type IndexScanTranslator struct {
	Base

	node *plan.ScanNode
	it   *runtime.IndexIterator
	key  types.Field
}

// NewIndexScanTranslator builds the real IndexIterator backing node's
// indexscan. key is the equality probe value, already typed to the index's
// key schema - the stand-in for the compiled key-expression evaluation.
func NewIndexScanTranslator(node *plan.ScanNode, baseSchema, keySchema *tuple.TupleDescription, columnOIDs []int, key types.Field, ctx *transaction.TransactionContext, store *memory.PageStore, idx index.Index, tableFile *heap.HeapFile) (*IndexScanTranslator, error) {
	it, err := runtime.NewIndexIterator(ctx, store, idx, keySchema, baseSchema, columnOIDs, tableFile)
	if err != nil {
		return nil, err
	}
	ist := &IndexScanTranslator{node: node, it: it, key: key}
	ist.Schema = baseSchema
	return ist, nil
}

func (i *IndexScanTranslator) InitializeSetup(cb *CodeBuilder, ec *runtime.ExecutionContext) error {
	cb.Section("indexscan:setup:" + i.node.IndexName)
	cb.Emit("IndexIteratorInit",
		cb.Lit(ir.PointerTo(ir.IndexIteratorType)),
		cb.Lit(ir.StringLiteralType),
		cb.Lit(ir.PointerTo(ir.ExecutionContextType)))
	return i.it.Init()
}

func (i *IndexScanTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("indexscan:produce:" + i.node.IndexName)
	cb.Emit("IndexIteratorScanKey",
		cb.Lit(ir.PointerTo(ir.IndexIteratorType)),
		cb.Lit(ir.PointerTo(ir.Int8Type)))

	if err := i.it.ScanKey(i.key); err != nil {
		return fmt.Errorf("index scan %s: %w", i.node.IndexName, err)
	}
	for i.it.HasNext() {
		row, err := i.it.Advance()
		if err != nil {
			return fmt.Errorf("index scan %s: %w", i.node.IndexName, err)
		}
		i.Current = row
		if err := consume(row); err != nil {
			return err
		}
	}
	return nil
}

func (i *IndexScanTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(i.Current, i.Schema, attrIdx)
}
