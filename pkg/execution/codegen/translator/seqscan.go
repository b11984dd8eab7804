package translator

import (
	"fmt"

	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/execution/query"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/tuple"
)

// scanPredicate pairs a parsed query.Predicate with the intrinsic it
// vectorizes to, or "" when the predicate (e.g. LIKE) has no vectorized
// filter intrinsic and must be evaluated scalar, after the PCI accessors.
type scanPredicate struct {
	pred   *query.Predicate
	callee string
}

// SeqScanTranslator drives a TableVectorIterator leaf: it is always the
// bottom of a translator chain, the only translator with no Children.
type SeqScanTranslator struct {
	Base

	node *plan.ScanNode
	ctx  *transaction.TransactionContext
	tvi  *runtime.TableVectorIterator

	predicates []scanPredicate
}

// NewSeqScanTranslator resolves node's pushed-down predicates against schema
// and builds the real TableVectorIterator it will drive.
func NewSeqScanTranslator(node *plan.ScanNode, schema *tuple.TupleDescription, ctx *transaction.TransactionContext, store *memory.PageStore, file *heap.HeapFile) (*SeqScanTranslator, error) {
	tvi, err := runtime.NewTableVectorIterator(ctx, store, file, runtime.DefaultVectorWidth)
	if err != nil {
		return nil, err
	}
	st := &SeqScanTranslator{node: node, ctx: ctx, tvi: tvi}
	st.Schema = schema

	for _, pi := range node.Predicates {
		idx, err := schema.FindFieldIndex(pi.Column)
		if err != nil {
			return nil, fmt.Errorf("seq scan %s: %w", node.TableName, err)
		}
		colType, err := schema.TypeAtIndex(idx)
		if err != nil {
			return nil, err
		}
		operand, err := parseLiteral(colType, pi.Value)
		if err != nil {
			return nil, fmt.Errorf("seq scan %s predicate on %s: %w", node.TableName, pi.Column, err)
		}
		qp := query.NewPredicate(primitives.ColumnID(idx), pi.Predicate, operand)
		callee, _ := filterCallee(pi.Predicate)
		st.predicates = append(st.predicates, scanPredicate{pred: qp, callee: callee})
	}
	return st, nil
}

func (s *SeqScanTranslator) InitializeSetup(cb *CodeBuilder, ec *runtime.ExecutionContext) error {
	cb.Section("seqscan:setup:" + s.node.TableName)
	cb.Emit("TableIterInit",
		cb.Lit(ir.PointerTo(ir.TVIType)),
		cb.Lit(ir.StringLiteralType),
		cb.Lit(ir.PointerTo(ir.ExecutionContextType)))
	return s.tvi.Init()
}

func (s *SeqScanTranslator) InitializeTeardown(cb *CodeBuilder, ec *runtime.ExecutionContext) error {
	cb.Section("seqscan:teardown:" + s.node.TableName)
	cb.Emit("TableIterClose", cb.Lit(ir.PointerTo(ir.TVIType)))
	return s.tvi.Close()
}

// Produce emits the scan loop body's intrinsic template once, then runs the
// real loop over the TableVectorIterator, calling consume for every row that
// survives the pushed-down predicates.
func (s *SeqScanTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("seqscan:produce:" + s.node.TableName)
	cb.Emit("TableIterAdvance", cb.Lit(ir.PointerTo(ir.TVIType)))
	cb.Emit("TableIterGetPCI", cb.Lit(ir.PointerTo(ir.TVIType)))
	cb.Emit("PCIHasNext", cb.Lit(ir.PointerTo(ir.PCIType)))
	cb.Emit("PCIAdvance", cb.Lit(ir.PointerTo(ir.PCIType)))

	var vectorized []scanPredicate
	var scalar []scanPredicate
	for _, sp := range s.predicates {
		if sp.callee != "" {
			vectorized = append(vectorized, sp)
		} else {
			scalar = append(scalar, sp)
		}
	}
	for _, sp := range vectorized {
		cb.Emit(sp.callee,
			cb.Lit(ir.PointerTo(ir.PCIType)),
			cb.Lit(ir.Int32Type))
	}
	if len(scalar) > 0 {
		cb.Emit("PCIMatch", cb.Lit(ir.PointerTo(ir.PCIType)), cb.Lit(ir.BoolType))
	}

	for {
		ok, err := s.tvi.Advance()
		if err != nil {
			return fmt.Errorf("seq scan %s: %w", s.node.TableName, err)
		}
		if !ok {
			return nil
		}
		pci := s.tvi.PCI()
		for pci.Advance() {
			row := pci.Current()
			match, err := s.evalPredicates(row)
			if err != nil {
				return err
			}
			if !match {
				continue
			}
			s.Current = row
			if err := consume(row); err != nil {
				return err
			}
		}
	}
}

func (s *SeqScanTranslator) evalPredicates(row *tuple.Tuple) (bool, error) {
	for _, sp := range s.predicates {
		ok, err := sp.pred.Filter(row)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *SeqScanTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(s.Current, s.Schema, attrIdx)
}
