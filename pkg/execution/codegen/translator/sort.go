package translator

import (
	"fmt"
	"sort"
	"strings"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/tuple"
)

type sortKey struct {
	colIdx int
	desc   bool
}

// SortTranslator is a pipeline breaker: it materializes every child row,
// sorts the buffer once its child is exhausted, then replays the sorted
// buffer through consume. Corresponds to SorterInit/SorterInsert (the
// materialize phase) and SorterSortParallel/SorterIterInit (the result
// phase).
type SortTranslator struct {
	Base

	node *plan.SortNode
	keys []sortKey
	rows []*tuple.Tuple
}

// NewSortTranslator resolves node's sort keys against childSchema, handling
// both the single-column (SortKey/Order) and multi-column (SortKeys/
// Directions) plan shapes.
func NewSortTranslator(node *plan.SortNode, child OperatorTranslator, childSchema *tuple.TupleDescription) (*SortTranslator, error) {
	st := &SortTranslator{node: node}
	st.Children = []OperatorTranslator{child}
	st.Schema = childSchema

	colNames := node.SortKeys
	dirs := node.Directions
	if len(colNames) == 0 && node.SortKey != "" {
		colNames = []string{node.SortKey}
		dirs = []string{node.Order}
	}
	for i, name := range colNames {
		idx, err := childSchema.FindFieldIndex(name)
		if err != nil {
			return nil, fmt.Errorf("sort key %s: %w", name, err)
		}
		desc := false
		if i < len(dirs) {
			desc = strings.EqualFold(dirs[i], "DESC")
		} else if !node.Ascending {
			desc = true
		}
		st.keys = append(st.keys, sortKey{colIdx: idx, desc: desc})
	}
	return st, nil
}

func (s *SortTranslator) IsMaterializer() (isPtr bool) { return true }

func (s *SortTranslator) GetMaterializedTuple() *tuple.Tuple { return s.Current }

func (s *SortTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("sort:materialize")
	cb.Emit("SorterInit",
		cb.Lit(ir.PointerTo(ir.SorterType)),
		cb.Lit(ir.PointerTo(ir.MemoryPoolType)),
		cb.Func([]ir.Kind{ir.KindPointer, ir.KindPointer}, ir.KindInt32),
		cb.Lit(ir.Uint32Type))

	s.rows = nil
	err := s.Children[0].Produce(cb, ec, func(row *tuple.Tuple) error {
		s.rows = append(s.rows, row)
		return nil
	})
	if err != nil {
		return fmt.Errorf("sort materialize: %w", err)
	}

	cb.Section("sort:result")
	cb.Emit("SorterSortParallel",
		cb.Lit(ir.PointerTo(ir.SorterType)),
		cb.Lit(ir.PointerTo(ir.ThreadStateContainerType)),
		cb.Lit(ir.Uint32Type))

	var sortErr error
	sort.SliceStable(s.rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := s.less(s.rows[i], s.rows[j])
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return sortErr
	}

	for _, row := range s.rows {
		s.Current = row
		if err := consume(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *SortTranslator) less(a, b *tuple.Tuple) (bool, error) {
	for _, k := range s.keys {
		fa, err := a.GetField(k.colIdx)
		if err != nil {
			return false, err
		}
		fb, err := b.GetField(k.colIdx)
		if err != nil {
			return false, err
		}
		if fa == nil || fb == nil {
			continue
		}
		ltOp, gtOp := primitives.LessThan, primitives.GreaterThan
		if k.desc {
			ltOp, gtOp = primitives.GreaterThan, primitives.LessThan
		}
		lt, err := fa.Compare(ltOp, fb)
		if err != nil {
			return false, err
		}
		if lt {
			return true, nil
		}
		gt, err := fa.Compare(gtOp, fb)
		if err != nil {
			return false, err
		}
		if gt {
			return false, nil
		}
	}
	return false, nil
}

func (s *SortTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(s.Current, s.Schema, attrIdx)
}
