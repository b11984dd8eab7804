package translator

import (
	"fmt"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/tuple"
)

// HashJoinTranslator is a pipeline breaker: its build phase fully drains the
// left (build-side) child into a Go map keyed by join-column hash before its
// probe phase drains the right child, looking up and combining matches. The
// build phase corresponds to JoinHashTableInit/Insert/Build(Parallel); the
// probe phase to JoinHashTableIterHasNext.
type HashJoinTranslator struct {
	Base

	node        *plan.JoinNode
	leftColIdx  int
	rightColIdx int

	table map[primitives.HashCode][]*tuple.Tuple
}

// NewHashJoinTranslator wires build (left) and probe (right) children. The
// join columns are resolved against each side's own output schema.
func NewHashJoinTranslator(node *plan.JoinNode, build, probe OperatorTranslator, buildSchema, probeSchema *tuple.TupleDescription) (*HashJoinTranslator, error) {
	leftCol := node.LeftColumn
	if leftCol == "" {
		leftCol = node.LeftField
	}
	rightCol := node.RightColumn
	if rightCol == "" {
		rightCol = node.RightField
	}
	li, err := buildSchema.FindFieldIndex(leftCol)
	if err != nil {
		return nil, fmt.Errorf("hash join build side: %w", err)
	}
	ri, err := probeSchema.FindFieldIndex(rightCol)
	if err != nil {
		return nil, fmt.Errorf("hash join probe side: %w", err)
	}
	hj := &HashJoinTranslator{node: node, leftColIdx: li, rightColIdx: ri}
	hj.Children = []OperatorTranslator{build, probe}
	hj.Schema = tuple.Combine(buildSchema, probeSchema)
	return hj, nil
}

func (h *HashJoinTranslator) IsMaterializer() (isPtr bool) { return true }

func (h *HashJoinTranslator) GetMaterializedTuple() *tuple.Tuple { return h.Current }

// Produce runs the build phase to completion, then drains the probe child,
// combining and forwarding every match.
func (h *HashJoinTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("hashjoin:build")
	cb.Emit("JoinHashTableInit",
		cb.Lit(ir.PointerTo(ir.JoinHashTableType)),
		cb.Lit(ir.PointerTo(ir.MemoryPoolType)),
		cb.Lit(ir.Uint32Type))
	cb.Emit("JoinHashTableInsert",
		cb.Lit(ir.PointerTo(ir.JoinHashTableType)),
		cb.Lit(ir.Uint64Type))
	cb.Emit("JoinHashTableBuild", cb.Lit(ir.PointerTo(ir.JoinHashTableType)))

	h.table = make(map[primitives.HashCode][]*tuple.Tuple)
	err := h.Children[0].Produce(cb, ec, func(row *tuple.Tuple) error {
		f, err := row.GetField(h.leftColIdx)
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}
		hv, err := f.Hash()
		if err != nil {
			return err
		}
		h.table[hv] = append(h.table[hv], row)
		return nil
	})
	if err != nil {
		return fmt.Errorf("hash join build: %w", err)
	}

	cb.Section("hashjoin:probe")
	cb.Emit("Hash", cb.Lit(ir.SqlIntegerType))
	cb.Emit("JoinHashTableIterHasNext",
		cb.Lit(ir.PointerTo(ir.JoinHashTableIterType)),
		cb.Func([]ir.Kind{ir.KindPointer, ir.KindPointer, ir.KindPointer}, ir.KindBool),
		cb.Lit(ir.PointerTo(ir.Uint8Type)),
		cb.Lit(ir.PointerTo(ir.Uint8Type)))

	return h.Children[1].Produce(cb, ec, func(probeRow *tuple.Tuple) error {
		f, err := probeRow.GetField(h.rightColIdx)
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}
		hv, err := f.Hash()
		if err != nil {
			return err
		}
		for _, buildRow := range h.table[hv] {
			combined, err := tuple.CombineTuples(buildRow, probeRow)
			if err != nil {
				return err
			}
			h.Current = combined
			if err := consume(combined); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *HashJoinTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(h.Current, h.Schema, attrIdx)
}

func (h *HashJoinTranslator) GetChildOutput(childIdx, attrIdx int, t *ir.Type) (ir.Expr, error) {
	if childIdx < 0 || childIdx >= len(h.Children) {
		return nil, errOutOfRange("child", childIdx, len(h.Children))
	}
	return h.Children[childIdx].GetOutput(attrIdx)
}
