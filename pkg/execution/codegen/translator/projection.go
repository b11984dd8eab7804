package translator

import (
	"fmt"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

// ProjectionTranslator reorders a child's GetOutput lookups into a narrower
// output row. Like FilterTranslator it never materializes; each input row
// yields exactly one output row, built and handed to consume in Produce.
type ProjectionTranslator struct {
	Base

	node      *plan.ProjectNode
	childIdxs []int
	outSchema *tuple.TupleDescription
}

// NewProjectionTranslator resolves node's projected columns against
// childSchema and builds the narrower output schema.
func NewProjectionTranslator(node *plan.ProjectNode, child OperatorTranslator, childSchema *tuple.TupleDescription) (*ProjectionTranslator, error) {
	pt := &ProjectionTranslator{node: node}
	pt.Children = []OperatorTranslator{child}

	idxs := make([]int, len(node.Columns))
	outTypes := make([]types.Type, len(node.Columns))
	for i, col := range node.Columns {
		idx, err := childSchema.FindFieldIndex(col)
		if err != nil {
			return nil, fmt.Errorf("projection: %w", err)
		}
		idxs[i] = idx
		t, err := childSchema.TypeAtIndex(idx)
		if err != nil {
			return nil, err
		}
		outTypes[i] = t
	}
	names := node.ColumnNames
	if len(names) != len(node.Columns) {
		names = node.Columns
	}
	schema, err := tuple.NewTupleDesc(outTypes, names)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	pt.childIdxs = idxs
	pt.outSchema = schema
	pt.Schema = schema
	return pt, nil
}

func (p *ProjectionTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("projection:produce")
	for range p.childIdxs {
		cb.Emit("PCIGetInt", cb.Lit(ir.PointerTo(ir.PCIType)))
	}

	return p.Children[0].Produce(cb, ec, func(row *tuple.Tuple) error {
		out := tuple.NewTuple(p.outSchema)
		for i, srcIdx := range p.childIdxs {
			f, err := row.GetField(srcIdx)
			if err != nil {
				return err
			}
			if err := out.SetField(i, f); err != nil {
				return err
			}
		}
		p.Current = out
		return consume(out)
	})
}

func (p *ProjectionTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(p.Current, p.Schema, attrIdx)
}
