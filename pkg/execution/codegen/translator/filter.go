package translator

import (
	"fmt"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/execution/query"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/tuple"
)

// FilterTranslator wraps a child in a scalar "if(cond)" guard. It never
// materializes - matching rows are passed straight through to consume,
// grounded on pkg/execution/query/filter.go's own predicate-then-forward
// shape.
type FilterTranslator struct {
	Base

	node       *plan.FilterNode
	predicates []*query.Predicate
}

// NewFilterTranslator resolves node's predicates against child's output
// schema.
func NewFilterTranslator(node *plan.FilterNode, child OperatorTranslator, schema *tuple.TupleDescription) (*FilterTranslator, error) {
	ft := &FilterTranslator{node: node}
	ft.Children = []OperatorTranslator{child}
	ft.Schema = schema

	for _, pi := range node.Predicates {
		idx, err := schema.FindFieldIndex(pi.Column)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		colType, err := schema.TypeAtIndex(idx)
		if err != nil {
			return nil, err
		}
		operand, err := parseLiteral(colType, pi.Value)
		if err != nil {
			return nil, fmt.Errorf("filter predicate on %s: %w", pi.Column, err)
		}
		ft.predicates = append(ft.predicates, query.NewPredicate(primitives.ColumnID(idx), pi.Predicate, operand))
	}
	return ft, nil
}

func (f *FilterTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("filter:produce")
	cb.Emit("PCIMatch", cb.Lit(ir.PointerTo(ir.PCIType)), cb.Lit(ir.BoolType))

	return f.Children[0].Produce(cb, ec, func(row *tuple.Tuple) error {
		for _, p := range f.predicates {
			ok, err := p.Filter(row)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		f.Current = row
		return consume(row)
	})
}

func (f *FilterTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(f.Current, f.Schema, attrIdx)
}
