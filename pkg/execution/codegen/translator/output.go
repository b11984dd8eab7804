package translator

import (
	"fmt"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/tuple"
)

// OutputTranslator is the root of every translator chain: it drains its
// child and writes each row into an OutputBuffer, flushing at the end of the
// pipeline via Finalize.
type OutputTranslator struct {
	Base

	buf *runtime.OutputBuffer
}

// NewOutputTranslator wraps child, writing rows into buf.
func NewOutputTranslator(child OperatorTranslator, schema *tuple.TupleDescription, buf *runtime.OutputBuffer) *OutputTranslator {
	ot := &OutputTranslator{buf: buf}
	ot.Children = []OperatorTranslator{child}
	ot.Schema = schema
	return ot
}

func (o *OutputTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("output:produce")
	cb.Emit("OutputAlloc", cb.Lit(ir.PointerTo(ir.ExecutionContextType)))
	cb.Emit("OutputAdvance", cb.Lit(ir.PointerTo(ir.ExecutionContextType)))

	err := o.Children[0].Produce(cb, ec, func(row *tuple.Tuple) error {
		dst := o.buf.Alloc()
		for i := 0; i < row.TupleDesc.NumFields(); i++ {
			f, err := row.GetField(i)
			if err != nil {
				return err
			}
			if f == nil {
				o.buf.SetNull(i)
				continue
			}
			if err := dst.SetField(i, f); err != nil {
				return err
			}
		}
		if err := o.buf.Advance(); err != nil {
			return err
		}
		o.Current = row
		if consume != nil {
			return consume(row)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("output produce: %w", err)
	}

	cb.Emit("OutputFinalize", cb.Lit(ir.PointerTo(ir.ExecutionContextType)))
	o.buf.Finalize()
	return nil
}

func (o *OutputTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(o.Current, o.Schema, attrIdx)
}
