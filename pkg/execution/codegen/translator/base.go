// Package translator implements the operator-to-intrinsic translators: one
// type per physical plan operator, each emitting the intrinsic calls its
// Produce/consume phase would compile to while actually driving the runtime
// bridges (pkg/execution/codegen/runtime) that back those intrinsics.
//
// Translators chain in plan-topological order, parent after child, exactly
// the way pkg/iterator's UnaryOperator/DbFileIterator chain wraps a child
// iterator: a parent's Produce recursively calls its child's Produce with a
// Consumer that pulls the parent's own row logic, bottoming out at a leaf
// scan that drives a runtime iterator directly.
package translator

import (
	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/tuple"
)

// Consumer is the push-based continuation a parent translator hands its
// child: called once per row the child produces.
type Consumer func(row *tuple.Tuple) error

// OperatorTranslator is the shared contract every physical-operator
// translator implements.
type OperatorTranslator interface {
	// InitializeStateFields emits the per-operator state every other hook
	// references (iterator handles, hash tables, sorters).
	InitializeStateFields(cb *CodeBuilder)

	// InitializeStructs emits struct-shaped intrinsic state (aggregator
	// rows, join build-side payload layout) this operator owns.
	InitializeStructs(cb *CodeBuilder)

	// InitializeHelperFunctions emits the function-shaped arguments (hash
	// functions, key-equality testers, comparators) this operator's
	// intrinsic calls need by shape.
	InitializeHelperFunctions(cb *CodeBuilder)

	// InitializeSetup emits the once-per-query Init calls (TableIterInit,
	// JoinHashTableInit, ...) and performs whatever real setup backs them.
	InitializeSetup(cb *CodeBuilder, ec *runtime.ExecutionContext) error

	// InitializeTeardown emits the once-per-query Close/Finalize calls.
	InitializeTeardown(cb *CodeBuilder, ec *runtime.ExecutionContext) error

	// Produce drives this operator's rows through consume, recursing into
	// its child(ren) first for operators that aren't themselves a source.
	Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error

	// GetOutput returns the value this operator's current row holds at
	// attrIdx - the runtime stand-in for a compiled GetOutput(attr_idx)
	// expression.
	GetOutput(attrIdx int) (ir.Expr, error)

	// GetChildOutput returns childIdx's current row value at attrIdx,
	// resolved to type t - used by multi-child operators (join, set ops).
	GetChildOutput(childIdx, attrIdx int, t *ir.Type) (ir.Expr, error)

	// IsMaterializer reports whether this operator is a pipeline breaker
	// that materializes its input before producing output, and if so
	// whether callers should address the materialized row by pointer.
	IsMaterializer() (isPtr bool)

	// GetMaterializedTuple returns the row a materializing operator is
	// currently holding, or nil for a non-materializing operator.
	GetMaterializedTuple() *tuple.Tuple
}

// Base gives every translator no-op defaults for the hooks most operators
// don't need to override, plus bookkeeping (current row, children) shared
// by GetOutput/GetChildOutput implementations.
type Base struct {
	Children []OperatorTranslator
	Current  *tuple.Tuple
	Schema   *tuple.TupleDescription
}

func (b *Base) InitializeStateFields(cb *CodeBuilder)     {}
func (b *Base) InitializeStructs(cb *CodeBuilder)         {}
func (b *Base) InitializeHelperFunctions(cb *CodeBuilder) {}

func (b *Base) InitializeSetup(cb *CodeBuilder, ec *runtime.ExecutionContext) error {
	for _, c := range b.Children {
		if err := c.InitializeSetup(cb, ec); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) InitializeTeardown(cb *CodeBuilder, ec *runtime.ExecutionContext) error {
	for _, c := range b.Children {
		if err := c.InitializeTeardown(cb, ec); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) IsMaterializer() (isPtr bool)        { return false }
func (b *Base) GetMaterializedTuple() *tuple.Tuple { return nil }

// ChildTranslators exposes the translator's children for chain-walking code
// (the pipeline composer) that only has an OperatorTranslator to work with.
func (b *Base) ChildTranslators() []OperatorTranslator { return b.Children }

// GetOutput reads attrIdx off the current row using Schema to resolve its
// SQL kind. Operators with their own notion of "current row" override this.
func (b *Base) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(b.Current, b.Schema, attrIdx)
}

func (b *Base) GetChildOutput(childIdx, attrIdx int, t *ir.Type) (ir.Expr, error) {
	if childIdx < 0 || childIdx >= len(b.Children) {
		return nil, errOutOfRange("child", childIdx, len(b.Children))
	}
	return b.Children[childIdx].GetOutput(attrIdx)
}
