package translator

import (
	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/sema"
)

// Fragment groups the intrinsic calls one translator hook emitted, keyed by
// a human label (InitializeSetup, Produce, ...) for inspection and tests.
type Fragment struct {
	Label string
	Calls []*ir.CallExpr
}

// CodeBuilder accumulates the intrinsic-call fragments translators emit and
// runs every call through the semantic analyzer as it's added, so a
// malformed emission is caught at the point that produced it rather than at
// some later pass.
type CodeBuilder struct {
	analyzer  *sema.Analyzer
	fragments []*Fragment
	cur       *Fragment
	line      int
}

// NewCodeBuilder builds a CodeBuilder backed by a (possibly shared) analyzer.
// A nil analyzer gets a fresh one.
func NewCodeBuilder(a *sema.Analyzer) *CodeBuilder {
	if a == nil {
		a = sema.NewAnalyzer()
	}
	return &CodeBuilder{analyzer: a}
}

// Section opens a new labeled fragment; subsequent Emit calls attach to it.
func (cb *CodeBuilder) Section(label string) {
	f := &Fragment{Label: label}
	cb.fragments = append(cb.fragments, f)
	cb.cur = f
}

func (cb *CodeBuilder) pos() ir.Pos {
	cb.line++
	return ir.Pos{Line: cb.line, Col: 1}
}

// Emit constructs a CallExpr for callee, checks it immediately, and appends
// it to the current section (opening an unlabeled one if none is open).
func (cb *CodeBuilder) Emit(callee string, args ...ir.Expr) *ir.CallExpr {
	call := ir.NewCallExpr(cb.pos(), callee, args)
	cb.analyzer.Check(call)
	if cb.cur == nil {
		cb.Section("")
	}
	cb.cur.Calls = append(cb.cur.Calls, call)
	return call
}

// Lit builds an already-resolved literal argument of type t - the stand-in
// for a value the (out of scope) expression parser would otherwise produce.
func (cb *CodeBuilder) Lit(t *ir.Type) ir.Expr {
	return ir.NewLiteral(cb.pos(), t)
}

// Func builds a function-shape argument (comparator, equality tester, probe
// function) for intrinsics that take a callback by shape.
func (cb *CodeBuilder) Func(params []ir.Kind, ret ir.Kind) ir.Expr {
	return ir.NewFuncShape(cb.pos(), params, ret)
}

func (cb *CodeBuilder) Fragments() []*Fragment { return cb.fragments }

func (cb *CodeBuilder) Diagnostics() []sema.Diagnostic { return cb.analyzer.Reporter.Diagnostics() }

func (cb *CodeBuilder) HasErrors() bool { return cb.analyzer.Reporter.HasErrors() }
