package sema

import (
	"fmt"

	"ridgebase/pkg/execution/codegen/ir"
)

// DiagnosticKind enumerates the compile-time error taxonomy.
type DiagnosticKind int

const (
	BadArgType DiagnosticKind = iota
	MismatchedArgCount
	UnknownBuiltin
	NotASqlValue
	NotAnAggregator
	BadFunctionShape
	BadPointerCast
	BadParallelScanFunction
)

func (k DiagnosticKind) String() string {
	switch k {
	case BadArgType:
		return "BadArgType"
	case MismatchedArgCount:
		return "MismatchedArgCount"
	case UnknownBuiltin:
		return "UnknownBuiltin"
	case NotASqlValue:
		return "NotASqlValue"
	case NotAnAggregator:
		return "NotAnAggregator"
	case BadFunctionShape:
		return "BadFunctionShape"
	case BadPointerCast:
		return "BadPointerCast"
	case BadParallelScanFunction:
		return "BadParallelScanFunction"
	default:
		return "Unknown"
	}
}

// Diagnostic is one structured compile-time error, keyed by the call
// position that produced it.
type Diagnostic struct {
	Kind     DiagnosticKind
	Pos      ir.Pos
	Callee   string
	ArgIndex int
	Expected string
	Actual   string
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %d:%d in %s(arg %d): expected %s, got %s: %s",
		d.Kind, d.Pos.Line, d.Pos.Col, d.Callee, d.ArgIndex, d.Expected, d.Actual, d.Message)
}

// Reporter accumulates diagnostics for one compilation pass. Compilation
// yields no code if any diagnostic was emitted.
type Reporter struct {
	diags []Diagnostic
}

func (r *Reporter) Report(d Diagnostic) {
	r.diags = append(r.diags, d)
}

func (r *Reporter) HasErrors() bool {
	return len(r.diags) > 0
}

func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}
