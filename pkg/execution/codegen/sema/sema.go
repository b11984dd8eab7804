// Package sema is the semantic analyzer for the intrinsic operator DSL: for
// every call to a recognized intrinsic it verifies arity and argument types
// and records the call's result type, or emits one diagnostic and leaves the
// call poisoned (unresolved).
package sema

import (
	"ridgebase/pkg/execution/codegen/ir"
)

// Analyzer checks intrinsic calls against the contract table and accumulates
// diagnostics in a Reporter shared by the whole analysis pass.
type Analyzer struct {
	Reporter *Reporter
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{Reporter: &Reporter{}}
}

// Check resolves a call's argument list (recursively, for nested intrinsic
// calls) then dispatches on callee identity. A failed check reports exactly
// one diagnostic and leaves call unresolved; it never panics - an
// unrecognized callee is reported as UnknownBuiltin, not treated as fatal,
// since the analyzer cannot distinguish a malformed program from a future
// intrinsic it hasn't learned yet.
func (a *Analyzer) Check(call *ir.CallExpr) {
	before := len(a.Reporter.Diagnostics())
	for _, arg := range call.Args {
		if nested, ok := arg.(*ir.CallExpr); ok && !nested.IsResolved() {
			a.Check(nested)
		}
	}

	// An argument left without a type poisons this call: it stays
	// unresolved, and a diagnostic is added only when the nested check
	// reported none (a nested call whose result is nil).
	for i, arg := range call.Args {
		if arg.ResolvedType() == nil {
			if len(a.Reporter.Diagnostics()) == before {
				a.fail(call, BadArgType, i, "typed value", "<unresolved>", "argument has no type")
			}
			return
		}
	}

	switch call.Callee {
	case "PtrCast":
		a.checkPtrCast(call)
	case "SizeOf":
		a.checkSizeOf(call)
	case "BoolToSql":
		a.checkToSql(call, ir.BoolType, ir.SqlBoolType)
	case "IntToSql":
		a.checkIntToSql(call)
	case "FloatToSql":
		a.checkToSql(call, ir.Float64Type, ir.SqlRealType)
	case "SqlToBool":
		a.checkSqlToBool(call)
	case "FilterEq", "FilterNe", "FilterLt", "FilterLe", "FilterGt", "FilterGe":
		a.checkFilterComparison(call)
	case "TableIterInit":
		a.checkTableIterInit(call)
	case "TableIterAdvance":
		a.checkUnaryPointer(call, ir.TVIType, ir.BoolType)
	case "TableIterGetPCI":
		a.checkUnaryPointer(call, ir.TVIType, ir.PointerTo(ir.PCIType))
	case "TableIterClose":
		a.checkUnaryPointer(call, ir.TVIType, nil)
	case "TableIterParallel":
		a.checkTableIterParallel(call)
	case "PCIMatch":
		a.checkPCIMatch(call)
	case "PCIHasNext", "PCIAdvance":
		a.checkUnaryPointer(call, ir.PCIType, ir.BoolType)
	case "PCIGetInt":
		a.checkPCIAccessor(call, ir.SqlIntegerType)
	case "PCIGetBool":
		a.checkPCIAccessor(call, ir.SqlBoolType)
	case "PCIGetReal":
		a.checkPCIAccessor(call, ir.SqlRealType)
	case "PCIGetString":
		a.checkPCIAccessor(call, ir.SqlStringValType)
	case "PCIGetDate":
		a.checkPCIAccessor(call, ir.SqlDateType)
	case "Hash":
		a.checkHash(call)
	case "FilterManagerInsertFilter":
		a.checkFilterManagerInsertFilter(call)
	case "AggHashTableInit":
		a.checkAggHashTableInit(call)
	case "AggHashTableLookup":
		a.checkAggHashTableLookup(call)
	case "AggHashTableProcessBatch":
		a.checkAggHashTableProcessBatch(call)
	case "AggInit", "AggReset":
		a.checkAggInitReset(call)
	case "AggAdvance":
		a.checkAggAdvance(call)
	case "AggMerge":
		a.checkAggMerge(call)
	case "AggResult":
		a.checkAggResult(call)
	case "JoinHashTableInit":
		a.checkJoinHashTableInit(call)
	case "JoinHashTableInsert":
		a.checkJoinHashTableInsert(call)
	case "JoinHashTableBuild":
		a.checkArity(call, 1, func() { a.resolve(call, nil) })
	case "JoinHashTableBuildParallel":
		a.checkJoinHashTableBuildParallel(call)
	case "JoinHashTableIterHasNext":
		a.checkJoinHashTableIterHasNext(call)
	case "SorterInit":
		a.checkSorterInit(call)
	case "SorterSortParallel":
		a.checkSorterSortParallel(call)
	case "SorterSortTopKParallel":
		a.checkSorterSortTopKParallel(call)
	case "Sin", "Cos", "Cot", "Tan", "ACos", "ASin", "ATan":
		a.checkUnarySqlReal(call)
	case "ATan2":
		a.checkATan2(call)
	case "OutputAlloc":
		a.checkUnaryPointer(call, ir.ExecutionContextType, ir.PointerTo(ir.Uint8Type))
	case "OutputAdvance", "OutputFinalize":
		a.checkUnaryPointer(call, ir.ExecutionContextType, nil)
	case "OutputSetNull":
		a.checkOutputSetNull(call)
	case "IndexIteratorInit":
		a.checkIndexIteratorInit(call)
	case "IndexIteratorScanKey":
		a.checkIndexIteratorScanKey(call)
	default:
		a.Reporter.Report(Diagnostic{
			Kind: UnknownBuiltin, Pos: call.Position(), Callee: call.Callee,
			Message: "no calling contract registered for this intrinsic",
		})
	}
}

func (a *Analyzer) resolve(call *ir.CallExpr, t *ir.Type) {
	call.SetResolvedType(t)
}

func (a *Analyzer) fail(call *ir.CallExpr, kind DiagnosticKind, argIndex int, expected, actual, msg string) {
	a.Reporter.Report(Diagnostic{
		Kind: kind, Pos: call.Position(), Callee: call.Callee,
		ArgIndex: argIndex, Expected: expected, Actual: actual, Message: msg,
	})
}

func (a *Analyzer) checkArity(call *ir.CallExpr, n int, onOK func()) {
	if len(call.Args) != n {
		a.fail(call, MismatchedArgCount, -1, itoa(n), itoa(len(call.Args)), "wrong argument count")
		return
	}
	onOK()
}

func (a *Analyzer) checkArityRange(call *ir.CallExpr, min int, onOK func()) bool {
	if len(call.Args) < min {
		a.fail(call, MismatchedArgCount, -1, "at least "+itoa(min), itoa(len(call.Args)), "wrong argument count")
		return false
	}
	onOK()
	return true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func pointeeIs(t *ir.Type, target *ir.Type) bool {
	p, ok := ir.GetPointeeType(t)
	return ok && p == target
}

func (a *Analyzer) checkUnaryPointer(call *ir.CallExpr, pointee, result *ir.Type) {
	a.checkArity(call, 1, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), pointee) {
			a.fail(call, BadArgType, 0, "*"+pointee.String(), typeName(call.Args[0]), "")
			return
		}
		a.resolve(call, result)
	})
}

func typeName(e ir.Expr) string {
	if e.ResolvedType() == nil {
		return "<unresolved>"
	}
	return e.ResolvedType().String()
}

func (a *Analyzer) checkToSql(call *ir.CallExpr, native, sqlType *ir.Type) {
	a.checkArity(call, 1, func() {
		if call.Args[0].ResolvedType() != native {
			a.fail(call, BadArgType, 0, native.String(), typeName(call.Args[0]), "")
			return
		}
		a.resolve(call, sqlType)
	})
}

func (a *Analyzer) checkIntToSql(call *ir.CallExpr) {
	a.checkArity(call, 1, func() {
		if !call.Args[0].ResolvedType().IsIntegerType() {
			a.fail(call, BadArgType, 0, "integer", typeName(call.Args[0]), "")
			return
		}
		a.resolve(call, ir.SqlIntegerType)
	})
}

func (a *Analyzer) checkSqlToBool(call *ir.CallExpr) {
	a.checkArity(call, 1, func() {
		if call.Args[0].ResolvedType() != ir.SqlBoolType {
			a.fail(call, NotASqlValue, 0, "SqlBool", typeName(call.Args[0]), "")
			return
		}
		a.resolve(call, ir.BoolType)
	})
}

// checkPtrCast handles PtrCast's pre-resolution rewrite: argument 0 arrives
// parsed as a dereference expression because the grammar can't distinguish a
// type expression from an expression at call sites. We don't re-parse here
// (no parser in scope) - the caller is expected to have already supplied
// arg 0 already resolved to the target pointer type; we only verify both
// operands resolve to pointers and propagate arg 0's type.
func (a *Analyzer) checkPtrCast(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		t0 := call.Args[0].ResolvedType()
		t1 := call.Args[1].ResolvedType()
		if t0 == nil || !t0.IsPointerType() {
			a.fail(call, BadPointerCast, 0, "pointer type", typeName(call.Args[0]), "arg 0 must rewrite to a pointer-type representation")
			return
		}
		if t1 == nil || !t1.IsPointerType() {
			a.fail(call, BadPointerCast, 1, "pointer", typeName(call.Args[1]), "")
			return
		}
		a.resolve(call, t0)
	})
}

func (a *Analyzer) checkSizeOf(call *ir.CallExpr) {
	a.checkArity(call, 1, func() {
		a.resolve(call, ir.Uint32Type)
	})
}

func (a *Analyzer) checkFilterComparison(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.PCIType) {
			a.fail(call, BadArgType, 0, "*ProjectedColumnsIterator", typeName(call.Args[0]), "")
			return
		}
		if call.Args[1].ResolvedType() != ir.Int32Type {
			a.fail(call, BadArgType, 1, "Int32", typeName(call.Args[1]), "column index")
			return
		}
		a.resolve(call, ir.Int32Type)
	})
}

func (a *Analyzer) checkTableIterInit(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.TVIType) {
			a.fail(call, BadArgType, 0, "*TableVectorIterator", typeName(call.Args[0]), "")
			return
		}
		if !call.Args[1].ResolvedType().IsStringType() {
			a.fail(call, BadArgType, 1, "string literal", typeName(call.Args[1]), "table name")
			return
		}
		if !pointeeIs(call.Args[2].ResolvedType(), ir.ExecutionContextType) {
			a.fail(call, BadArgType, 2, "*ExecutionContext", typeName(call.Args[2]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkTableIterParallel(call *ir.CallExpr) {
	a.checkArity(call, 4, func() {
		if !call.Args[0].ResolvedType().IsStringType() {
			a.fail(call, BadArgType, 0, "string literal", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[2].ResolvedType(), ir.ThreadStateContainerType) {
			a.fail(call, BadArgType, 2, "*ThreadStateContainer", typeName(call.Args[2]), "")
			return
		}
		fn, ok := call.Args[3].(*ir.FuncShape)
		if !ok || len(fn.ParamKinds) != 3 {
			a.fail(call, BadParallelScanFunction, 3, "func(opaque*, opaque*, *TableVectorIterator)", typeName(call.Args[3]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkPCIMatch(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.PCIType) {
			a.fail(call, BadArgType, 0, "*ProjectedColumnsIterator", typeName(call.Args[0]), "")
			return
		}
		// Implicit coercion: a SqlBool argument is accepted and treated as
		// if an inserted cast node had already lowered it to native bool.
		t := call.Args[1].ResolvedType()
		if t != ir.BoolType && t != ir.SqlBoolType {
			a.fail(call, BadArgType, 1, "bool (or SqlBool, implicitly coerced)", typeName(call.Args[1]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkPCIAccessor(call *ir.CallExpr, result *ir.Type) {
	if len(call.Args) < 1 || len(call.Args) > 2 {
		a.fail(call, MismatchedArgCount, -1, "1 or 2", itoa(len(call.Args)), "")
		return
	}
	if !pointeeIs(call.Args[0].ResolvedType(), ir.PCIType) {
		a.fail(call, BadArgType, 0, "*ProjectedColumnsIterator", typeName(call.Args[0]), "")
		return
	}
	a.resolve(call, result)
}

func (a *Analyzer) checkHash(call *ir.CallExpr) {
	a.checkArityRange(call, 1, func() {
		for i, arg := range call.Args {
			if !arg.ResolvedType().IsSqlValueType() {
				a.fail(call, NotASqlValue, i, "SQL value type", typeName(arg), "")
				return
			}
		}
		a.resolve(call, ir.Uint64Type)
	})
}

func (a *Analyzer) checkFilterManagerInsertFilter(call *ir.CallExpr) {
	a.checkArityRange(call, 2, func() {
		for i := 1; i < len(call.Args); i++ {
			fn, ok := call.Args[i].(*ir.FuncShape)
			if !ok || len(fn.ParamKinds) != 1 {
				a.fail(call, BadFunctionShape, i, "func(*ProjectedColumnsIterator) Int*", typeName(call.Args[i]), "")
				return
			}
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkAggHashTableInit(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.AggHashTableType) {
			a.fail(call, BadArgType, 0, "*AggregationHashTable", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.MemoryPoolType) {
			a.fail(call, BadArgType, 1, "*MemoryPool", typeName(call.Args[1]), "")
			return
		}
		if call.Args[2].ResolvedType() != ir.Uint32Type {
			a.fail(call, BadArgType, 2, "Uint32", typeName(call.Args[2]), "payload size")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkAggHashTableLookup(call *ir.CallExpr) {
	a.checkArity(call, 4, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.AggHashTableType) {
			a.fail(call, BadArgType, 0, "*AggregationHashTable", typeName(call.Args[0]), "")
			return
		}
		if call.Args[1].ResolvedType() != ir.Uint64Type {
			a.fail(call, BadArgType, 1, "Uint64", typeName(call.Args[1]), "hash")
			return
		}
		if _, ok := call.Args[2].(*ir.FuncShape); !ok {
			a.fail(call, BadFunctionShape, 2, "key-equality function", typeName(call.Args[2]), "")
			return
		}
		if !call.Args[3].ResolvedType().IsPointerType() {
			a.fail(call, BadArgType, 3, "pointer", typeName(call.Args[3]), "probe pointer")
			return
		}
		a.resolve(call, ir.PointerTo(ir.Uint8Type))
	})
}

// checkAggHashTableProcessBatch verifies argument 1 is a pointer to a PCI
// pointer (**ProjectedColumnsIterator). The source's own check inverts this
// condition; the intent, per the spec's open question, is the double
// pointer, which is what we enforce here.
func (a *Analyzer) checkAggHashTableProcessBatch(call *ir.CallExpr) {
	a.checkArity(call, 7, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.AggHashTableType) {
			a.fail(call, BadArgType, 0, "*AggregationHashTable", typeName(call.Args[0]), "")
			return
		}
		t1 := call.Args[1].ResolvedType()
		inner, ok := ir.GetPointeeType(t1)
		if !ok || !pointeeIs(inner, ir.PCIType) {
			a.fail(call, BadArgType, 1, "**ProjectedColumnsIterator", typeName(call.Args[1]), "")
			return
		}
		for i := 2; i <= 5; i++ {
			if _, ok := call.Args[i].(*ir.FuncShape); !ok {
				a.fail(call, BadFunctionShape, i, "function", typeName(call.Args[i]), "")
				return
			}
		}
		if !call.Args[6].ResolvedType().IsBoolType() {
			a.fail(call, BadArgType, 6, "bool", typeName(call.Args[6]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkAggInitReset(call *ir.CallExpr) {
	a.checkArityRange(call, 1, func() {
		for i, arg := range call.Args {
			pointee, ok := ir.GetPointeeType(arg.ResolvedType())
			if !ok || !pointee.IsSqlAggregatorType() {
				a.fail(call, NotAnAggregator, i, "pointer to aggregator", typeName(arg), "")
				return
			}
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkAggAdvance(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		pointee, ok := ir.GetPointeeType(call.Args[0].ResolvedType())
		if !ok || !pointee.IsSqlAggregatorType() {
			a.fail(call, NotAnAggregator, 0, "pointer to aggregator", typeName(call.Args[0]), "")
			return
		}
		valPointee, ok := ir.GetPointeeType(call.Args[1].ResolvedType())
		if !ok || !valPointee.IsSqlValueType() {
			a.fail(call, NotASqlValue, 1, "*SQL value", typeName(call.Args[1]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkAggMerge(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		for i := 0; i < 2; i++ {
			pointee, ok := ir.GetPointeeType(call.Args[i].ResolvedType())
			if !ok || !pointee.IsSqlAggregatorType() {
				a.fail(call, NotAnAggregator, i, "pointer to aggregator", typeName(call.Args[i]), "")
				return
			}
		}
		a.resolve(call, nil)
	})
}

// checkAggResult always resolves to SqlInteger regardless of the
// aggregator's own input type. This is a known TODO in the source (the spec
// calls it out explicitly): a faithful implementation would propagate the
// aggregator's SQL type, but we preserve the documented behavior rather than
// silently changing it.
func (a *Analyzer) checkAggResult(call *ir.CallExpr) {
	a.checkArity(call, 1, func() {
		pointee, ok := ir.GetPointeeType(call.Args[0].ResolvedType())
		if !ok || !pointee.IsSqlAggregatorType() {
			a.fail(call, NotAnAggregator, 0, "pointer to aggregator", typeName(call.Args[0]), "")
			return
		}
		a.resolve(call, ir.SqlIntegerType)
	})
}

func (a *Analyzer) checkJoinHashTableInit(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.JoinHashTableType) {
			a.fail(call, BadArgType, 0, "*JoinHashTable", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.MemoryPoolType) {
			a.fail(call, BadArgType, 1, "*MemoryPool", typeName(call.Args[1]), "")
			return
		}
		if call.Args[2].ResolvedType() != ir.Uint32Type {
			a.fail(call, BadArgType, 2, "Uint32", typeName(call.Args[2]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkJoinHashTableInsert(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.JoinHashTableType) {
			a.fail(call, BadArgType, 0, "*JoinHashTable", typeName(call.Args[0]), "")
			return
		}
		if call.Args[1].ResolvedType() != ir.Uint64Type {
			a.fail(call, BadArgType, 1, "Uint64", typeName(call.Args[1]), "hash")
			return
		}
		a.resolve(call, ir.PointerTo(ir.Uint8Type))
	})
}

func (a *Analyzer) checkJoinHashTableBuildParallel(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.JoinHashTableType) {
			a.fail(call, BadArgType, 0, "*JoinHashTable", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.ThreadStateContainerType) {
			a.fail(call, BadArgType, 1, "*ThreadStateContainer", typeName(call.Args[1]), "")
			return
		}
		if call.Args[2].ResolvedType() != ir.Uint32Type {
			a.fail(call, BadArgType, 2, "Uint32", typeName(call.Args[2]), "offset")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkJoinHashTableIterHasNext(call *ir.CallExpr) {
	a.checkArity(call, 4, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.JoinHashTableIterType) {
			a.fail(call, BadArgType, 0, "*JoinHashTableIterator", typeName(call.Args[0]), "")
			return
		}
		fn, ok := call.Args[1].(*ir.FuncShape)
		if !ok || len(fn.ParamKinds) != 3 || fn.ReturnKind != ir.KindBool {
			a.fail(call, BadFunctionShape, 1, "func(*?,*?,*?) bool", typeName(call.Args[1]), "")
			return
		}
		a.resolve(call, ir.BoolType)
	})
}

func (a *Analyzer) checkSorterInit(call *ir.CallExpr) {
	a.checkArity(call, 4, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.SorterType) {
			a.fail(call, BadArgType, 0, "*Sorter", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.MemoryPoolType) {
			a.fail(call, BadArgType, 1, "*MemoryPool", typeName(call.Args[1]), "")
			return
		}
		fn, ok := call.Args[2].(*ir.FuncShape)
		if !ok || len(fn.ParamKinds) != 2 || fn.ReturnKind != ir.KindInt32 {
			a.fail(call, BadFunctionShape, 2, "func(*?,*?) Int32", typeName(call.Args[2]), "")
			return
		}
		if call.Args[3].ResolvedType() != ir.Uint32Type {
			a.fail(call, BadArgType, 3, "Uint32", typeName(call.Args[3]), "tuple size")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkSorterSortParallel(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.SorterType) {
			a.fail(call, BadArgType, 0, "*Sorter", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.ThreadStateContainerType) {
			a.fail(call, BadArgType, 1, "*ThreadStateContainer", typeName(call.Args[1]), "")
			return
		}
		if call.Args[2].ResolvedType() != ir.Uint32Type {
			a.fail(call, BadArgType, 2, "Uint32", typeName(call.Args[2]), "offset")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkSorterSortTopKParallel(call *ir.CallExpr) {
	a.checkArity(call, 4, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.SorterType) {
			a.fail(call, BadArgType, 0, "*Sorter", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.ThreadStateContainerType) {
			a.fail(call, BadArgType, 1, "*ThreadStateContainer", typeName(call.Args[1]), "")
			return
		}
		if call.Args[2].ResolvedType() != ir.Uint32Type {
			a.fail(call, BadArgType, 2, "Uint32", typeName(call.Args[2]), "offset")
			return
		}
		if call.Args[3].ResolvedType() != ir.Uint64Type {
			a.fail(call, BadArgType, 3, "Uint64", typeName(call.Args[3]), "K")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkUnarySqlReal(call *ir.CallExpr) {
	a.checkArity(call, 1, func() {
		if call.Args[0].ResolvedType() != ir.SqlRealType {
			a.fail(call, NotASqlValue, 0, "SqlReal", typeName(call.Args[0]), "")
			return
		}
		a.resolve(call, ir.SqlRealType)
	})
}

func (a *Analyzer) checkATan2(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		for i := 0; i < 2; i++ {
			if call.Args[i].ResolvedType() != ir.SqlRealType {
				a.fail(call, NotASqlValue, i, "SqlReal", typeName(call.Args[i]), "")
				return
			}
		}
		a.resolve(call, ir.SqlRealType)
	})
}

func (a *Analyzer) checkOutputSetNull(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.ExecutionContextType) {
			a.fail(call, BadArgType, 0, "*ExecutionContext", typeName(call.Args[0]), "")
			return
		}
		if !call.Args[1].ResolvedType().IsIntegerType() {
			a.fail(call, BadArgType, 1, "integer", typeName(call.Args[1]), "column index")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkIndexIteratorInit(call *ir.CallExpr) {
	a.checkArity(call, 3, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.IndexIteratorType) {
			a.fail(call, BadArgType, 0, "*IndexIterator", typeName(call.Args[0]), "")
			return
		}
		if !call.Args[1].ResolvedType().IsStringType() {
			a.fail(call, BadArgType, 1, "string", typeName(call.Args[1]), "index name")
			return
		}
		if !pointeeIs(call.Args[2].ResolvedType(), ir.ExecutionContextType) {
			a.fail(call, BadArgType, 2, "*ExecutionContext", typeName(call.Args[2]), "")
			return
		}
		a.resolve(call, nil)
	})
}

func (a *Analyzer) checkIndexIteratorScanKey(call *ir.CallExpr) {
	a.checkArity(call, 2, func() {
		if !pointeeIs(call.Args[0].ResolvedType(), ir.IndexIteratorType) {
			a.fail(call, BadArgType, 0, "*IndexIterator", typeName(call.Args[0]), "")
			return
		}
		if !pointeeIs(call.Args[1].ResolvedType(), ir.Int8Type) {
			a.fail(call, BadArgType, 1, "*Int8", typeName(call.Args[1]), "byte buffer")
			return
		}
		a.resolve(call, nil)
	})
}
