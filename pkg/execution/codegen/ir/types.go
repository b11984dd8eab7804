// Package ir defines the closed universe of intrinsic types the compiled-query
// runtime understands: SQL value types, the opaque engine containers
// (iterators, hash tables, sorters, thread-state), and the derived type
// constructors (pointer-to, function-of, array-of) the semantic analyzer
// resolves calls against.
package ir

import (
	"fmt"
	"sync"
)

// Kind tags a primitive or opaque builtin type. The family is closed: every
// kind the analyzer can ever produce is enumerated here.
type Kind int

const (
	KindInvalid Kind = iota

	// Native kinds, carried by literals and cast results.
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindNil
	KindString

	// SQL value types.
	KindSqlBool
	KindSqlInteger
	KindSqlReal
	KindSqlStringVal
	KindSqlDate

	// Aggregator kinds, one per supported aggregate.
	KindAggCount
	KindAggSum
	KindAggAvg
	KindAggMin
	KindAggMax

	// Opaque engine containers.
	KindProjectedColumnsIterator
	KindTableVectorIterator
	KindIndexIterator
	KindJoinHashTable
	KindJoinHashTableIterator
	KindAggregationHashTable
	KindAggregationHashTableIterator
	KindAggOverflowPartIter
	KindSorter
	KindSorterIterator
	KindFilterManager
	KindMemoryPool
	KindThreadStateContainer
	KindExecutionContext

	// Derived kinds.
	KindPointer
	KindFunction
	KindArray
	KindStringLiteral
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUint8:
		return "Uint8"
	case KindUint16:
		return "Uint16"
	case KindUint32:
		return "Uint32"
	case KindUint64:
		return "Uint64"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindBool:
		return "Bool"
	case KindNil:
		return "Nil"
	case KindString:
		return "String"
	case KindSqlBool:
		return "SqlBool"
	case KindSqlInteger:
		return "SqlInteger"
	case KindSqlReal:
		return "SqlReal"
	case KindSqlStringVal:
		return "SqlStringVal"
	case KindSqlDate:
		return "SqlDate"
	case KindAggCount, KindAggSum, KindAggAvg, KindAggMin, KindAggMax:
		return "Aggregator"
	case KindProjectedColumnsIterator:
		return "ProjectedColumnsIterator"
	case KindTableVectorIterator:
		return "TableVectorIterator"
	case KindIndexIterator:
		return "IndexIterator"
	case KindJoinHashTable:
		return "JoinHashTable"
	case KindJoinHashTableIterator:
		return "JoinHashTableIterator"
	case KindAggregationHashTable:
		return "AggregationHashTable"
	case KindAggregationHashTableIterator:
		return "AggregationHashTableIterator"
	case KindAggOverflowPartIter:
		return "AggOverflowPartIter"
	case KindSorter:
		return "Sorter"
	case KindSorterIterator:
		return "SorterIterator"
	case KindFilterManager:
		return "FilterManager"
	case KindMemoryPool:
		return "MemoryPool"
	case KindThreadStateContainer:
		return "ThreadStateContainer"
	case KindExecutionContext:
		return "ExecutionContext"
	case KindPointer:
		return "Pointer"
	case KindFunction:
		return "Function"
	case KindArray:
		return "Array"
	case KindStringLiteral:
		return "StringLiteral"
	default:
		return "Invalid"
	}
}

// Type is an intrinsic type object. Two calls to the constructors below with
// structurally equal arguments return the SAME *Type: kinds are uniqued, so
// pointer equality is type identity.
type Type struct {
	Kind Kind

	// Set only for KindPointer: the pointee.
	Pointee *Type

	// Set only for KindArray: the element type.
	Elem *Type

	// Set only for KindFunction.
	Params []*Type
	Return *Type
}

func (t *Type) String() string {
	switch t.Kind {
	case KindPointer:
		return "*" + t.Pointee.String()
	case KindArray:
		return "[]" + t.Elem.String()
	case KindFunction:
		ps := ""
		for i, p := range t.Params {
			if i > 0 {
				ps += ", "
			}
			ps += p.String()
		}
		ret := "nil"
		if t.Return != nil {
			ret = t.Return.String()
		}
		return fmt.Sprintf("func(%s) %s", ps, ret)
	default:
		return t.Kind.String()
	}
}

// universe is the uniquing table for every constructed Type. Keyed on a
// structural signature so PointerTo(T) called twice returns the same pointer.
type universe struct {
	mu    sync.Mutex
	plain map[Kind]*Type
	ptr   map[*Type]*Type
	arr   map[*Type]*Type
	fn    map[string]*Type
}

var u = &universe{
	plain: make(map[Kind]*Type),
	ptr:   make(map[*Type]*Type),
	arr:   make(map[*Type]*Type),
	fn:    make(map[string]*Type),
}

// Plain returns the unique Type for a non-derived kind.
func Plain(k Kind) *Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.plain[k]; ok {
		return t
	}
	t := &Type{Kind: k}
	u.plain[k] = t
	return t
}

var (
	Int8Type             = Plain(KindInt8)
	Int16Type            = Plain(KindInt16)
	Int32Type            = Plain(KindInt32)
	Int64Type            = Plain(KindInt64)
	Uint8Type            = Plain(KindUint8)
	Uint16Type           = Plain(KindUint16)
	Uint32Type           = Plain(KindUint32)
	Uint64Type           = Plain(KindUint64)
	Float32Type          = Plain(KindFloat32)
	Float64Type          = Plain(KindFloat64)
	BoolType             = Plain(KindBool)
	NilType              = Plain(KindNil)
	StringType           = Plain(KindString)
	SqlBoolType          = Plain(KindSqlBool)
	SqlIntegerType       = Plain(KindSqlInteger)
	SqlRealType          = Plain(KindSqlReal)
	SqlStringValType     = Plain(KindSqlStringVal)
	SqlDateType          = Plain(KindSqlDate)
	PCIType              = Plain(KindProjectedColumnsIterator)
	TVIType              = Plain(KindTableVectorIterator)
	IndexIteratorType    = Plain(KindIndexIterator)
	JoinHashTableType    = Plain(KindJoinHashTable)
	JoinHashTableIterType = Plain(KindJoinHashTableIterator)
	AggHashTableType     = Plain(KindAggregationHashTable)
	AggHashTableIterType = Plain(KindAggregationHashTableIterator)
	AggOverflowPartIterType = Plain(KindAggOverflowPartIter)
	SorterType           = Plain(KindSorter)
	SorterIteratorType   = Plain(KindSorterIterator)
	FilterManagerType    = Plain(KindFilterManager)
	MemoryPoolType       = Plain(KindMemoryPool)
	ThreadStateContainerType = Plain(KindThreadStateContainer)
	ExecutionContextType = Plain(KindExecutionContext)
	StringLiteralType    = Plain(KindStringLiteral)
)

// AggregatorType returns the unique aggregator type for one of the five
// supported aggregate kinds (count/sum/avg/min/max).
func AggregatorType(k Kind) *Type {
	switch k {
	case KindAggCount, KindAggSum, KindAggAvg, KindAggMin, KindAggMax:
		return Plain(k)
	default:
		return nil
	}
}

// PointerTo returns the unique pointer-to-T type.
func PointerTo(t *Type) *Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	if p, ok := u.ptr[t]; ok {
		return p
	}
	p := &Type{Kind: KindPointer, Pointee: t}
	u.ptr[t] = p
	return p
}

// ArrayOf returns the unique array-of-T type.
func ArrayOf(t *Type) *Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	if a, ok := u.arr[t]; ok {
		return a
	}
	a := &Type{Kind: KindArray, Elem: t}
	u.arr[t] = a
	return a
}

// FunctionType returns the unique function type with the given parameter
// shape and return type (nil return means the function returns nothing).
func FunctionType(params []*Type, ret *Type) *Type {
	key := ""
	for _, p := range params {
		key += fmt.Sprintf("%p,", p)
	}
	key += fmt.Sprintf(">%p", ret)

	u.mu.Lock()
	defer u.mu.Unlock()
	if f, ok := u.fn[key]; ok {
		return f
	}
	f := &Type{Kind: KindFunction, Params: params, Return: ret}
	u.fn[key] = f
	return f
}

// IsSqlValueType reports whether t is one of the five SQL value kinds.
func (t *Type) IsSqlValueType() bool {
	switch t.Kind {
	case KindSqlBool, KindSqlInteger, KindSqlReal, KindSqlStringVal, KindSqlDate:
		return true
	default:
		return false
	}
}

// IsSqlAggregatorType reports whether t is one of the aggregator kinds.
func (t *Type) IsSqlAggregatorType() bool {
	switch t.Kind {
	case KindAggCount, KindAggSum, KindAggAvg, KindAggMin, KindAggMax:
		return true
	default:
		return false
	}
}

func (t *Type) IsIntegerType() bool {
	switch t.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	default:
		return false
	}
}

func (t *Type) IsFloatType() bool {
	return t.Kind == KindFloat32 || t.Kind == KindFloat64
}

func (t *Type) IsPointerType() bool {
	return t.Kind == KindPointer
}

func (t *Type) IsFunctionType() bool {
	return t.Kind == KindFunction
}

func (t *Type) IsBoolType() bool {
	return t.Kind == KindBool
}

func (t *Type) IsNilType() bool {
	return t.Kind == KindNil
}

func (t *Type) IsStringType() bool {
	return t.Kind == KindString || t.Kind == KindStringLiteral
}

// GetPointeeType returns the base type when t is a pointer, and ok=false
// otherwise.
func GetPointeeType(t *Type) (*Type, bool) {
	if t == nil || t.Kind != KindPointer {
		return nil, false
	}
	return t.Pointee, true
}

// IsSpecificBuiltin tests exact identity against a plain kind.
func IsSpecificBuiltin(t *Type, k Kind) bool {
	return t != nil && t == Plain(k)
}
