package translator

import (
	"fmt"
	"strconv"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

func errOutOfRange(what string, idx, n int) error {
	return fmt.Errorf("translator: %s index %d out of range [0, %d)", what, idx, n)
}

// sqlKind maps a catalog column type onto the SQL value kind the intrinsic
// contract table checks against. DateType maps to SqlDate; it has no Field
// implementation of its own, so parseLiteral carries date values as
// Int64Field.
func sqlKind(t types.Type) ir.Kind {
	switch t {
	case types.BoolType:
		return ir.KindSqlBool
	case types.FloatType:
		return ir.KindSqlReal
	case types.StringType:
		return ir.KindSqlStringVal
	case types.DateType:
		return ir.KindSqlDate
	default:
		return ir.KindSqlInteger
	}
}

// fieldExpr resolves row's attrIdx-th field against schema's declared type
// and returns an already-resolved literal standing in for the compiled
// GetOutput(attr_idx) expression's result.
func fieldExpr(row *tuple.Tuple, schema *tuple.TupleDescription, attrIdx int) (ir.Expr, error) {
	if row == nil {
		return nil, fmt.Errorf("translator: no current row")
	}
	if schema == nil {
		return nil, fmt.Errorf("translator: no schema bound")
	}
	colType, err := schema.TypeAtIndex(attrIdx)
	if err != nil {
		return nil, err
	}
	if _, err := row.GetField(attrIdx); err != nil {
		return nil, err
	}
	return ir.NewLiteral(ir.Pos{}, ir.Plain(sqlKind(colType))), nil
}

// parseLiteral builds a types.Field from a predicate's string operand,
// typed per the column it's compared against - the runtime stand-in for the
// constant-folding a real parser would have already done.
func parseLiteral(colType types.Type, raw string) (types.Field, error) {
	switch colType {
	case types.BoolType:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse bool literal %q: %w", raw, err)
		}
		return types.NewBoolField(v), nil
	case types.FloatType:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse float literal %q: %w", raw, err)
		}
		return types.NewFloat64Field(v), nil
	case types.StringType:
		return types.NewStringField(raw, len(raw)), nil
	case types.Int64Type:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse int64 literal %q: %w", raw, err)
		}
		return types.NewInt64Field(v), nil
	case types.Uint32Type:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse uint32 literal %q: %w", raw, err)
		}
		return types.NewUint32Field(uint32(v)), nil
	case types.Uint64Type:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse uint64 literal %q: %w", raw, err)
		}
		return types.NewUint64Field(v), nil
	case types.DateType:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse date literal %q: %w", raw, err)
		}
		return types.NewInt64Field(v), nil
	default:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse int32 literal %q: %w", raw, err)
		}
		return types.NewInt32Field(int32(v)), nil
	}
}

// filterCallee maps a predicate operator onto the intrinsic the analyzer
// dispatches a vectorized scan-time comparison through. Like has no
// vectorized filter intrinsic: this returns false for it, and
// SeqScanTranslator then evaluates it as a scalar predicate.
func filterCallee(op primitives.Predicate) (string, bool) {
	switch op {
	case primitives.Equals:
		return "FilterEq", true
	case primitives.NotEqual, primitives.NotEqualsBracket:
		return "FilterNe", true
	case primitives.LessThan:
		return "FilterLt", true
	case primitives.LessThanOrEqual:
		return "FilterLe", true
	case primitives.GreaterThan:
		return "FilterGt", true
	case primitives.GreaterThanOrEqual:
		return "FilterGe", true
	default:
		return "", false
	}
}
