package translator

import (
	"fmt"
	"strconv"
	"strings"

	"ridgebase/pkg/execution/codegen/ir"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

type aggSpec struct {
	fn     string // COUNT, SUM, AVG, MIN, MAX
	colIdx int    // -1 for COUNT(*)
}

type aggState struct {
	count int64
	sum   float64
	min   float64
	max   float64
	seen  bool
}

func (s *aggState) advance(v float64) {
	s.count++
	s.sum += v
	if !s.seen || v < s.min {
		s.min = v
	}
	if !s.seen || v > s.max {
		s.max = v
	}
	s.seen = true
}

func (s *aggState) result(fn string) float64 {
	switch fn {
	case "SUM":
		return s.sum
	case "AVG":
		if s.count == 0 {
			return 0
		}
		return s.sum / float64(s.count)
	case "MIN":
		return s.min
	case "MAX":
		return s.max
	default: // COUNT
		return float64(s.count)
	}
}

// AggregationTranslator is a pipeline breaker: its build phase groups every
// child row into a hash table keyed by the GROUP BY columns, advancing one
// aggState per aggregate function per group; its result phase walks the
// table once, producing one output row per group.
type AggregationTranslator struct {
	Base

	node       *plan.AggregateNode
	groupIdxs  []int
	specs      []aggSpec
	outSchema  *tuple.TupleDescription
	groups     map[string][]*aggState
	groupKeys  map[string][]types.Field
	groupOrder []string
}

// NewAggregationTranslator resolves node's GROUP BY and aggregate-function
// expressions against childSchema.
func NewAggregationTranslator(node *plan.AggregateNode, child OperatorTranslator, childSchema *tuple.TupleDescription) (*AggregationTranslator, error) {
	at := &AggregationTranslator{node: node}
	at.Children = []OperatorTranslator{child}

	groupIdxs := make([]int, len(node.GroupByExprs))
	outTypes := make([]types.Type, 0, len(node.GroupByExprs)+len(node.AggFunctions))
	outNames := make([]string, 0, cap(outTypes))
	for i, g := range node.GroupByExprs {
		idx, err := childSchema.FindFieldIndex(g)
		if err != nil {
			return nil, fmt.Errorf("aggregate group by: %w", err)
		}
		groupIdxs[i] = idx
		t, _ := childSchema.TypeAtIndex(idx)
		outTypes = append(outTypes, t)
		outNames = append(outNames, g)
	}

	specs := make([]aggSpec, len(node.AggFunctions))
	for i, expr := range node.AggFunctions {
		fn, col := parseAggExpr(expr)
		colIdx := -1
		if col != "" && col != "*" {
			idx, err := childSchema.FindFieldIndex(col)
			if err != nil {
				return nil, fmt.Errorf("aggregate function %s: %w", expr, err)
			}
			colIdx = idx
		}
		specs[i] = aggSpec{fn: fn, colIdx: colIdx}
		outTypes = append(outTypes, types.FloatType)
		outNames = append(outNames, expr)
	}

	schema, err := tuple.NewTupleDesc(outTypes, outNames)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	at.groupIdxs = groupIdxs
	at.specs = specs
	at.outSchema = schema
	at.Schema = schema
	return at, nil
}

func parseAggExpr(expr string) (fn, col string) {
	open := strings.IndexByte(expr, '(')
	close := strings.LastIndexByte(expr, ')')
	if open < 0 || close < open {
		return "COUNT", "*"
	}
	return strings.ToUpper(strings.TrimSpace(expr[:open])), strings.TrimSpace(expr[open+1 : close])
}

func (a *AggregationTranslator) IsMaterializer() (isPtr bool) { return true }

func (a *AggregationTranslator) GetMaterializedTuple() *tuple.Tuple { return a.Current }

func (a *AggregationTranslator) Produce(cb *CodeBuilder, ec *runtime.ExecutionContext, consume Consumer) error {
	cb.Section("aggregate:build")
	cb.Emit("AggHashTableInit",
		cb.Lit(ir.PointerTo(ir.AggHashTableType)),
		cb.Lit(ir.PointerTo(ir.MemoryPoolType)),
		cb.Lit(ir.Uint32Type))
	for range a.specs {
		cb.Emit("AggInit", cb.Lit(ir.PointerTo(ir.AggregatorType(ir.KindAggSum))))
	}

	a.groups = make(map[string][]*aggState)
	a.groupKeys = make(map[string][]types.Field)

	err := a.Children[0].Produce(cb, ec, func(row *tuple.Tuple) error {
		key, keyFields, err := a.groupKey(row)
		if err != nil {
			return err
		}
		states, ok := a.groups[key]
		if !ok {
			states = make([]*aggState, len(a.specs))
			for i := range states {
				states[i] = &aggState{}
			}
			a.groups[key] = states
			a.groupKeys[key] = keyFields
			a.groupOrder = append(a.groupOrder, key)
		}
		for i, spec := range a.specs {
			v, err := a.aggValue(row, spec)
			if err != nil {
				return err
			}
			states[i].advance(v)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("aggregate build: %w", err)
	}
	cb.Emit("AggAdvance",
		cb.Lit(ir.PointerTo(ir.AggregatorType(ir.KindAggSum))),
		cb.Lit(ir.PointerTo(ir.SqlRealType)))
	cb.Emit("AggMerge",
		cb.Lit(ir.PointerTo(ir.AggregatorType(ir.KindAggSum))),
		cb.Lit(ir.PointerTo(ir.AggregatorType(ir.KindAggSum))))

	cb.Section("aggregate:result")
	cb.Emit("AggResult", cb.Lit(ir.PointerTo(ir.AggregatorType(ir.KindAggSum))))

	for _, key := range a.groupOrder {
		out := tuple.NewTuple(a.outSchema)
		keyFields := a.groupKeys[key]
		states := a.groups[key]
		for i, f := range keyFields {
			if err := out.SetField(i, f); err != nil {
				return err
			}
		}
		for i, spec := range a.specs {
			r := states[i].result(spec.fn)
			if err := out.SetField(len(keyFields)+i, types.NewFloat64Field(r)); err != nil {
				return err
			}
		}
		a.Current = out
		if err := consume(out); err != nil {
			return err
		}
	}
	return nil
}

func (a *AggregationTranslator) groupKey(row *tuple.Tuple) (string, []types.Field, error) {
	fields := make([]types.Field, len(a.groupIdxs))
	var sb strings.Builder
	for i, idx := range a.groupIdxs {
		f, err := row.GetField(idx)
		if err != nil {
			return "", nil, err
		}
		fields[i] = f
		if f != nil {
			sb.WriteString(f.String())
		}
		sb.WriteByte('\x00')
	}
	return sb.String(), fields, nil
}

func (a *AggregationTranslator) aggValue(row *tuple.Tuple, spec aggSpec) (float64, error) {
	if spec.colIdx < 0 {
		return 1, nil
	}
	f, err := row.GetField(spec.colIdx)
	if err != nil || f == nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(f.String(), 64)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

func (a *AggregationTranslator) GetOutput(attrIdx int) (ir.Expr, error) {
	return fieldExpr(a.Current, a.Schema, attrIdx)
}
