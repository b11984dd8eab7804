package query

import (
	"fmt"
	"ridgebase/pkg/tuple"
)

// SetOperationType identifies which set operation a plan node represents.
// Each operation (Union, Intersect, Except) carries its own iterator
// implementation; this type is used by the planner to tag which one to
// build.
type SetOperationType int

const (
	SetUnion SetOperationType = iota
	SetIntersect
	SetExcept
)

// validateSchemaCompatibility checks that two tuple schemas have the same
// number of fields with matching types at every position, as required by
// UNION/INTERSECT/EXCEPT.
func validateSchemaCompatibility(left, right *tuple.TupleDescription) error {
	if left.NumFields() != right.NumFields() {
		return fmt.Errorf("schema mismatch: left has %d fields, right has %d fields",
			left.NumFields(), right.NumFields())
	}

	for i := 0; i < left.NumFields(); i++ {
		leftType, _ := left.TypeAtIndex(i)
		rightType, _ := right.TypeAtIndex(i)
		if leftType != rightType {
			return fmt.Errorf("schema mismatch at field %d: left type %v, right type %v",
				i, leftType, rightType)
		}
	}

	return nil
}
