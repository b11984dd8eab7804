// Package ddl executes plan.DDLNode operations against the catalog's DDL
// protocols. It is a thin dispatcher: CREATE TABLE/DROP TABLE go straight
// through the catalog's table operations, while CREATE INDEX/DROP INDEX go
// through indexbuild.Coordinator's online two-transaction protocol rather
// than a bare catalog insert/delete.
package ddl

import (
	"fmt"
	"strings"

	"ridgebase/pkg/catalog/indexbuild"
	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/plan"
)

// Executor runs plan.DDLNode operations. Coordinator is required for the
// index variants; it may be nil for a caller that only ever executes
// CREATE/DROP TABLE.
type Executor struct {
	Coordinator *indexbuild.Coordinator
}

func NewExecutor(coord *indexbuild.Coordinator) *Executor {
	return &Executor{Coordinator: coord}
}

// CreateIndex runs the online CREATE INDEX protocol directly. DDLNode
// carries only an operation name and an object name, not the column/type
// information CreateIndexRequest needs, so callers that already have that
// information (the statement layer, before it's lowered to a DDLNode) call
// this directly instead of going through ExecuteDDL.
func (e *Executor) CreateIndex(req indexbuild.CreateIndexRequest) error {
	if e.Coordinator == nil {
		return fmt.Errorf("ddl executor: no index coordinator configured")
	}
	_, err := e.Coordinator.CreateIndex(req)
	return err
}

// ExecuteDDL dispatches a lowered DDLNode. Only DROP INDEX carries enough
// information in the node itself (the index name) to run without
// additional parameters; CREATE INDEX must go through CreateIndex directly.
func (e *Executor) ExecuteDDL(tx *transaction.TransactionContext, node *plan.DDLNode) error {
	switch strings.ToUpper(node.Operation) {
	case "DROP INDEX":
		if e.Coordinator == nil {
			return fmt.Errorf("ddl executor: no index coordinator configured")
		}
		id, err := e.Coordinator.IndexIDByName(tx, node.ObjectName)
		if err != nil {
			return fmt.Errorf("drop index %s: %w", node.ObjectName, err)
		}
		return e.Coordinator.DropIndex(id)
	case "CREATE INDEX":
		return fmt.Errorf("ddl executor: CREATE INDEX %s needs column/type parameters not carried by DDLNode - call CreateIndex directly", node.ObjectName)
	default:
		return fmt.Errorf("ddl executor: unsupported DDL operation %q", node.Operation)
	}
}
