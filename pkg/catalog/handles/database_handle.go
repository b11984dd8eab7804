// Package handles gives every catalog table a typed handle exposing
// GetXxxEntry(txn, oid) and GetXxxEntry(txn, name) lookups, mirroring
// Postgres/Terrier-style pg_class/pg_attribute/pg_index system catalogs.
// Each entry wraps its underlying row plus a column-OID-to-field map, so
// callers address columns the way the catalog's own bootstrap data does
// (by a fixed small integer, not by struct field name).
package handles

import "ridgebase/pkg/concurrency/transaction"

// DefaultDatabaseOID is ridgebase's single implicit database. The engine
// has no multi-database catalog table of its own - CATALOG_TABLES,
// CATALOG_COLUMNS and CATALOG_INDEXES are all scoped to one database - so
// DatabaseHandle exposes a single fixed bootstrap row rather than wrapping
// a real system table.
const DefaultDatabaseOID = 828

// pg_database column OIDs: oid and datname, by Postgres convention.
const (
	ColDatabaseOID  = 5001
	ColDatabaseName = 5002
)

// defaultDatabaseRow fixes the bootstrap row's two columns.
var defaultDatabaseRow = map[int]int64{
	ColDatabaseOID:  DefaultDatabaseOID,
	ColDatabaseName: 15721,
}

// DatabaseEntry is one row of the (single-row) database catalog.
type DatabaseEntry struct {
	oid     int
	columns map[int]int64
}

func (e *DatabaseEntry) OID() int { return e.oid }

// GetValue looks up a column by its catalog column OID, not its struct
// field name - the same addressing scheme real pg_database rows use.
func (e *DatabaseEntry) GetValue(columnOID int) (int64, bool) {
	v, ok := e.columns[columnOID]
	return v, ok
}

// DatabaseHandle is the entry point for database-level catalog lookups.
type DatabaseHandle struct {
	oid int
}

// GetDatabase returns a handle scoped to the database identified by oid.
func GetDatabase(oid int) *DatabaseHandle {
	return &DatabaseHandle{oid: oid}
}

// GetDatabaseEntry fetches the catalog row for oid. txn is accepted for
// interface parity with every other handle's GetXxxEntry, though the
// single bootstrap row needs no transactional visibility check.
func (h *DatabaseHandle) GetDatabaseEntry(txn *transaction.TransactionContext, oid int) *DatabaseEntry {
	if oid != DefaultDatabaseOID {
		return nil
	}
	return &DatabaseEntry{oid: oid, columns: defaultDatabaseRow}
}
