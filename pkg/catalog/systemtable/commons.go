package systemtable

import (
	"ridgebase/pkg/catalog/schema"
)

const (
	SystemTableTablesID     = 1
	SystemTableColumnsID    = 2
	SystemTableStatisticsID = 3

	// InvalidTableID marks a schema built before its table has a real heap
	// file ID - the columns and indexes tables' Schema() are built against
	// it during bootstrap, before Initialize assigns the file's real ID.
	// The tables table's Schema() uses SystemTableTablesID instead.
	InvalidTableID = -1
)

var (
	Tables  = &TablesTable{}
	Columns = &ColumnsTable{}
	Stats   = &StatsTable{}
	Indexes = &IndexesTable{}
)

type SystemTable interface {
	Schema() *schema.Schema
	TableName() string
	FileName() string
	PrimaryKey() string
}
