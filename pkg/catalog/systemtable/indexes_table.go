package systemtable

import (
	"fmt"
	"ridgebase/pkg/catalog/schema"
	"ridgebase/pkg/storage/index"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

// IndexMetadata represents metadata for a database index, including the
// online-build state machine flags described by the CREATE INDEX protocol:
// an index becomes catalog-visible (IndexReady) before it is usable by
// readers (IndexValid). Whether a background scan is still populating the
// index is tracked by the indexbuild coordinator, not by a field here.
type IndexMetadata struct {
	IndexID    int
	IndexName  string
	TableID    int
	ColumnName string
	IndexType  index.IndexType
	FilePath   string
	CreatedAt  int64 // Unix timestamp

	IndexReady    bool // catalog entry visible to writers that must maintain the index
	IndexValid    bool // usable by readers; false until the build scan succeeds
	IndexLive     bool // available for online DML, as opposed to being built offline
	IndexPrimary  bool // backs a primary key constraint
	IndexUnique   bool // build must reject duplicate keys
	BuildGeneration int64 // incremented each time a (re)build pass starts
}

type IndexesTable struct {
}

// Schema returns the schema for the CATALOG_INDEXES system table.
func (it *IndexesTable) Schema() *schema.Schema {
	sch, _ := schema.NewSchemaBuilder(InvalidTableID, it.TableName()).
		AddPrimaryKey("index_id", types.IntType).
		AddColumn("index_name", types.StringType).
		AddColumn("table_id", types.IntType).
		AddColumn("column_name", types.StringType).
		AddColumn("index_type", types.StringType).
		AddColumn("file_path", types.StringType).
		AddColumn("created_at", types.IntType).
		AddColumn("indisready", types.BoolType).
		AddColumn("indisvalid", types.BoolType).
		AddColumn("indislive", types.BoolType).
		AddColumn("indisprimary", types.BoolType).
		AddColumn("indisunique", types.BoolType).
		AddColumn("build_generation", types.IntType).
		Build()
	return sch
}

func (it *IndexesTable) TableName() string {
	return "CATALOG_INDEXES"
}

func (it *IndexesTable) FileName() string {
	return "catalog_indexes.dat"
}

func (it *IndexesTable) PrimaryKey() string {
	return "index_id"
}

func (it *IndexesTable) GetNumFields() int {
	return 13
}

// CreateTuple creates a tuple from IndexMetadata
func (it *IndexesTable) CreateTuple(im IndexMetadata) *tuple.Tuple {
	return tuple.NewBuilder(it.Schema().TupleDesc).
		AddInt(int64(im.IndexID)).
		AddString(im.IndexName).
		AddInt(int64(im.TableID)).
		AddString(im.ColumnName).
		AddString(string(im.IndexType)).
		AddString(im.FilePath).
		AddInt(im.CreatedAt).
		AddBool(im.IndexReady).
		AddBool(im.IndexValid).
		AddBool(im.IndexLive).
		AddBool(im.IndexPrimary).
		AddBool(im.IndexUnique).
		AddInt(im.BuildGeneration).
		MustBuild()
}

// GetID retrieves the index ID from a tuple
func (it *IndexesTable) GetID(t *tuple.Tuple) (int, error) {
	if t.TupleDesc.NumFields() != it.GetNumFields() {
		return -1, fmt.Errorf("invalid tuple: expected %d fields, got %d", it.GetNumFields(), t.TupleDesc.NumFields())
	}
	return getIntField(t, 0), nil
}

func (it *IndexesTable) TableIDIndex() int {
	return 2 // table_id is at position 2
}

// Parse parses a tuple into IndexMetadata
func (it *IndexesTable) Parse(t *tuple.Tuple) (*IndexMetadata, error) {
	if t.TupleDesc.NumFields() != it.GetNumFields() {
		return nil, fmt.Errorf("invalid tuple: expected %d fields, got %d", it.GetNumFields(), t.TupleDesc.NumFields())
	}

	indexID := getIntField(t, 0)
	indexName := getStringField(t, 1)
	tableID := getIntField(t, 2)
	columnName := getStringField(t, 3)
	indexTypeStr := getStringField(t, 4)
	filePath := getStringField(t, 5)
	createdAt := getInt64Field(t, 6)
	ready := getBoolField(t, 7)
	valid := getBoolField(t, 8)
	live := getBoolField(t, 9)
	primary := getBoolField(t, 10)
	unique := getBoolField(t, 11)
	generation := getInt64Field(t, 12)

	if indexID <= 0 {
		return nil, fmt.Errorf("invalid index_id %d: must be positive", indexID)
	}

	if indexName == "" {
		return nil, fmt.Errorf("index_name cannot be empty")
	}

	// Allow any table ID (including negative for generated IDs), but not InvalidTableID (-1)
	// which is reserved for system table schemas
	if tableID == InvalidTableID {
		return nil, fmt.Errorf("invalid table_id: cannot be InvalidTableID (%d)", InvalidTableID)
	}

	if columnName == "" {
		return nil, fmt.Errorf("column_name cannot be empty")
	}

	indexType := index.IndexType(indexTypeStr)
	if indexType != index.HashIndex && indexType != index.BTreeIndex {
		return nil, fmt.Errorf("invalid index_type %s: must be HASH or BTREE", indexTypeStr)
	}

	if filePath == "" {
		return nil, fmt.Errorf("file_path cannot be empty")
	}

	return &IndexMetadata{
		IndexID:         indexID,
		IndexName:       indexName,
		TableID:         tableID,
		ColumnName:      columnName,
		IndexType:       indexType,
		FilePath:        filePath,
		CreatedAt:       createdAt,
		IndexReady:      ready,
		IndexValid:      valid,
		IndexLive:       live,
		IndexPrimary:    primary,
		IndexUnique:     unique,
		BuildGeneration: generation,
	}, nil
}
