// Package indexbuild implements the online CREATE INDEX / DROP INDEX
// protocol: a two-transaction split that makes an index catalog-visible to
// concurrent writers (who must maintain it) before it becomes usable by
// readers (once the build scan finishes), separated by a quiescence
// barrier so no transaction straddles the visibility boundary.
package indexbuild

import (
	"fmt"
	"sync"
	"time"

	"ridgebase/pkg/catalog/operations"
	"ridgebase/pkg/catalog/systemtable"
	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/indexmanager"
	"ridgebase/pkg/logging"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/index"
	"ridgebase/pkg/storage/page"
	"ridgebase/pkg/types"
)

// CreateIndexRequest describes a CREATE INDEX request. TableFile must
// already be open; the coordinator only reads from it during the build
// scan and never manages its lifecycle.
type CreateIndexRequest struct {
	TableName   string
	TableID     int
	IndexName   string
	ColumnName  string
	ColumnIndex primitives.ColumnID
	KeyType     types.Type
	IndexType   index.IndexType
	Unique      bool
	Primary     bool
	FilePath    primitives.Filepath
	TableFile   page.DbFile
	CreatedAt   int64
}

// Coordinator drives the protocol described in the package doc. It owns no
// storage itself: every catalog read/write goes through operations, every
// transaction boundary through registry, every physical index file through
// indexManager.
type Coordinator struct {
	registry  *transaction.TransactionRegistry
	indexOps  *operations.IndexOperations
	tableOps  *operations.TableOperations
	indexMgr  *indexmanager.IndexManager
	pageStore *memory.PageStore
	oids      *OIDAllocator

	quiesceInterval time.Duration

	mu       sync.Mutex
	building map[int]bool // indexID -> currently being (re)built
}

func NewCoordinator(
	registry *transaction.TransactionRegistry,
	indexOps *operations.IndexOperations,
	tableOps *operations.TableOperations,
	indexMgr *indexmanager.IndexManager,
	pageStore *memory.PageStore,
	oids *OIDAllocator,
) *Coordinator {
	return &Coordinator{
		registry:        registry,
		indexOps:        indexOps,
		tableOps:        tableOps,
		indexMgr:        indexMgr,
		pageStore:       pageStore,
		oids:            oids,
		quiesceInterval: time.Millisecond,
		building:        make(map[int]bool),
	}
}

// IsBuilding reports whether indexID currently has a build scan in flight.
// This is in-memory coordination state, not a persisted catalog column -
// it only needs to be visible within this process, to readers deciding
// whether to trust indisvalid while a rebuild is underway.
func (c *Coordinator) IsBuilding(indexID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.building[indexID]
}

func (c *Coordinator) setBuilding(indexID int, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v {
		c.building[indexID] = true
	} else {
		delete(c.building, indexID)
	}
}

// IndexIDByName resolves an index name to its catalog ID, for callers (the
// DDL executor's DROP INDEX path) that only have the name a statement named.
func (c *Coordinator) IndexIDByName(tx *transaction.TransactionContext, name string) (int, error) {
	entry, err := c.indexOps.GetIndexByName(tx, name)
	if err != nil {
		return 0, err
	}
	return entry.IndexID, nil
}

// quiesce spins until no active transaction could have started before
// commitTS, i.e. until every transaction that might still observe
// pre-commit catalog state has finished. This is the protocol's only
// synchronization point with the concurrent workload.
func (c *Coordinator) quiesce(commitTS uint64) {
	for c.registry.OldestActiveStartTS() < commitTS {
		time.Sleep(c.quiesceInterval)
	}
}

// CreateIndex runs the two-transaction online CREATE INDEX protocol:
//
//  1. T1 validates the target table exists, allocates an index OID,
//     instantiates the empty physical index container, and inserts a
//     catalog entry with indisready=true, indisvalid=false, indislive=false.
//  2. The coordinator waits for the quiescence barrier: every transaction
//     active when T1 committed must finish, so no straddling transaction can
//     observe a partially-visible index.
//  3. T2 begins with a pre-commit action that marks the index building,
//     scans the base table inserting (key, rid) pairs, and sets
//     indisvalid according to whether the scan found a uniqueness conflict.
func (c *Coordinator) CreateIndex(req CreateIndexRequest) (*systemtable.IndexMetadata, error) {
	t1, err := c.registry.Begin()
	if err != nil {
		return nil, fmt.Errorf("create index: begin T1: %w", err)
	}

	if _, err := c.tableOps.GetTableMetadataByName(t1, req.TableName); err != nil {
		c.registry.Abort(t1)
		return nil, fmt.Errorf("create index: table %q does not exist: %w", req.TableName, err)
	}

	if _, err := c.indexMgr.CreatePhysicalIndex(req.FilePath, req.KeyType, req.IndexType); err != nil {
		c.registry.Abort(t1)
		return nil, fmt.Errorf("create index: allocate physical container: %w", err)
	}

	entry := &systemtable.IndexMetadata{
		IndexID:         int(c.oids.NextOid()),
		IndexName:       req.IndexName,
		TableID:         req.TableID,
		ColumnName:      req.ColumnName,
		IndexType:       req.IndexType,
		FilePath:        string(req.FilePath),
		CreatedAt:       req.CreatedAt,
		IndexReady:      true,
		IndexValid:      false,
		IndexLive:       false,
		IndexPrimary:    req.Primary,
		IndexUnique:     req.Unique,
		BuildGeneration: 1,
	}

	if err := c.indexOps.Insert(t1, entry); err != nil {
		c.registry.Abort(t1)
		return nil, fmt.Errorf("create index: insert catalog entry: %w", err)
	}

	commitTS, err := c.registry.Commit(t1)
	if err != nil {
		return nil, fmt.Errorf("create index: commit T1: %w", err)
	}

	c.quiesce(commitTS)

	byID := func(im *systemtable.IndexMetadata) bool { return im.IndexID == entry.IndexID }

	t2, err := c.registry.BeginWithAction(func(ctx *transaction.TransactionContext) error {
		c.setBuilding(entry.IndexID, true)
		return nil
	})
	if err != nil {
		c.setBuilding(entry.IndexID, false)
		return nil, fmt.Errorf("create index: begin T2: %w", err)
	}
	t2.AddPostCommitHook(func() { c.setBuilding(entry.IndexID, false) })

	valid, violation, err := scanAndBuild(t2, c.pageStore, req.TableFile, req.FilePath, req.ColumnIndex, req.KeyType, req.IndexType, req.Unique)
	if err != nil {
		c.registry.Abort(t2)
		c.setBuilding(entry.IndexID, false)
		return nil, fmt.Errorf("create index: build scan: %w", err)
	}
	if violation != nil {
		// Non-fatal: the build scan stopped early on a duplicate key, so
		// the index commits but stays invalid. Reported via the log, not
		// by failing T2 - the caller inspects entry.IndexValid.
		logging.GetLogger().Warn("create index: build scan stopped early",
			"index", req.IndexName, "error", violation)
	}

	entry.IndexReady = false
	entry.IndexValid = valid
	entry.IndexLive = valid
	if err := c.indexOps.Upsert(t2, byID, entry); err != nil {
		c.registry.Abort(t2)
		c.setBuilding(entry.IndexID, false)
		return nil, fmt.Errorf("create index: update catalog entry: %w", err)
	}

	if _, err := c.registry.Commit(t2); err != nil {
		return nil, fmt.Errorf("create index: commit T2: %w", err)
	}

	return entry, nil
}

// DropIndex runs the DROP INDEX protocol: delete the catalog entry, commit,
// wait for the quiescence barrier, then destroy the physical index
// container. No transaction that started before the drop commits can still
// be relying on the index by the time the file is removed.
func (c *Coordinator) DropIndex(indexID int) error {
	t, err := c.registry.Begin()
	if err != nil {
		return fmt.Errorf("drop index: begin: %w", err)
	}

	entry, err := c.indexOps.GetIndexByID(t, indexID)
	if err != nil {
		c.registry.Abort(t)
		return fmt.Errorf("drop index: index %d not found: %w", indexID, err)
	}

	if err := c.indexOps.DeleteIndexFromCatalog(t, indexID); err != nil {
		c.registry.Abort(t)
		return fmt.Errorf("drop index: delete catalog entry: %w", err)
	}

	commitTS, err := c.registry.Commit(t)
	if err != nil {
		return fmt.Errorf("drop index: commit: %w", err)
	}

	c.quiesce(commitTS)

	if err := c.indexMgr.DeletePhysicalIndex(primitives.Filepath(entry.FilePath)); err != nil {
		return fmt.Errorf("drop index: destroy physical container: %w", err)
	}

	return nil
}
