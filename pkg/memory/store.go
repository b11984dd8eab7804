package memory

import (
	"fmt"
	"ridgebase/pkg/concurrency/lock"
	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/log"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/page"
	"sync"
)

const (
	MaxPageCount = 50
)

// Permissions is re-exported from the transaction package so callers that
// only need to talk to the PageStore don't have to import it separately.
type Permissions = transaction.Permissions

const (
	ReadOnly  = transaction.ReadOnly
	ReadWrite = transaction.ReadWrite
)

// TxContext is the unit of work every PageStore operation is scoped to.
type TxContext = *transaction.TransactionContext

// OperationType identifies the kind of change a WAL record or statistics
// update is being made on behalf of.
type OperationType int

const (
	InsertOperation OperationType = iota
	DeleteOperation
	UpdateOperation
	CommitOperation
	AbortOperation
)

func (op OperationType) String() string {
	switch op {
	case InsertOperation:
		return "INSERT"
	case DeleteOperation:
		return "DELETE"
	case UpdateOperation:
		return "UPDATE"
	case CommitOperation:
		return "COMMIT"
	case AbortOperation:
		return "ABORT"
	default:
		return "UNKNOWN"
	}
}

// StatsRecorder receives a notification every time a table is modified, so
// that a query planner's cardinality estimates can be kept roughly current.
// PageStore treats this as optional: a nil statsManager just skips the call.
type StatsRecorder interface {
	RecordModification(tableID int)
}

// PageStore manages an in-memory cache of database pages and handles transaction-aware page operations.
// It serves as the main interface between the database engine and the underlying storage layer,
// providing ACID compliance through transaction tracking and page lifecycle management.
type PageStore struct {
	tableManager *TableManager
	mutex        sync.RWMutex
	lockManager  *lock.LockManager
	cache        PageCache
	wal          *log.WAL // Write-Ahead Log for durability and recovery
	statsManager StatsRecorder
}

// NewPageStore creates and initializes a new PageStore instance with the given TableManager and WAL.
// The PageStore will use the TableManager to access database files and manage table operations.
// walPath specifies the location of the write-ahead log file.
// bufferSize determines the WAL buffer size in bytes (e.g., 8192 for 8KB buffer).
func NewPageStore(tm *TableManager, walPath string, bufferSize int) (*PageStore, error) {
	wal, err := log.NewWAL(walPath, bufferSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize WAL: %v", err)
	}

	return &PageStore{
		cache:        NewLRUPageCache(MaxPageCount),
		lockManager:  lock.NewLockManager(),
		tableManager: tm,
		wal:          wal,
	}, nil
}

// SetStatsManager wires an optional statistics recorder. Pass nil to disable
// modification tracking (the default).
func (p *PageStore) SetStatsManager(sm StatsRecorder) {
	p.statsManager = sm
}

// GetWal exposes the underlying WAL so higher-level wrappers (e.g.
// pkg/memory/wrappers/table) can drive transaction BEGIN bookkeeping and log
// their own operation records against the same log the PageStore writes to.
func (p *PageStore) GetWal() *log.WAL {
	return p.wal
}

// GetPage retrieves a page with specified permissions for a transaction.
// This is the main entry point for all page access in the database.
func (p *PageStore) GetPage(ctx TxContext, dbFile page.DbFile, pid primitives.PageID, perm Permissions) (page.Page, error) {
	if ctx == nil {
		return nil, fmt.Errorf("transaction context cannot be nil")
	}

	if err := p.lockManager.LockPage(ctx.ID, pid, perm == ReadWrite); err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %v", err)
	}

	ctx.RecordPageAccess(pid, perm)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if pg, exists := p.cache.Get(pid); exists {
		return pg, nil
	}

	if p.cache.Size() >= MaxPageCount {
		if err := p.evictPage(); err != nil {
			return nil, fmt.Errorf("buffer pool full, cannot evict: %v", err)
		}
	}

	pg, err := dbFile.ReadPage(pid)
	if err != nil {
		return nil, fmt.Errorf("failed to read page from disk: %v", err)
	}

	if err := p.cache.Put(pid, pg); err != nil {
		return nil, fmt.Errorf("failed to add page to cache: %v", err)
	}

	return pg, nil
}

// evictPage implements NO-STEAL policy: we never evict dirty pages, so
// recovery never has to UNDO a page already on disk.
func (p *PageStore) evictPage() error {
	for _, pid := range p.cache.GetAll() {
		pg, exists := p.cache.Get(pid)
		if !exists {
			continue
		}

		if pg.IsDirty() != nil {
			continue
		}

		if p.lockManager.IsPageLocked(pid) {
			continue
		}

		p.cache.Remove(pid)
		return nil
	}

	return fmt.Errorf("all pages are dirty or locked, cannot evict (NO-STEAL policy)")
}

// FlushAllPages writes all dirty pages in the cache to persistent storage.
func (p *PageStore) FlushAllPages() error {
	p.mutex.RLock()
	pids := append([]primitives.PageID{}, p.cache.GetAll()...)
	p.mutex.RUnlock()

	for _, pid := range pids {
		dbFile, err := p.getDbFileForPage(pid)
		if err != nil {
			return fmt.Errorf("failed to resolve file for page %v: %v", pid, err)
		}
		if err := p.flushPage(dbFile, pid); err != nil {
			return fmt.Errorf("failed to flush page %v: %v", pid, err)
		}
	}

	return nil
}

// flushPage writes a specific page to disk if it has been modified (is dirty).
// The page is unmarked as dirty after a successful write.
func (p *PageStore) flushPage(dbFile page.DbFile, pid primitives.PageID) error {
	p.mutex.RLock()
	pg, exists := p.cache.Get(pid)
	p.mutex.RUnlock()

	if !exists {
		return nil
	}

	if pg.IsDirty() == nil {
		return nil
	}

	if err := dbFile.WritePage(pg); err != nil {
		return fmt.Errorf("failed to write page to disk: %v", err)
	}
	pg.MarkDirty(false, nil)

	p.mutex.Lock()
	p.cache.Put(pid, pg)
	p.mutex.Unlock()

	return nil
}

// getDbFileForPage resolves the DbFile backing a page through the table manager.
func (p *PageStore) getDbFileForPage(pid primitives.PageID) (page.DbFile, error) {
	return p.tableManager.GetDbFile(int(pid.GetTableID()))
}

// markPagesAsDirty records pages as modified by ctx, both in the page cache
// (so flush/evict see the dirty bit) and in the transaction context (so
// commit/abort know what to flush or roll back).
func (p *PageStore) markPagesAsDirty(ctx TxContext, pages []page.Page) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, pg := range pages {
		pg.MarkDirty(true, ctx.ID)
		p.cache.Put(pg.GetID(), pg)
		ctx.MarkPageDirty(pg.GetID())
	}
}

// logOperation writes the WAL record appropriate for operation. pageID/data
// are only meaningful for INSERT and DELETE; COMMIT and ABORT ignore them.
func (p *PageStore) logOperation(operation OperationType, tid *primitives.TransactionID, pageID primitives.PageID, data []byte) error {
	var err error
	switch operation {
	case InsertOperation:
		_, err = p.wal.LogInsert(tid, pageID, data)
	case DeleteOperation:
		_, err = p.wal.LogDelete(tid, pageID, data)
	case CommitOperation:
		_, err = p.wal.LogCommit(tid)
	case AbortOperation:
		_, err = p.wal.LogAbort(tid)
	default:
		return fmt.Errorf("unsupported WAL operation: %s", operation.String())
	}
	return err
}

// Close gracefully shuts down the PageStore, flushing all pending data and closing the WAL.
func (p *PageStore) Close() error {
	if err := p.FlushAllPages(); err != nil {
		return fmt.Errorf("failed to flush pages during shutdown: %v", err)
	}

	if err := p.wal.Close(); err != nil {
		return fmt.Errorf("failed to close WAL: %v", err)
	}

	return nil
}
