package indexbuild

import (
	"fmt"

	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/execution/query"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/storage/index"
	"ridgebase/pkg/storage/page"
	"ridgebase/pkg/types"
)

// ErrUniquenessViolation marks a build scan that stopped early because it
// found a duplicate key under a UNIQUE index request. The index build still
// commits; the catalog entry is simply left invalid. Wrap with
// fmt.Errorf("%w: ...", ErrUniquenessViolation) style via errors.Is to test
// for this condition; UniquenessViolationError carries the offending key.
var ErrUniquenessViolation = fmt.Errorf("uniqueness violation during index build")

// UniquenessViolationError reports the specific key that broke a UNIQUE
// index build's fail-fast scan, so callers can surface which row collided
// instead of just the fact that one did.
type UniquenessViolationError struct {
	Key types.Field
}

func (e *UniquenessViolationError) Error() string {
	return fmt.Sprintf("%s: duplicate key %v", ErrUniquenessViolation, e.Key)
}

func (e *UniquenessViolationError) Unwrap() error {
	return ErrUniquenessViolation
}

// openIndex opens the physical index file for filePath and returns it
// directly as an index.Index - HashFile and BTreeFile implement Insert/
// Search/Delete/RangeSearch themselves, so no separate wrapper type sits
// between the file and the caller. ps/ctx are unused by the direct-file
// path but kept so callers that later move to a PageStore-cached index
// don't need a signature change.
func openIndex(filePath primitives.Filepath, keyType types.Type, indexType index.IndexType, ps *memory.PageStore, ctx *transaction.TransactionContext) (index.Index, func() error, error) {
	switch indexType {
	case index.HashIndex:
		hashFile, err := index.NewHashFile(filePath, keyType, index.DefaultBuckets)
		if err != nil {
			return nil, nil, fmt.Errorf("open hash index: %w", err)
		}
		hashFile.SetIndexID(hashFile.GetID())
		return hashFile, hashFile.Close, nil

	case index.BTreeIndex:
		btreeFile, err := index.NewBTreeFile(filePath, keyType)
		if err != nil {
			return nil, nil, fmt.Errorf("open btree index: %w", err)
		}
		btreeFile.SetIndexID(btreeFile.GetID())
		return btreeFile, btreeFile.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported index type: %s", indexType)
	}
}

// scanAndBuild performs the full base-table scan T2 runs: for every
// non-null key in columnIndex, insert (key, rid) into the physical index.
// When unique is set, the first key already present stops the scan
// immediately - per-spec fail-fast - and scanAndBuild returns valid=false
// with a *UniquenessViolationError naming the offending key. The caller
// decides whether a non-valid-but-committed index is acceptable; the error
// is informational, not fatal to the build.
func scanAndBuild(
	ctx *transaction.TransactionContext,
	ps *memory.PageStore,
	tableFile page.DbFile,
	filePath primitives.Filepath,
	columnIndex primitives.ColumnID,
	keyType types.Type,
	indexType index.IndexType,
	unique bool,
) (valid bool, violation error, err error) {
	heapFile, ok := tableFile.(*heap.HeapFile)
	if !ok {
		return false, nil, fmt.Errorf("expected heap file for table, got %T", tableFile)
	}

	tupleDesc := heapFile.GetTupleDesc()
	if tupleDesc == nil {
		return false, nil, fmt.Errorf("table has no schema definition")
	}
	if int(columnIndex) >= tupleDesc.NumFields() {
		return false, nil, fmt.Errorf("column index %d out of range for table with %d columns", columnIndex, tupleDesc.NumFields())
	}

	idx, closeFn, err := openIndex(filePath, keyType, indexType, ps, ctx)
	if err != nil {
		return false, nil, err
	}
	defer closeFn()

	seqScan, err := query.NewSeqScan(ctx, int(heapFile.GetID()), &query.SingleFileProvider{File: heapFile}, ps)
	if err != nil {
		return false, nil, fmt.Errorf("create sequential scan: %w", err)
	}
	if err := seqScan.Open(); err != nil {
		return false, nil, fmt.Errorf("open sequential scan: %w", err)
	}
	defer seqScan.Close()

	valid = true
	for {
		t, terr := seqScan.Next()
		if t == nil {
			break
		}
		if terr != nil {
			return false, nil, fmt.Errorf("scan tuple: %w", terr)
		}

		key, ferr := t.GetField(int(columnIndex))
		if ferr != nil {
			return false, nil, fmt.Errorf("get field %d: %w", columnIndex, ferr)
		}
		if key == nil {
			continue
		}
		if t.TableNotAssigned() {
			return false, nil, fmt.Errorf("tuple missing record ID")
		}

		if unique {
			existing, serr := idx.Search(key)
			if serr != nil {
				return false, nil, fmt.Errorf("search for uniqueness: %w", serr)
			}
			if len(existing) > 0 {
				return false, &UniquenessViolationError{Key: key}, nil
			}
		}

		if err := idx.Insert(key, t.RecordID); err != nil {
			return false, nil, fmt.Errorf("insert key into index: %w", err)
		}
	}

	return valid, nil, nil
}
