package log

import (
	"os"
	"path/filepath"
	"testing"

	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/page"
)

func newTestWAL(t *testing.T) *WAL {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wal")
	wal, err := NewWAL(path, 8192)
	if err != nil {
		t.Fatalf("NewWAL: %v", err)
	}
	t.Cleanup(func() { wal.Close() })
	return wal
}

func TestWAL_LogBeginAssignsIncreasingLSN(t *testing.T) {
	wal := newTestWAL(t)
	tid := primitives.NewTransactionID()

	first, err := wal.LogBegin(tid)
	if err != nil {
		t.Fatalf("LogBegin: %v", err)
	}

	pid := page.NewPageDescriptor(primitives.TableID(1), primitives.PageNumber(0))
	second, err := wal.LogInsert(tid, pid, []byte("after"))
	if err != nil {
		t.Fatalf("LogInsert: %v", err)
	}

	if second <= first {
		t.Fatalf("expected LSN to increase, got first=%d second=%d", first, second)
	}
}

func TestWAL_LogInsertRequiresActiveTransaction(t *testing.T) {
	wal := newTestWAL(t)
	tid := primitives.NewTransactionID()
	pid := page.NewPageDescriptor(primitives.TableID(1), primitives.PageNumber(0))

	if _, err := wal.LogInsert(tid, pid, []byte("x")); err == nil {
		t.Fatal("expected error logging insert for transaction with no BEGIN record")
	}
}

func TestWAL_LogDeleteCarriesBeforeImage(t *testing.T) {
	wal := newTestWAL(t)
	tid := primitives.NewTransactionID()
	if _, err := wal.LogBegin(tid); err != nil {
		t.Fatalf("LogBegin: %v", err)
	}

	pid := page.NewPageDescriptor(primitives.TableID(1), primitives.PageNumber(3))
	if _, err := wal.LogDelete(tid, pid, []byte("before")); err != nil {
		t.Fatalf("LogDelete: %v", err)
	}
}

func TestWAL_CommitRemovesActiveTransaction(t *testing.T) {
	wal := newTestWAL(t)
	tid := primitives.NewTransactionID()
	if _, err := wal.LogBegin(tid); err != nil {
		t.Fatalf("LogBegin: %v", err)
	}

	if _, err := wal.LogCommit(tid); err != nil {
		t.Fatalf("LogCommit: %v", err)
	}

	if _, exists := wal.activeTxns[tid]; exists {
		t.Fatal("expected transaction to be removed from active set after commit")
	}

	pid := page.NewPageDescriptor(primitives.TableID(1), primitives.PageNumber(0))
	if _, err := wal.LogInsert(tid, pid, []byte("x")); err == nil {
		t.Fatal("expected error logging against a committed transaction")
	}
}

func TestWAL_AbortRemovesActiveTransaction(t *testing.T) {
	wal := newTestWAL(t)
	tid := primitives.NewTransactionID()
	if _, err := wal.LogBegin(tid); err != nil {
		t.Fatalf("LogBegin: %v", err)
	}

	if _, err := wal.LogAbort(tid); err != nil {
		t.Fatalf("LogAbort: %v", err)
	}

	if _, exists := wal.activeTxns[tid]; exists {
		t.Fatal("expected transaction to be removed from active set after abort")
	}
}

func TestWAL_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.wal")

	wal, err := NewWAL(path, 8192)
	if err != nil {
		t.Fatalf("NewWAL: %v", err)
	}
	tid := primitives.NewTransactionID()
	if _, err := wal.LogBegin(tid); err != nil {
		t.Fatalf("LogBegin: %v", err)
	}
	if _, err := wal.LogCommit(tid); err != nil {
		t.Fatalf("LogCommit: %v", err)
	}
	if err := wal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected WAL file to contain flushed records")
	}

	reopened, err := NewWAL(path, 8192)
	if err != nil {
		t.Fatalf("reopen NewWAL: %v", err)
	}
	defer reopened.Close()

	if reopened.currentLSN == 0 {
		t.Fatal("expected reopened WAL to resume from the prior end-of-file LSN")
	}
}
