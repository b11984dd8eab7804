package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"ridgebase/pkg/concurrency/transaction"
	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/execution/codegen/translator"
	wal "ridgebase/pkg/log"
	"ridgebase/pkg/memory"
	"ridgebase/pkg/plan"
	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

// chainFixture provides the on-disk page store and transaction that the
// scan and scan -> sort translator chains below are built on, to exercise
// Compose and Driver against real infrastructure, the same pattern pkg/execution/codegen/translator/e2e_test.go uses.
type chainFixture struct {
	pageStore *memory.PageStore
	tx        *transaction.TransactionContext
	cleanup   func()
}

func newChainFixture(t *testing.T) *chainFixture {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "pipeline_test_*")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	w, err := wal.NewWAL(filepath.Join(tempDir, "wal.log"), 8192)
	if err != nil {
		t.Fatalf("new WAL: %v", err)
	}
	pageStore := memory.NewPageStore(w)
	registry := transaction.NewTransactionRegistry(w)
	tx, err := registry.Begin()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	return &chainFixture{
		pageStore: pageStore,
		tx:        tx,
		cleanup: func() {
			pageStore.Close()
			os.RemoveAll(tempDir)
		},
	}
}

func (f *chainFixture) table(t *testing.T, dir string, values []int32) *heap.HeapFile {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.Int32Type}, []string{"col0"})
	if err != nil {
		t.Fatalf("new tuple desc: %v", err)
	}
	file, err := heap.NewHeapFile(primitives.Filepath(filepath.Join(dir, "t.dat")), td)
	if err != nil {
		t.Fatalf("new heap file: %v", err)
	}
	for _, v := range values {
		row := tuple.NewTuple(td)
		if err := row.SetField(0, types.NewInt32Field(v)); err != nil {
			t.Fatalf("set field: %v", err)
		}
		if err := f.pageStore.InsertTuple(f.tx, file, row); err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}
	return file
}

// TestComposeNoBreakerYieldsOneNonBreakerPipeline covers a chain with no
// pipeline-breaking operator: a lone scan runs as one pipeline, rooted at
// the chain's own root.
func TestComposeNoBreakerYieldsOneNonBreakerPipeline(t *testing.T) {
	f := newChainFixture(t)
	defer f.cleanup()

	file := f.table(t, t.TempDir(), []int32{1, 2, 3})
	scan, err := translator.NewSeqScanTranslator(&plan.ScanNode{TableName: "t", AccessMethod: "seqscan"}, file.GetTupleDesc(), f.tx, f.pageStore, file)
	if err != nil {
		t.Fatalf("NewSeqScanTranslator: %v", err)
	}

	pipelines := Compose(scan)
	if len(pipelines) != 1 {
		t.Fatalf("Compose returned %d pipelines, want 1", len(pipelines))
	}
	if pipelines[0].Breaker {
		t.Error("a chain with no materializer should compose to a non-breaker pipeline")
	}
	if pipelines[0].Root != scan {
		t.Error("the sole pipeline's root should be the chain root")
	}
}

// TestComposeSplitsAtMaterializer covers a chain whose root is a breaker
// (Sort over a scan): Compose must return the breaker's own pipeline
// followed by the overall chain's pipeline, in that order, both rooted at
// the sort translator.
func TestComposeSplitsAtMaterializer(t *testing.T) {
	f := newChainFixture(t)
	defer f.cleanup()

	file := f.table(t, t.TempDir(), []int32{3, 1, 2})
	scan, err := translator.NewSeqScanTranslator(&plan.ScanNode{TableName: "t", AccessMethod: "seqscan"}, file.GetTupleDesc(), f.tx, f.pageStore, file)
	if err != nil {
		t.Fatalf("NewSeqScanTranslator: %v", err)
	}
	sortT, err := translator.NewSortTranslator(&plan.SortNode{SortKey: "col0", Ascending: true}, scan, file.GetTupleDesc())
	if err != nil {
		t.Fatalf("NewSortTranslator: %v", err)
	}

	pipelines := Compose(sortT)
	if len(pipelines) != 2 {
		t.Fatalf("Compose returned %d pipelines, want 2", len(pipelines))
	}
	if !pipelines[0].Breaker || pipelines[0].Root != sortT {
		t.Errorf("pipelines[0] = %+v, want a breaker pipeline rooted at the sort translator", pipelines[0])
	}
	if pipelines[1].Breaker || pipelines[1].Root != sortT {
		t.Errorf("pipelines[1] = %+v, want a non-breaker pipeline rooted at the chain root", pipelines[1])
	}
}

func TestDriverRunInvokesSetupProduceTeardown(t *testing.T) {
	f := newChainFixture(t)
	defer f.cleanup()

	file := f.table(t, t.TempDir(), []int32{10, 20, 30})
	scan, err := translator.NewSeqScanTranslator(&plan.ScanNode{TableName: "t", AccessMethod: "seqscan"}, file.GetTupleDesc(), f.tx, f.pageStore, file)
	if err != nil {
		t.Fatalf("NewSeqScanTranslator: %v", err)
	}

	ec := runtime.NewExecutionContext(nil)
	driver := NewDriver(ec)
	cb := translator.NewCodeBuilder(nil)

	var rows []*tuple.Tuple
	if err := driver.Run(cb, scan, func(row *tuple.Tuple) error {
		rows = append(rows, row)
		return nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Run collected %d rows, want 3", len(rows))
	}
}

func TestDriverRunParallelRequiresThreadStateContainer(t *testing.T) {
	driver := &Driver{EC: &runtime.ExecutionContext{}}
	err := driver.RunParallel(nil, 2, nil, func(ts *runtime.ThreadState) translator.Consumer {
		return func(row *tuple.Tuple) error { return nil }
	})
	if err == nil {
		t.Error("RunParallel should error when the execution context has no thread state container")
	}
}
