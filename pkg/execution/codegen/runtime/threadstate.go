package runtime

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ThreadState is one worker's private scratch space for a parallel phase -
// its own hash table partition, sorter run, or aggregation buffer before the
// pipeline breaker merges partitions.
type ThreadState struct {
	WorkerID int
	Data     any
}

// ThreadStateContainer fans a parallel phase's work out across a fixed pool
// of workers, handing each one a private ThreadState, the runtime backing
// for the …Parallel intrinsic family (TableIterParallel, JoinHashTableBuildParallel,
// SorterSortParallel, ...).
type ThreadStateContainer struct {
	mu     sync.Mutex
	states []*ThreadState
	newFn  func(workerID int) any
}

// NewThreadStateContainer builds a container whose per-worker state is
// produced by newFn.
func NewThreadStateContainer(newFn func(workerID int) any) *ThreadStateContainer {
	return &ThreadStateContainer{newFn: newFn}
}

// RunParallel launches workers workers, each invoking fn once with its own
// ThreadState, and waits for all of them. The first error returned by any
// worker cancels the rest and is returned once every worker has stopped.
func (c *ThreadStateContainer) RunParallel(ctx context.Context, workers int, fn func(ctx context.Context, ts *ThreadState) error) error {
	if workers <= 0 {
		return fmt.Errorf("thread state container: workers must be positive, got %d", workers)
	}

	g, gctx := errgroup.WithContext(ctx)
	c.states = make([]*ThreadState, workers)
	for i := 0; i < workers; i++ {
		i := i
		var data any
		if c.newFn != nil {
			data = c.newFn(i)
		}
		ts := &ThreadState{WorkerID: i, Data: data}
		c.mu.Lock()
		c.states[i] = ts
		c.mu.Unlock()
		g.Go(func() error {
			return fn(gctx, ts)
		})
	}
	return g.Wait()
}

// States returns every worker's ThreadState after RunParallel completes, for
// a pipeline breaker's MovePartitions-style merge step.
func (c *ThreadStateContainer) States() []*ThreadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ThreadState, len(c.states))
	copy(out, c.states)
	return out
}
