package runtime

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ExecutionContext is the handle passed to every emitted plan fragment: a
// memory pool, a thread-state container for the query's parallel phases, and
// a cancellation flag emitted loops re-check at pipeline boundaries.
type ExecutionContext struct {
	ID        uuid.UUID
	Pool      *MemoryPool
	Threads   *ThreadStateContainer
	cancelled atomic.Bool
}

// NewExecutionContext builds a fresh context with its own id and memory pool.
// threadStateFn is passed straight to NewThreadStateContainer; with nil, a
// parallel phase still runs and each worker's ThreadState.Data is nil.
func NewExecutionContext(threadStateFn func(workerID int) any) *ExecutionContext {
	return &ExecutionContext{
		ID:      uuid.New(),
		Pool:    NewMemoryPool(),
		Threads: NewThreadStateContainer(threadStateFn),
	}
}

// Cancel flips the cancellation flag. Emitted loops check IsCancelled at
// pipeline boundaries, never mid-row.
func (ec *ExecutionContext) Cancel() {
	ec.cancelled.Store(true)
}

func (ec *ExecutionContext) IsCancelled() bool {
	return ec.cancelled.Load()
}
