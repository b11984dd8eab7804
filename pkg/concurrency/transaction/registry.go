package transaction

import (
	"fmt"
	"ridgebase/pkg/log"
	"ridgebase/pkg/primitives"
	"sync"
	"sync/atomic"
)

// TransactionRegistry manages all active transaction contexts
// This is the single global registry that replaces scattered transaction maps
type TransactionRegistry struct {
	contexts map[*primitives.TransactionID]*TransactionContext
	mutex    sync.RWMutex
	wal      *log.WAL

	// tsCounter hands out the monotonic logical timestamps used as
	// startTS/commitTS, and as the quiescence barrier's comparison clock.
	tsCounter atomic.Uint64
}

// NewTransactionRegistry creates a new transaction registry
func NewTransactionRegistry(wal *log.WAL) *TransactionRegistry {
	return &TransactionRegistry{
		contexts: make(map[*primitives.TransactionID]*TransactionContext),
		wal:      wal,
	}
}

func (tr *TransactionRegistry) nextTS() uint64 {
	return tr.tsCounter.Add(1)
}

// Begin creates a new transaction context and registers it
func (tr *TransactionRegistry) Begin() (*TransactionContext, error) {
	tid := primitives.NewTransactionID()
	ctx := NewTransactionContext(tid)
	ctx.setStartTS(tr.nextTS())

	tr.mutex.Lock()
	tr.contexts[tid] = ctx
	tr.mutex.Unlock()

	return ctx, nil
}

// BeginWithAction creates a new transaction context and runs action
// atomically at begin, before the context becomes visible to any other
// caller of Begin/BeginWithAction. The online index build protocol uses
// this to flip indisready/building flags as part of T2's begin.
func (tr *TransactionRegistry) BeginWithAction(action func(ctx *TransactionContext) error) (*TransactionContext, error) {
	tid := primitives.NewTransactionID()
	ctx := NewTransactionContext(tid)
	ctx.setStartTS(tr.nextTS())

	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	if action != nil {
		if err := action(ctx); err != nil {
			return nil, err
		}
	}
	tr.contexts[tid] = ctx
	return ctx, nil
}

// Commit assigns a commit timestamp, flips the context's status to
// TxCommitted, runs its post-commit hooks, and removes it from the
// active-transaction set. It returns the commit timestamp.
func (tr *TransactionRegistry) Commit(ctx *TransactionContext) (uint64, error) {
	if !ctx.IsActive() {
		return 0, fmt.Errorf("transaction %s is not active", ctx.ID.String())
	}

	ts := tr.nextTS()
	ctx.setCommitTS(ts)
	ctx.SetStatus(TxCommitted)
	ctx.runPostCommitHooks()

	tr.mutex.Lock()
	delete(tr.contexts, ctx.ID)
	tr.mutex.Unlock()

	return ts, nil
}

// Abort flips the context's status to TxAborted and removes it from the
// active-transaction set. Post-commit hooks never run.
func (tr *TransactionRegistry) Abort(ctx *TransactionContext) error {
	ctx.SetStatus(TxAborted)

	tr.mutex.Lock()
	delete(tr.contexts, ctx.ID)
	tr.mutex.Unlock()

	return nil
}

// OldestActiveStartTS returns the smallest StartTS among currently active
// transactions, or the current timestamp counter value if none are active.
// The online index build coordinator spins on this to find when it is safe
// to treat a just-committed catalog change as visible to every transaction
// that could still be running.
func (tr *TransactionRegistry) OldestActiveStartTS() uint64 {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	oldest := tr.tsCounter.Load()
	for _, ctx := range tr.contexts {
		if !ctx.IsActive() {
			continue
		}
		if s := ctx.StartTS(); s < oldest {
			oldest = s
		}
	}
	return oldest
}

// Get retrieves a transaction context by ID
func (tr *TransactionRegistry) Get(tid *primitives.TransactionID) (*TransactionContext, error) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	ctx, exists := tr.contexts[tid]
	if !exists {
		return nil, fmt.Errorf("transaction %s not found", tid.String())
	}
	return ctx, nil
}

// GetOrCreate gets an existing context or creates a new one
func (tr *TransactionRegistry) GetOrCreate(tid *primitives.TransactionID) *TransactionContext {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	ctx, exists := tr.contexts[tid]
	if exists {
		return ctx
	}

	ctx = NewTransactionContext(tid)
	tr.contexts[tid] = ctx
	return ctx
}

// Remove removes a transaction context from the registry
func (tr *TransactionRegistry) Remove(tid *primitives.TransactionID) {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()
	delete(tr.contexts, tid)
}

// GetActive returns all active transaction contexts
func (tr *TransactionRegistry) GetActive() []*TransactionContext {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	active := make([]*TransactionContext, 0)
	for _, ctx := range tr.contexts {
		if ctx.IsActive() {
			active = append(active, ctx)
		}
	}
	return active
}

// Count returns the number of registered transactions
func (tr *TransactionRegistry) Count() int {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()
	return len(tr.contexts)
}

// GetAllTransactionIDs returns all registered transaction IDs
func (tr *TransactionRegistry) GetAllTransactionIDs() []*primitives.TransactionID {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	tids := make([]*primitives.TransactionID, 0, len(tr.contexts))
	for tid := range tr.contexts {
		tids = append(tids, tid)
	}
	return tids
}
