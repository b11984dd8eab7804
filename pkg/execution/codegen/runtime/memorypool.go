package runtime

import "sync/atomic"

// MemoryPool is the opaque allocator handle every execution context carries.
// ridgebase's engine never needs raw aligned allocation the way a native
// compiled body would - tuples and rows are Go values - so the pool only
// tracks outstanding allocation counts, giving AllocateAligned/Free call
// sites something real to account against without faking a byte allocator.
type MemoryPool struct {
	allocated atomic.Int64
}

func NewMemoryPool() *MemoryPool {
	return &MemoryPool{}
}

// AllocateAligned accounts for size bytes of (conceptual) aligned memory and
// returns a backing slice sized accordingly.
func (p *MemoryPool) AllocateAligned(size int) []byte {
	p.allocated.Add(int64(size))
	return make([]byte, size)
}

// Free releases a prior allocation's accounting.
func (p *MemoryPool) Free(size int) {
	p.allocated.Add(-int64(size))
}

// Outstanding reports the pool's current accounted allocation, for tests
// asserting every Alloc was matched by a Free.
func (p *MemoryPool) Outstanding() int64 {
	return p.allocated.Load()
}
