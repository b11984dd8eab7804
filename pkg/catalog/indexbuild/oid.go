package indexbuild

import "sync/atomic"

// OIDAllocator hands out globally-unique catalog object identifiers, per
// the catalog's GetNextOid() contract: every CREATE INDEX call needs an
// index_oid that no other catalog entry - index, table, or namespace - will
// ever reuse.
type OIDAllocator struct {
	next atomic.Int64
}

// NewOIDAllocator creates an allocator whose first NextOid() call returns
// start+1. Callers seed start from the highest OID already present in the
// catalog so a restarted process never reissues one.
func NewOIDAllocator(start int64) *OIDAllocator {
	a := &OIDAllocator{}
	a.next.Store(start)
	return a
}

func (a *OIDAllocator) NextOid() int64 {
	return a.next.Add(1)
}
