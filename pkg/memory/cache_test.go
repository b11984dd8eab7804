package memory

import (
	"testing"

	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/heap"
	"ridgebase/pkg/storage/page"
	"ridgebase/pkg/tuple"
	"ridgebase/pkg/types"
)

func emptyHeapPage(t *testing.T, tableID primitives.TableID, pageNum primitives.PageNumber) page.Page {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"id"})
	if err != nil {
		t.Fatalf("NewTupleDesc: %v", err)
	}
	pid := page.NewPageDescriptor(tableID, pageNum)
	pg, err := heap.NewEmptyHeapPage(pid, td)
	if err != nil {
		t.Fatalf("NewEmptyHeapPage: %v", err)
	}
	return pg
}

func TestLRUPageCache_PutGet(t *testing.T) {
	cache := NewLRUPageCache(2)
	pg := emptyHeapPage(t, 1, 0)
	pid := pg.GetID()

	if err := cache.Put(pid, pg); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cache.Get(pid)
	if !ok {
		t.Fatal("expected cache hit after Put")
	}
	if got != pg {
		t.Error("Get returned a different page than was Put")
	}
}

func TestLRUPageCache_GetMiss(t *testing.T) {
	cache := NewLRUPageCache(2)
	pid := page.NewPageDescriptor(1, 0)

	if _, ok := cache.Get(pid); ok {
		t.Fatal("expected cache miss on empty cache")
	}
}

// Two distinct *page.PageDescriptor instances for the same logical page must
// hit the same cache slot — the cache keys on (tableID, pageNum), not pointer
// identity.
func TestLRUPageCache_KeysOnLogicalPageIdentity(t *testing.T) {
	cache := NewLRUPageCache(2)
	pg := emptyHeapPage(t, 1, 0)

	putPID := page.NewPageDescriptor(1, 0)
	if err := cache.Put(putPID, pg); err != nil {
		t.Fatalf("Put: %v", err)
	}

	lookupPID := page.NewPageDescriptor(1, 0)
	if _, ok := cache.Get(lookupPID); !ok {
		t.Fatal("expected a cache hit using a distinct PageDescriptor for the same logical page")
	}
}

// LRUPageCache itself never evicts: Put on a full cache returns an error and
// leaves the existing entries untouched. Eviction is PageStore.evictPage's
// job, layered on top once it knows which pages are safe to drop (NO-STEAL).
func TestLRUPageCache_PutOnFullCacheErrors(t *testing.T) {
	cache := NewLRUPageCache(2)

	pg0 := emptyHeapPage(t, 1, 0)
	pg1 := emptyHeapPage(t, 1, 1)
	pg2 := emptyHeapPage(t, 1, 2)

	if err := cache.Put(pg0.GetID(), pg0); err != nil {
		t.Fatalf("Put pg0: %v", err)
	}
	if err := cache.Put(pg1.GetID(), pg1); err != nil {
		t.Fatalf("Put pg1: %v", err)
	}

	if err := cache.Put(pg2.GetID(), pg2); err == nil {
		t.Fatal("expected error putting into a full cache")
	}
	if _, ok := cache.Get(pg0.GetID()); !ok {
		t.Error("expected page 0 to remain present after a rejected Put")
	}
	if _, ok := cache.Get(pg1.GetID()); !ok {
		t.Error("expected page 1 to remain present after a rejected Put")
	}
}

// Re-putting a page already in the cache updates it in place rather than
// counting against capacity a second time.
func TestLRUPageCache_PutExistingUpdatesInPlace(t *testing.T) {
	cache := NewLRUPageCache(1)
	pg := emptyHeapPage(t, 1, 0)

	if err := cache.Put(pg.GetID(), pg); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Put(pg.GetID(), pg); err != nil {
		t.Fatalf("re-Put of existing page should not error: %v", err)
	}
	if cache.Size() != 1 {
		t.Errorf("Size = %d, want 1", cache.Size())
	}
}

func TestLRUPageCache_Remove(t *testing.T) {
	cache := NewLRUPageCache(2)
	pg := emptyHeapPage(t, 1, 0)
	cache.Put(pg.GetID(), pg)

	cache.Remove(pg.GetID())

	if _, ok := cache.Get(pg.GetID()); ok {
		t.Fatal("expected page to be gone after Remove")
	}
	if cache.Size() != 0 {
		t.Errorf("Size = %d, want 0", cache.Size())
	}
}

func TestLRUPageCache_Clear(t *testing.T) {
	cache := NewLRUPageCache(2)
	cache.Put(page.NewPageDescriptor(1, 0), emptyHeapPage(t, 1, 0))
	cache.Put(page.NewPageDescriptor(1, 1), emptyHeapPage(t, 1, 1))

	cache.Clear()

	if cache.Size() != 0 {
		t.Errorf("Size after Clear = %d, want 0", cache.Size())
	}
}

func TestLRUPageCache_GetAll(t *testing.T) {
	cache := NewLRUPageCache(3)
	pg0 := emptyHeapPage(t, 1, 0)
	pg1 := emptyHeapPage(t, 1, 1)
	cache.Put(pg0.GetID(), pg0)
	cache.Put(pg1.GetID(), pg1)

	all := cache.GetAll()
	if len(all) != 2 {
		t.Fatalf("GetAll returned %d pages, want 2", len(all))
	}
}
