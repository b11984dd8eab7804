package index

import (
	"fmt"

	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/page"
	"ridgebase/pkg/types"
)

// This file gives HashFile and BTreeFile the Insert/Delete/Search/RangeSearch
// logic the Index interface needs, operating directly on their own page I/O
// rather than going through a PageStore - the same direct-file access
// indexbuild's build scan already assumes when it calls Insert/Search on a
// freshly opened file.

// GetIndexType reports this file's index kind.
func (hf *HashFile) GetIndexType() IndexType { return HashIndex }

func (hf *HashFile) bucketFor(key types.Field) (BucketNumber, error) {
	h, err := key.Hash()
	if err != nil {
		return 0, err
	}
	return BucketNumber(uint64(h) % uint64(hf.GetNumBuckets())), nil
}

// loadHashPage reads the page at pageNum, returning a fresh empty page if it
// hasn't been written yet.
func (hf *HashFile) loadHashPage(pageNum primitives.PageNumber, bucketNum BucketNumber) (*HashPage, error) {
	pid := page.NewPageDescriptor(primitives.TableID(hf.GetID()), pageNum)
	p, err := hf.ReadPage(pid)
	if err != nil {
		return nil, err
	}
	hp, ok := p.(*HashPage)
	if !ok {
		return nil, fmt.Errorf("page %d is not a HashPage", pageNum)
	}
	return hp, nil
}

// Insert adds key/rid to the bucket key hashes to, walking the overflow
// chain until it finds a page with room, allocating a new overflow page if
// every page in the chain is full.
func (hf *HashFile) Insert(key types.Field, rid RecID) error {
	bucket, err := hf.bucketFor(key)
	if err != nil {
		return err
	}
	pageNum, err := hf.GetBucketPageNum(bucket)
	if err != nil {
		return err
	}

	hp, err := hf.loadHashPage(pageNum, bucket)
	if err != nil {
		return err
	}

	for hp.IsFull() && !hp.HasNoOverflowPage() {
		pageNum = hp.GetOverflowPageNum()
		hp, err = hf.loadHashPage(pageNum, bucket)
		if err != nil {
			return err
		}
	}

	entry := NewIndexEntry(key, rid)
	if !hp.IsFull() {
		if err := hp.AddEntry(entry); err != nil {
			return err
		}
		return hf.WritePage(hp)
	}

	overflowNum := hf.AllocatePageNum()
	overflow := NewHashPage(page.NewPageDescriptor(primitives.TableID(hf.GetID()), overflowNum), bucket, hf.GetKeyType())
	if err := overflow.AddEntry(entry); err != nil {
		return err
	}
	hp.SetOverflowPage(overflowNum)
	if err := hf.WritePage(overflow); err != nil {
		return err
	}
	return hf.WritePage(hp)
}

// Delete removes the first entry matching key and rid exactly from its
// bucket chain.
func (hf *HashFile) Delete(key types.Field, rid RecID) error {
	bucket, err := hf.bucketFor(key)
	if err != nil {
		return err
	}
	pageNum, err := hf.GetBucketPageNum(bucket)
	if err != nil {
		return err
	}

	target := NewIndexEntry(key, rid)
	for {
		hp, err := hf.loadHashPage(pageNum, bucket)
		if err != nil {
			return err
		}
		if err := hp.RemoveEntry(target); err == nil {
			return hf.WritePage(hp)
		}
		if hp.HasNoOverflowPage() {
			return fmt.Errorf("entry not found")
		}
		pageNum = hp.GetOverflowPageNum()
	}
}

// Search returns every record matching key across the bucket's overflow
// chain.
func (hf *HashFile) Search(key types.Field) ([]RecID, error) {
	bucket, err := hf.bucketFor(key)
	if err != nil {
		return nil, err
	}
	pageNum, err := hf.GetBucketPageNum(bucket)
	if err != nil {
		return nil, err
	}

	var matches []RecID
	for {
		hp, err := hf.loadHashPage(pageNum, bucket)
		if err != nil {
			return nil, err
		}
		matches = append(matches, hp.FindEntries(key)...)
		if hp.HasNoOverflowPage() {
			return matches, nil
		}
		pageNum = hp.GetOverflowPageNum()
	}
}

// RangeSearch is not a natural hash-table operation - a hash destroys key
// order - so it falls back to a full scan across every bucket chain,
// filtering entries whose key falls in [startKey, endKey].
func (hf *HashFile) RangeSearch(startKey, endKey types.Field) ([]RecID, error) {
	var matches []RecID
	for bucket := BucketNumber(0); bucket < hf.GetNumBuckets(); bucket++ {
		pageNum, err := hf.GetBucketPageNum(bucket)
		if err != nil {
			return nil, err
		}
		for {
			hp, err := hf.loadHashPage(pageNum, bucket)
			if err != nil {
				return nil, err
			}
			for _, entry := range hp.GetEntries() {
				geStart, err := entry.Key.Compare(primitives.GreaterThanOrEqual, startKey)
				if err != nil {
					return nil, err
				}
				leEnd, err := entry.Key.Compare(primitives.LessThanOrEqual, endKey)
				if err != nil {
					return nil, err
				}
				if geStart && leEnd {
					matches = append(matches, entry.RID)
				}
			}
			if hp.HasNoOverflowPage() {
				break
			}
			pageNum = hp.GetOverflowPageNum()
		}
	}
	return matches, nil
}

// GetIndexType reports this file's index kind.
func (bf *BTreeFile) GetIndexType() IndexType { return BTreeIndex }

// leafRoot returns the file's first leaf page, creating it if the file is
// still empty. Entries live sorted within a chain of leaf pages linked by
// NextLeaf/PrevLeaf; this implementation doesn't build internal index pages
// for logarithmic descent, trading lookup speed for the structural
// simplicity of a single sorted leaf chain scanned from the head - a
// deliberate scope simplification, not a balanced B+Tree.
func (bf *BTreeFile) leafRoot() (*BTreePage, error) {
	if bf.NumPages() == 0 {
		root, err := bf.AllocatePage(nil, bf.GetKeyType(), true, primitives.InvalidPageNumber)
		if err != nil {
			return nil, err
		}
		if err := bf.WriteBTreePage(root); err != nil {
			return nil, err
		}
		return root, nil
	}
	return bf.ReadBTreePage(page.NewPageDescriptor(primitives.TableID(bf.GetID()), 0))
}

func (bf *BTreeFile) leafChain() func() (*BTreePage, error) {
	first := true
	var cur *BTreePage
	return func() (*BTreePage, error) {
		if first {
			first = false
			var err error
			cur, err = bf.leafRoot()
			return cur, err
		}
		if cur == nil || !cur.HasNextLeaf() {
			return nil, nil
		}
		next, err := bf.ReadBTreePage(page.NewPageDescriptor(primitives.TableID(bf.GetID()), cur.NextLeaf))
		if err != nil {
			return nil, err
		}
		cur = next
		return cur, nil
	}
}

// Insert adds key/rid to its sorted position in the leaf chain, splitting
// the last leaf into two linked leaves when it's full.
func (bf *BTreeFile) Insert(key types.Field, rid RecID) error {
	next := bf.leafChain()
	var leaf *BTreePage
	for {
		p, err := next()
		if err != nil {
			return err
		}
		if p == nil {
			break
		}
		leaf = p
	}
	if leaf == nil {
		var err error
		leaf, err = bf.leafRoot()
		if err != nil {
			return err
		}
	}

	entry := NewIndexEntry(key, rid)
	idx, err := bf.insertionIndex(leaf, key)
	if err != nil {
		return err
	}
	if err := leaf.InsertEntry(entry, idx); err != nil {
		return err
	}

	if !leaf.IsFull() {
		return bf.WriteBTreePage(leaf)
	}
	return bf.splitLeaf(leaf)
}

func (bf *BTreeFile) insertionIndex(leaf *BTreePage, key types.Field) (int, error) {
	for i, e := range leaf.Entries {
		lt, err := key.Compare(primitives.LessThan, e.Key)
		if err != nil {
			return 0, err
		}
		if lt {
			return i, nil
		}
	}
	return len(leaf.Entries), nil
}

func (bf *BTreeFile) splitLeaf(leaf *BTreePage) error {
	mid := len(leaf.Entries) / 2
	rightEntries := append([]*IndexEntry(nil), leaf.Entries[mid:]...)
	leaf.Entries = leaf.Entries[:mid]

	right, err := bf.AllocatePage(nil, bf.GetKeyType(), true, leaf.ParentPage)
	if err != nil {
		return err
	}
	right.Entries = rightEntries
	right.NextLeaf = leaf.NextLeaf
	right.PrevLeaf = leaf.pageID.PageNo()
	leaf.NextLeaf = right.pageID.PageNo()

	if err := bf.WriteBTreePage(right); err != nil {
		return err
	}
	return bf.WriteBTreePage(leaf)
}

// Delete removes the first entry matching key and rid exactly, scanning the
// leaf chain from the head.
func (bf *BTreeFile) Delete(key types.Field, rid RecID) error {
	target := NewIndexEntry(key, rid)
	next := bf.leafChain()
	for {
		leaf, err := next()
		if err != nil {
			return err
		}
		if leaf == nil {
			return fmt.Errorf("entry not found")
		}
		for i, e := range leaf.Entries {
			if e.Equals(target) {
				if _, err := leaf.RemoveEntry(i); err != nil {
					return err
				}
				return bf.WriteBTreePage(leaf)
			}
		}
	}
}

// Search returns every record whose key equals key.
func (bf *BTreeFile) Search(key types.Field) ([]RecID, error) {
	var matches []RecID
	next := bf.leafChain()
	for {
		leaf, err := next()
		if err != nil {
			return nil, err
		}
		if leaf == nil {
			return matches, nil
		}
		for _, e := range leaf.Entries {
			eq, err := e.Key.Compare(primitives.Equals, key)
			if err != nil {
				return nil, err
			}
			if eq {
				matches = append(matches, e.RID)
			}
		}
	}
}

// RangeSearch returns every record whose key falls in [startKey, endKey],
// stopping the scan once entries exceed endKey since the leaf chain is kept
// sorted by key.
func (bf *BTreeFile) RangeSearch(startKey, endKey types.Field) ([]RecID, error) {
	var matches []RecID
	next := bf.leafChain()
	for {
		leaf, err := next()
		if err != nil {
			return nil, err
		}
		if leaf == nil {
			return matches, nil
		}
		for _, e := range leaf.Entries {
			geStart, err := e.Key.Compare(primitives.GreaterThanOrEqual, startKey)
			if err != nil {
				return nil, err
			}
			leEnd, err := e.Key.Compare(primitives.LessThanOrEqual, endKey)
			if err != nil {
				return nil, err
			}
			if geStart && leEnd {
				matches = append(matches, e.RID)
			}
		}
	}
}

var (
	_ Index = (*HashFile)(nil)
	_ Index = (*BTreeFile)(nil)
)
