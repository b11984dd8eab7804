package primitives

import "fmt"

// TableID identifies a table's physical file, derived from FileID.
// Kept as a distinct named type (rather than used as a bare FileID) so that
// table identifiers and index identifiers can't be passed to the wrong
// parameter by accident.
type TableID FileID

// IsValid reports whether t is a non-zero table identifier.
func (t TableID) IsValid() bool {
	return t != 0
}

// AsFileID returns t as the underlying FileID.
func (t TableID) AsFileID() FileID {
	return FileID(t)
}

func (t TableID) String() string {
	return fmt.Sprintf("TableID(%d)", uint64(t))
}

// IndexID identifies an index's physical file, derived from FileID.
type IndexID FileID

func (i IndexID) IsValid() bool {
	return i != 0
}

func (i IndexID) AsFileID() FileID {
	return FileID(i)
}

func (i IndexID) String() string {
	return fmt.Sprintf("IndexID(%d)", uint64(i))
}
