package tuple

import (
	"fmt"

	"ridgebase/pkg/primitives"
)

// RecordID represents a reference to a specific tuple on a specific page
type RecordID struct {
	PageID   primitives.PageID // The page containing this tuple
	TupleNum int               // The tuple number within the page
}

// NewRecordID creates a new RecordID
func NewRecordID(pageID primitives.PageID, tupleNum int) *RecordID {
	return &RecordID{
		PageID:   pageID,
		TupleNum: tupleNum,
	}
}

// TupleRecordID is RecordID's name at most call sites across the storage and
// index packages; kept as an alias so both spellings address the same type.
type TupleRecordID = RecordID

func NewTupleRecordID(pageID primitives.PageID, tupleNum int) *TupleRecordID {
	return NewRecordID(pageID, tupleNum)
}

func (rid *RecordID) Equals(other *RecordID) bool {
	if other == nil {
		return false
	}
	return rid.PageID.Equals(other.PageID) && rid.TupleNum == other.TupleNum
}

func (rid *RecordID) String() string {
	return fmt.Sprintf("RecordID(page=%s, tuple=%d)", rid.PageID.String(), rid.TupleNum)
}
