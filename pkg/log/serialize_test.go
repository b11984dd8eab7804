package log

import (
	"testing"
	"time"

	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/page"
)

func TestSerializeDeserializeLogRecord_Begin(t *testing.T) {
	tid := primitives.NewTransactionID()
	record := &LogRecord{
		Type:      BeginRecord,
		TID:       tid,
		PrevLSN:   0,
		Timestamp: time.Unix(1700000000, 0),
	}

	data, err := SerializeLogRecord(record)
	if err != nil {
		t.Fatalf("SerializeLogRecord: %v", err)
	}

	got, err := DeserializeLogRecord(data[RecordSize:])
	if err != nil {
		t.Fatalf("DeserializeLogRecord: %v", err)
	}

	if got.Type != BeginRecord {
		t.Errorf("Type = %v, want BeginRecord", got.Type)
	}
	if got.TID == nil || got.TID.ID() != tid.ID() {
		t.Errorf("TID = %v, want %v", got.TID, tid)
	}
}

func TestSerializeDeserializeLogRecord_Insert(t *testing.T) {
	tid := primitives.NewTransactionID()
	pid := page.NewPageDescriptor(primitives.TableID(7), primitives.PageNumber(42))
	record := &LogRecord{
		Type:        InsertRecord,
		TID:         tid,
		PrevLSN:     100,
		PageID:      pid,
		AfterImage:  []byte("the after image"),
		Timestamp:   time.Unix(1700000000, 0),
	}

	data, err := SerializeLogRecord(record)
	if err != nil {
		t.Fatalf("SerializeLogRecord: %v", err)
	}

	got, err := DeserializeLogRecord(data[RecordSize:])
	if err != nil {
		t.Fatalf("DeserializeLogRecord: %v", err)
	}

	if got.PrevLSN != record.PrevLSN {
		t.Errorf("PrevLSN = %d, want %d", got.PrevLSN, record.PrevLSN)
	}
	if string(got.AfterImage) != string(record.AfterImage) {
		t.Errorf("AfterImage = %q, want %q", got.AfterImage, record.AfterImage)
	}
	if got.BeforeImage != nil {
		t.Errorf("BeforeImage = %q, want nil", got.BeforeImage)
	}
	if !got.PageID.Equals(pid) {
		t.Errorf("PageID = %v, want %v", got.PageID, pid)
	}
}

func TestSerializeDeserializeLogRecord_Delete(t *testing.T) {
	tid := primitives.NewTransactionID()
	pid := page.NewPageDescriptor(primitives.TableID(3), primitives.PageNumber(1))
	record := &LogRecord{
		Type:        DeleteRecord,
		TID:         tid,
		PrevLSN:     50,
		PageID:      pid,
		BeforeImage: []byte("the before image"),
		Timestamp:   time.Unix(1700000000, 0),
	}

	data, err := SerializeLogRecord(record)
	if err != nil {
		t.Fatalf("SerializeLogRecord: %v", err)
	}

	got, err := DeserializeLogRecord(data[RecordSize:])
	if err != nil {
		t.Fatalf("DeserializeLogRecord: %v", err)
	}

	if string(got.BeforeImage) != string(record.BeforeImage) {
		t.Errorf("BeforeImage = %q, want %q", got.BeforeImage, record.BeforeImage)
	}
	if !got.PageID.Equals(pid) {
		t.Errorf("PageID = %v, want %v", got.PageID, pid)
	}
}

func TestDeserializeLogRecord_TooShort(t *testing.T) {
	if _, err := DeserializeLogRecord([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error deserializing a truncated record")
	}
}
