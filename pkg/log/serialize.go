package log

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"ridgebase/pkg/primitives"
	"ridgebase/pkg/storage/page"
)

// Size of the serialized log record in bytes
const (
	RecordSize    = 4
	TypeSize      = 1
	TIDSize       = 8
	PrevLSNSize   = 8
	TimestampSize = 8
)

// Use binary encoding for compact representation
// Format: [Size][Type][TID][PrevLSN][Timestamp][Type-specific data]
func SerializeLogRecord(record *LogRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(byte(record.Type))

	tidVal := uint64(0)
	if record.TID != nil {
		tidVal = uint64(record.TID.ID())
	}
	binary.Write(&buf, binary.BigEndian, tidVal)

	binary.Write(&buf, binary.BigEndian, uint64(record.PrevLSN))
	binary.Write(&buf, binary.BigEndian, uint64(record.Timestamp.Unix()))

	switch record.Type {
	case UpdateRecord, InsertRecord, DeleteRecord:
		serializeDataModification(&buf, record)
	case CLRRecord:
		serializeCLR(&buf, record)
	}

	data := buf.Bytes()
	result := make([]byte, RecordSize+len(data))
	binary.BigEndian.PutUint32(result, uint32(len(result)))
	copy(result[RecordSize:], data)

	return result, nil
}

func serializeDataModification(buf *bytes.Buffer, record *LogRecord) {
	if record.PageID != nil {
		pageIDBytes := record.PageID.Serialize()
		for _, b := range pageIDBytes {
			binary.Write(buf, binary.BigEndian, uint32(b))
		}
	}

	serializeImage(buf, record.BeforeImage)
	serializeImage(buf, record.AfterImage)
}

func serializeCLR(buf *bytes.Buffer, record *LogRecord) {
	if record.PageID != nil {
		pageIDBytes := record.PageID.Serialize()
		for _, b := range pageIDBytes {
			binary.Write(buf, binary.BigEndian, uint32(b))
		}
	}

	binary.Write(buf, binary.BigEndian, uint64(record.UndoNextLSN))
	if record.AfterImage != nil {
		binary.Write(buf, binary.BigEndian, uint32(len(record.AfterImage)))
		buf.Write(record.AfterImage)
	} else {
		binary.Write(buf, binary.BigEndian, uint32(0))
	}
}

func serializeImage(buf *bytes.Buffer, image []byte) {
	if image != nil {
		binary.Write(buf, binary.BigEndian, uint32(len(image)))
		buf.Write(image)
	} else {
		binary.Write(buf, binary.BigEndian, uint32(0))
	}
}

// pageIDWireSize is the on-disk width of a serialized PageID: 16 bytes from
// PageDescriptor.Serialize(), each widened to a 4-byte BigEndian field to
// match serializeDataModification/serializeCLR.
const pageIDWireSize = 16 * 4

// DeserializeLogRecord parses the bytes written by SerializeLogRecord, minus
// the 4-byte record-size header (the caller has already consumed that to
// know how much to read).
func DeserializeLogRecord(data []byte) (*LogRecord, error) {
	if len(data) < TypeSize+TIDSize+PrevLSNSize+TimestampSize {
		return nil, fmt.Errorf("log record too short: %d bytes", len(data))
	}

	offset := 0
	recordType := LogRecordType(data[offset])
	offset += TypeSize

	tidVal := binary.BigEndian.Uint64(data[offset:])
	offset += TIDSize
	var tid *primitives.TransactionID
	if tidVal != 0 {
		tid = primitives.NewTransactionIDFromValue(int64(tidVal))
	}

	prevLSN := primitives.LSN(binary.BigEndian.Uint64(data[offset:]))
	offset += PrevLSNSize

	timestamp := time.Unix(int64(binary.BigEndian.Uint64(data[offset:])), 0)
	offset += TimestampSize

	record := &LogRecord{
		Type:      recordType,
		TID:       tid,
		PrevLSN:   prevLSN,
		Timestamp: timestamp,
	}

	switch recordType {
	case UpdateRecord, InsertRecord, DeleteRecord:
		pid, n, err := deserializePageID(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n
		record.PageID = pid

		before, n, err := deserializeImage(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n
		record.BeforeImage = before

		after, _, err := deserializeImage(data[offset:])
		if err != nil {
			return nil, err
		}
		record.AfterImage = after

	case CLRRecord:
		pid, n, err := deserializePageID(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n
		record.PageID = pid

		if len(data[offset:]) < 8 {
			return nil, fmt.Errorf("truncated CLR record: missing UndoNextLSN")
		}
		record.UndoNextLSN = primitives.LSN(binary.BigEndian.Uint64(data[offset:]))
		offset += 8

		after, _, err := deserializeImage(data[offset:])
		if err != nil {
			return nil, err
		}
		record.AfterImage = after
	}

	return record, nil
}

func deserializePageID(data []byte) (primitives.PageID, int, error) {
	if len(data) < pageIDWireSize {
		return nil, 0, fmt.Errorf("truncated page ID: need %d bytes, have %d", pageIDWireSize, len(data))
	}

	raw := make([]byte, 16)
	for i := range raw {
		raw[i] = byte(binary.BigEndian.Uint32(data[i*4:]))
	}

	tableID := primitives.TableID(binary.LittleEndian.Uint64(raw[0:8]))
	pageNum := primitives.PageNumber(binary.LittleEndian.Uint64(raw[8:16]))
	return page.NewPageDescriptor(tableID, pageNum), pageIDWireSize, nil
}

func deserializeImage(data []byte) ([]byte, int, error) {
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("truncated image length")
	}
	length := binary.BigEndian.Uint32(data)
	if length == 0 {
		return nil, 4, nil
	}
	if len(data) < 4+int(length) {
		return nil, 0, fmt.Errorf("truncated image: need %d bytes, have %d", length, len(data)-4)
	}
	image := make([]byte, length)
	copy(image, data[4:4+int(length)])
	return image, 4 + int(length), nil
}
