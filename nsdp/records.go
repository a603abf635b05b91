package nsdp

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// TagEnd marks the last record of a response.
const TagEnd uint16 = 0xFFFF

const recordHeaderLen = 4

// Record is one tag-length-value unit of a response body.
type Record struct {
	Tag     uint16
	Payload []byte
}

// RecordReader walks the records of a response body in order. It stops after
// a TagEnd record or when the body is exhausted, whichever comes first; bytes
// after the terminator are ignored.
//
//	r := nsdp.DecodeRecords(body)
//	for r.Next() {
//		rec := r.Record()
//	}
//	if err := r.Err(); err != nil { ... }
type RecordReader struct {
	buf  []byte
	rec  Record
	err  error
	done bool
}

func DecodeRecords(body []byte) *RecordReader {
	return &RecordReader{buf: body}
}

// Next advances to the next non-terminator record.
func (r *RecordReader) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	if len(r.buf) == 0 {
		r.done = true
		return false
	}
	if len(r.buf) < recordHeaderLen {
		r.err = errors.Wrapf(ErrTruncatedRecord, "%d trailing bytes", len(r.buf))
		return false
	}

	tag := binary.BigEndian.Uint16(r.buf[0:2])
	length := int(binary.BigEndian.Uint16(r.buf[2:4]))
	rest := r.buf[recordHeaderLen:]

	if tag == TagEnd {
		// the terminator ends the stream even if its declared payload runs past the buffer
		r.buf = rest[min(length, len(rest)):]
		r.done = true
		return false
	}
	if length > len(rest) {
		r.err = errors.Wrapf(ErrTruncatedRecord, "tag %#04x declares %d bytes, %d remain", tag, length, len(rest))
		return false
	}

	r.rec = Record{Tag: tag, Payload: rest[:length:length]}
	r.buf = rest[length:]
	return true
}

func (r *RecordReader) Record() Record {
	return r.rec
}

func (r *RecordReader) Err() error {
	return r.err
}

// Records collects the whole record stream. On error no records are returned.
func Records(body []byte) ([]Record, error) {
	var records []Record
	r := DecodeRecords(body)
	for r.Next() {
		records = append(records, r.Record())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
