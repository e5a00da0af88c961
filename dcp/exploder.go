// Package dcp splits the payload of a dcp-block response into the DCP
// records packed inside it and gives access to their header fields.
package dcp

import (
	"errors"
	"fmt"

	"github.com/luma/ldds/byteutil"
)

var ErrMalformedRecord = errors.New("Malformed DCP record")

// MalformedRecordError reports where in a block splitting stopped.
type MalformedRecordError struct {
	// Offset of the start of the bad record within the block.
	Offset int

	// Field is the raw length field, if there was enough data to read one.
	Field string

	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s at offset %d (length field '%s'): %s", ErrMalformedRecord, e.Offset, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// Layout locates the length field of each record.
type Layout struct {
	HeaderLength int
	LengthOffset int
	LengthWidth  int
}

var DefaultLayout = Layout{
	HeaderLength: DataOffset,
	LengthOffset: DataLengthOffset,
	LengthWidth:  DataLengthLength,
}

// Explode splits payload using DefaultLayout.
func Explode(payload []byte) *Exploder {
	return DefaultLayout.Explode(payload)
}

// Explode returns an iterator over the records in payload. Nothing is read
// until Next is called.
func (l Layout) Explode(payload []byte) *Exploder {
	return &Exploder{
		payload: payload,
		layout:  l,
	}
}

// Exploder iterates over the records of a block, in the style of
// bufio.Scanner:
//
//	ex := dcp.Explode(payload)
//	for ex.Next() {
//		handle(ex.Record())
//	}
//	if err := ex.Err(); err != nil { ... }
//
// Iteration stops at the first malformed record. Records returned before
// that are still valid.
type Exploder struct {
	payload []byte
	layout  Layout

	offset int
	record Record
	err    error
}

func (e *Exploder) Next() bool {
	e.record = nil

	if e.err != nil || e.offset >= len(e.payload) {
		return false
	}

	start := e.offset
	remaining := len(e.payload) - start

	if remaining < e.layout.HeaderLength {
		e.err = &MalformedRecordError{
			Offset: start,
			Field:  e.lengthField(start),
			Reason: fmt.Sprintf("%d bytes left, need a %d byte header", remaining, e.layout.HeaderLength),
		}
		return false
	}

	n, err := byteutil.ParseInt(e.payload, start+e.layout.LengthOffset, e.layout.LengthWidth)
	if err != nil {
		e.err = &MalformedRecordError{
			Offset: start,
			Field:  e.lengthField(start),
			Reason: err.Error(),
		}
		return false
	}

	end := start + e.layout.HeaderLength + n
	if end > len(e.payload) {
		e.err = &MalformedRecordError{
			Offset: start,
			Field:  e.lengthField(start),
			Reason: fmt.Sprintf("record of %d bytes overruns the block by %d", end-start, end-len(e.payload)),
		}
		return false
	}

	e.record = Record(e.payload[start:end:end])
	e.offset = end

	return true
}

// Record is the record found by the last call to Next.
func (e *Exploder) Record() Record {
	return e.record
}

func (e *Exploder) Err() error {
	return e.err
}

// Offset is where the next record starts.
func (e *Exploder) Offset() int {
	return e.offset
}

// Reset rewinds to the start of the block.
func (e *Exploder) Reset() {
	e.offset = 0
	e.record = nil
	e.err = nil
}

func (e *Exploder) lengthField(start int) string {
	from := start + e.layout.LengthOffset
	to := from + e.layout.LengthWidth
	if from >= len(e.payload) {
		return ""
	}
	if to > len(e.payload) {
		to = len(e.payload)
	}

	return string(e.payload[from:to])
}

// Split collects every record of payload. On a malformed record it returns
// the records before it along with the error.
func Split(payload []byte) ([]Record, error) {
	var records []Record

	ex := Explode(payload)
	for ex.Next() {
		records = append(records, ex.Record())
	}

	return records, ex.Err()
}
