// Package binio provides the little-endian primitives shared by the CLDB and
// TPK encoders.
//
// Writer appends to an in-memory buffer; every record in both formats is
// assembled in memory before it is written, so the writer never fails.
// Reader keeps the first error it hits and turns every later read into a
// no-op, so decoders check Err once per logical section.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortRead is returned when a read runs past the end of the input.
var ErrShortRead = errors.New("binio: unexpected end of data")

// ErrStringTooLong is returned when a length-prefixed string does not fit its prefix.
var ErrStringTooLong = errors.New("binio: string too long for length prefix")

// Writer accumulates little-endian encoded values.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) U8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) U16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *Writer) U32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *Writer) I32(v int32)  { w.U32(uint32(v)) } //nolint:gosec // two's complement reinterpretation

// Bool writes a single byte, 1 for true.
func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
		return
	}
	w.U8(0)
}

// Raw appends p verbatim.
func (w *Writer) Raw(p []byte) { w.buf = append(w.buf, p...) }

// Tag appends a fixed-size ASCII tag such as a file magic.
func (w *Writer) Tag(s string) { w.buf = append(w.buf, s...) }

// CountString writes a string prefixed by a one-byte length.
func (w *Writer) CountString(s string) error {
	if len(s) > math.MaxUint8 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	w.U8(uint8(len(s)))
	w.Tag(s)
	return nil
}

// LenString writes a string prefixed by a four-byte length.
func (w *Writer) LenString(s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	w.U32(uint32(len(s)))
	w.Tag(s)
	return nil
}

// Reader decodes little-endian values from a byte slice.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.pos {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d", ErrShortRead, n, r.pos)
		return nil
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n
	return p
}

func (r *Reader) U8() uint8 {
	p := r.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (r *Reader) U16() uint16 {
	p := r.take(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

func (r *Reader) U32() uint32 {
	p := r.take(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (r *Reader) I32() int32 { return int32(r.U32()) } //nolint:gosec // two's complement reinterpretation

// Bool reads one byte; any non-zero value is true.
func (r *Reader) Bool() bool { return r.U8() != 0 }

// Raw returns the next n bytes. The slice aliases the input.
func (r *Reader) Raw(n int) []byte { return r.take(n) }

// Tag reads a fixed-size ASCII tag.
func (r *Reader) Tag(n int) string { return string(r.take(n)) }

// CountString reads a string prefixed by a one-byte length.
func (r *Reader) CountString() string {
	n := r.U8()
	return string(r.take(int(n)))
}

// LenString reads a string prefixed by a four-byte length.
func (r *Reader) LenString() string {
	n := r.U32()
	if uint64(n) > uint64(math.MaxInt) {
		r.err = fmt.Errorf("%w: string length %d", ErrShortRead, n)
		return ""
	}
	return string(r.take(int(n)))
}
