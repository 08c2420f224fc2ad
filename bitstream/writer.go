package bitstream

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"

	"github.com/wippyai/bitwire-runtime/errors"
)

// Writer writes bit fields into a pooled buffer.
type Writer struct {
	buf     *bytes.Buffer
	w       *bitio.Writer
	pos     uint64
	maxBits uint64
	closed  bool
}

// NewWriter creates an unbounded Writer.
func NewWriter() *Writer {
	buf := getBuffer()
	return &Writer{buf: buf, w: bitio.NewWriter(buf)}
}

// NewBoundedWriter creates a Writer that refuses to write past maxBits.
func NewBoundedWriter(maxBits uint64) *Writer {
	w := NewWriter()
	w.maxBits = maxBits
	return w
}

// BitPosition returns the number of bits written so far.
func (w *Writer) BitPosition() uint64 {
	return w.pos
}

// WriteBits writes the n lowest bits of v.
func (w *Writer) WriteBits(v uint64, n uint8) error {
	if n == 0 {
		return nil
	}
	if w.closed {
		return errors.Stream(errors.PhaseWrite, w.pos, "write after Bytes", nil)
	}
	if n > MaxBits {
		return errors.Stream(errors.PhaseWrite, w.pos,
			fmt.Sprintf("cannot write %d bits in one field", n), nil)
	}
	if w.maxBits > 0 && w.pos+uint64(n) > w.maxBits {
		return errors.Stream(errors.PhaseWrite, w.pos,
			fmt.Sprintf("overrun writing %d bits (%d available)", n, w.maxBits-w.pos), nil)
	}
	if err := w.w.WriteBits(mask(v, n), n); err != nil {
		return errors.Stream(errors.PhaseWrite, w.pos, "write failed", err)
	}
	w.pos += uint64(n)
	return nil
}

// WriteSignedBits writes v as an n-bit two's-complement field.
func (w *Writer) WriteSignedBits(v int64, n uint8) error {
	return w.WriteBits(uint64(v), n)
}

// WriteBool writes a single bit.
func (w *Writer) WriteBool(b bool) error {
	if b {
		return w.WriteBits(1, 1)
	}
	return w.WriteBits(0, 1)
}

// Bytes flushes pending bits, zero-padding the last byte, and returns a copy
// of the encoded data. The writer accepts no further writes.
func (w *Writer) Bytes() ([]byte, error) {
	if !w.closed {
		if err := w.w.Close(); err != nil {
			return nil, errors.Stream(errors.PhaseWrite, w.pos, "flush failed", err)
		}
		w.closed = true
	}
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	return out, nil
}

// Release returns the buffer to the pool. The writer is invalid afterwards.
func (w *Writer) Release() {
	putBuffer(w.buf)
	w.buf = nil
	w.w = nil
}
