package bitstream

import (
	"bytes"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"github.com/wippyai/bitwire-runtime/errors"
)

// Reader reads bit fields from a byte slice with position tracking.
type Reader struct {
	r    *bitio.Reader
	pos  uint64
	size uint64
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{
		r:    bitio.NewReader(bytes.NewReader(data)),
		size: uint64(len(data)) * 8,
	}
}

// BitPosition returns the number of bits consumed so far.
func (r *Reader) BitPosition() uint64 {
	return r.pos
}

// BitSize returns the total number of bits in the underlying data.
func (r *Reader) BitSize() uint64 {
	return r.size
}

// Remaining returns the number of bits left to read.
func (r *Reader) Remaining() uint64 {
	return r.size - r.pos
}

// ReadBits reads an n-bit unsigned field.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > MaxBits {
		return 0, errors.Stream(errors.PhaseRead, r.pos,
			fmt.Sprintf("cannot read %d bits in one field", n), nil)
	}
	if r.Remaining() < uint64(n) {
		return 0, errors.Stream(errors.PhaseRead, r.pos,
			fmt.Sprintf("underrun reading %d bits (%d available)", n, r.Remaining()), io.ErrUnexpectedEOF)
	}
	v, err := r.r.ReadBits(n)
	if err != nil {
		return 0, r.wrapError(err)
	}
	r.pos += uint64(n)
	return v, nil
}

// ReadSignedBits reads an n-bit two's-complement field and sign-extends it.
func (r *Reader) ReadSignedBits(n uint8) (int64, error) {
	v, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

func (r *Reader) wrapError(err error) error {
	return errors.Stream(errors.PhaseRead, r.pos, "read failed", err)
}
