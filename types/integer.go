package types

import (
	"cmp"
	"encoding/binary"
	"strconv"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"go.bytecodealliance.org/wit"

	bitwire "github.com/wippyai/bitwire-runtime"
	"github.com/wippyai/bitwire-runtime/bitstream"
	"github.com/wippyai/bitwire-runtime/errors"
)

// Signed is a two's-complement integer codec of a fixed bit width.
type Signed[T SignedInt] struct {
	name string
	bits uint8
}

func Int8() Signed[int8]   { return Signed[int8]{name: "int8", bits: 8} }
func Int16() Signed[int16] { return Signed[int16]{name: "int16", bits: 16} }
func Int32() Signed[int32] { return Signed[int32]{name: "int32", bits: 32} }
func Int64() Signed[int64] { return Signed[int64]{name: "int64", bits: 64} }

// IntN returns a codec for an int:N bit field stored in T.
func IntN[T SignedInt](bits uint8) (Signed[T], error) {
	name := "int:" + strconv.Itoa(int(bits))
	if err := checkWidth[T](name, bits); err != nil {
		return Signed[T]{}, err
	}
	return Signed[T]{name: name, bits: bits}, nil
}

func (c Signed[T]) Name() string { return c.name }
func (c Signed[T]) Bits() uint8  { return c.bits }

func (c Signed[T]) Validate(v T) error {
	lo, hi := bitstream.SignedRange(c.bits)
	if x := int64(v); x < lo || x > hi {
		return errors.OutOfRange(nil, c.name, x, lo, hi)
	}
	return nil
}

func (c Signed[T]) BitSizeOf(T, uint64) uint64 {
	return uint64(c.bits)
}

func (c Signed[T]) Write(w bitwire.BitWriter, v T) error {
	return w.WriteSignedBits(int64(v), c.bits)
}

func (c Signed[T]) Read(r bitwire.BitReader) (T, error) {
	v, err := r.ReadSignedBits(c.bits)
	return T(v), err
}

func (c Signed[T]) Compare(a, b T) int {
	return cmp.Compare(a, b)
}

func (c Signed[T]) Hash(h *xxhash.Digest, v T) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
	_, _ = h.Write(buf[:])
}

func (c Signed[T]) WIT() wit.Type {
	var zero T
	switch unsafe.Sizeof(zero) {
	case 1:
		return wit.S8{}
	case 2:
		return wit.S16{}
	case 4:
		return wit.S32{}
	default:
		return wit.S64{}
	}
}

// Unsigned is an unsigned integer codec of a fixed bit width.
type Unsigned[T UnsignedInt] struct {
	name string
	bits uint8
}

func Uint8() Unsigned[uint8]   { return Unsigned[uint8]{name: "uint8", bits: 8} }
func Uint16() Unsigned[uint16] { return Unsigned[uint16]{name: "uint16", bits: 16} }
func Uint32() Unsigned[uint32] { return Unsigned[uint32]{name: "uint32", bits: 32} }
func Uint64() Unsigned[uint64] { return Unsigned[uint64]{name: "uint64", bits: 64} }

// UintN returns a codec for a uint:N bit field stored in T.
func UintN[T UnsignedInt](bits uint8) (Unsigned[T], error) {
	name := "uint:" + strconv.Itoa(int(bits))
	if err := checkWidth[T](name, bits); err != nil {
		return Unsigned[T]{}, err
	}
	return Unsigned[T]{name: name, bits: bits}, nil
}

func (c Unsigned[T]) Name() string { return c.name }
func (c Unsigned[T]) Bits() uint8  { return c.bits }

func (c Unsigned[T]) Validate(v T) error {
	if hi := bitstream.UnsignedMax(c.bits); uint64(v) > hi {
		return errors.OutOfRange(nil, c.name, uint64(v), 0, hi)
	}
	return nil
}

func (c Unsigned[T]) BitSizeOf(T, uint64) uint64 {
	return uint64(c.bits)
}

func (c Unsigned[T]) Write(w bitwire.BitWriter, v T) error {
	return w.WriteBits(uint64(v), c.bits)
}

func (c Unsigned[T]) Read(r bitwire.BitReader) (T, error) {
	v, err := r.ReadBits(c.bits)
	return T(v), err
}

func (c Unsigned[T]) Compare(a, b T) int {
	return cmp.Compare(a, b)
}

func (c Unsigned[T]) Hash(h *xxhash.Digest, v T) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = h.Write(buf[:])
}

func (c Unsigned[T]) WIT() wit.Type {
	var zero T
	switch unsafe.Sizeof(zero) {
	case 1:
		return wit.U8{}
	case 2:
		return wit.U16{}
	case 4:
		return wit.U32{}
	default:
		return wit.U64{}
	}
}

func checkWidth[T SignedInt | UnsignedInt](name string, bits uint8) error {
	var zero T
	storage := uint8(unsafe.Sizeof(zero) * 8)
	if bits == 0 || bits > storage {
		return errors.New(errors.PhaseSchema, errors.KindInvalidSchema).
			SchemaType(name).
			Detail("bit width must be within 1..%d for %d-bit storage", storage, storage).
			Value(bits).
			Build()
	}
	return nil
}
