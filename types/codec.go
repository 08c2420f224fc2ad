package types

import (
	"github.com/cespare/xxhash/v2"
	"go.bytecodealliance.org/wit"

	bitwire "github.com/wippyai/bitwire-runtime"
)

// Codec encodes, decodes, validates and orders values of one payload type.
type Codec[T any] interface {
	// Name returns the schema type name, e.g. "int16" or "int:12".
	Name() string
	// Validate checks v against the declared value domain.
	Validate(v T) error
	// BitSizeOf returns the exact number of bits Write emits for v at bitPosition.
	BitSizeOf(v T, bitPosition uint64) uint64
	Write(w bitwire.BitWriter, v T) error
	Read(r bitwire.BitReader) (T, error)
	Compare(a, b T) int
	Hash(h *xxhash.Digest, v T)
	// WIT returns the Component Model type the payload maps to.
	WIT() wit.Type
}

// SignedInt is the set of Go types a signed payload can be stored in.
type SignedInt interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInt is the set of Go types an unsigned payload can be stored in.
type UnsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}
