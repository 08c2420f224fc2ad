package types

import (
	"cmp"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.bytecodealliance.org/wit"

	bitwire "github.com/wippyai/bitwire-runtime"
	"github.com/wippyai/bitwire-runtime/bitstream"
)

// VarUint64Codec encodes a uint64 in 1 to 9 bytes depending on its magnitude.
type VarUint64Codec struct{}

func VarUint64() VarUint64Codec { return VarUint64Codec{} }

func (VarUint64Codec) Name() string            { return "varuint64" }
func (VarUint64Codec) Validate(uint64) error   { return nil }
func (VarUint64Codec) WIT() wit.Type           { return wit.U64{} }
func (VarUint64Codec) Compare(a, b uint64) int { return cmp.Compare(a, b) }

func (VarUint64Codec) BitSizeOf(v uint64, _ uint64) uint64 {
	return bitstream.BitSizeOfVarUint64(v)
}

func (VarUint64Codec) Write(w bitwire.BitWriter, v uint64) error {
	return bitstream.WriteVarUint64(w, v)
}

func (VarUint64Codec) Read(r bitwire.BitReader) (uint64, error) {
	return bitstream.ReadVarUint64(r)
}

func (VarUint64Codec) Hash(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
