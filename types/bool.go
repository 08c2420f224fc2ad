package types

import (
	"github.com/cespare/xxhash/v2"
	"go.bytecodealliance.org/wit"

	bitwire "github.com/wippyai/bitwire-runtime"
)

// BoolCodec encodes a bool as a single bit.
type BoolCodec struct{}

func Bool() BoolCodec { return BoolCodec{} }

func (BoolCodec) Name() string                  { return "bool" }
func (BoolCodec) Validate(bool) error           { return nil }
func (BoolCodec) BitSizeOf(bool, uint64) uint64 { return 1 }
func (BoolCodec) WIT() wit.Type                 { return wit.Bool{} }

func (BoolCodec) Write(w bitwire.BitWriter, v bool) error {
	if v {
		return w.WriteBits(1, 1)
	}
	return w.WriteBits(0, 1)
}

func (BoolCodec) Read(r bitwire.BitReader) (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

func (BoolCodec) Compare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func (BoolCodec) Hash(h *xxhash.Digest, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
		return
	}
	_, _ = h.Write([]byte{0})
}
