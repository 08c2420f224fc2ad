package bitstream

import (
	bitwire "github.com/wippyai/bitwire-runtime"
)

const maxVarUint64Bytes = 9

// varUint64Bytes returns the encoded length of v in bytes.
func varUint64Bytes(v uint64) int {
	for n := 1; n < maxVarUint64Bytes; n++ {
		if v < uint64(1)<<(7*n) {
			return n
		}
	}
	return maxVarUint64Bytes
}

// BitSizeOfVarUint64 returns the number of bits WriteVarUint64 emits for v.
func BitSizeOfVarUint64(v uint64) uint64 {
	return uint64(varUint64Bytes(v)) * 8
}

// WriteVarUint64 writes v in the variable-length encoding.
func WriteVarUint64(w bitwire.BitWriter, v uint64) error {
	n := varUint64Bytes(v)
	if n == maxVarUint64Bytes {
		for i := 0; i < maxVarUint64Bytes-1; i++ {
			group := (v >> (8 + 7*(7-i))) & 0x7f
			if err := w.WriteBits(group|0x80, 8); err != nil {
				return err
			}
		}
		return w.WriteBits(v&0xff, 8)
	}
	for i := 0; i < n; i++ {
		b := (v >> (7 * (n - 1 - i))) & 0x7f
		if i < n-1 {
			b |= 0x80
		}
		if err := w.WriteBits(b, 8); err != nil {
			return err
		}
	}
	return nil
}

// ReadVarUint64 reads a value written by WriteVarUint64.
func ReadVarUint64(r bitwire.BitReader) (uint64, error) {
	var result uint64
	for i := 0; i < maxVarUint64Bytes-1; i++ {
		b, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		result = result<<7 | b&0x7f
		if b&0x80 == 0 {
			return result, nil
		}
	}
	b, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	return result<<8 | b, nil
}
