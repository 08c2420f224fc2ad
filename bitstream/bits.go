package bitstream

import "math"

// MaxBits is the widest field a single read or write can carry.
const MaxBits = 64

// SignedRange returns the two's-complement range of a bits-wide field.
func SignedRange(bits uint8) (lo, hi int64) {
	if bits == 0 {
		return 0, 0
	}
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1
}

// UnsignedMax returns the largest value of a bits-wide unsigned field.
func UnsignedMax(bits uint8) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return uint64(1)<<bits - 1
}

func mask(v uint64, n uint8) uint64 {
	if n >= 64 {
		return v
	}
	return v & (uint64(1)<<n - 1)
}

func signExtend(v uint64, n uint8) int64 {
	if n == 0 || n >= 64 {
		return int64(v)
	}
	if v&(uint64(1)<<(n-1)) != 0 {
		v |= ^uint64(0) << n
	}
	return int64(v)
}

// AlignTo rounds pos up to the next multiple of align. align must be a power of two.
func AlignTo(pos, align uint64) uint64 {
	if align == 0 {
		return pos
	}
	return (pos + align - 1) &^ (align - 1)
}

// ByteLen returns the number of bytes needed to hold bits.
func ByteLen(bits uint64) uint64 {
	return AlignTo(bits, 8) / 8
}
