package bitwire

// BitReader reads big-endian bit fields from an encoded stream.
// Reading n == 0 bits returns 0 and does not advance.
type BitReader interface {
	ReadBits(n uint8) (uint64, error)
	ReadSignedBits(n uint8) (int64, error)
	BitPosition() uint64
}

// BitWriter writes big-endian bit fields to an encoded stream.
// Only the n lowest bits of a value are emitted; no padding is inserted.
type BitWriter interface {
	WriteBits(v uint64, n uint8) error
	WriteSignedBits(v int64, n uint8) error
	BitPosition() uint64
}
