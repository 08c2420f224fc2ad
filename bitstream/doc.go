// Package bitstream provides byte-slice backed implementations of the
// bitwire.BitReader and bitwire.BitWriter contracts.
//
// Bits are packed most-significant first, the layout every generated
// structure assumes:
//
//	WriteSignedBits(-5, 8)   -> 0xFB
//	WriteSignedBits(300, 16) -> 0x01 0x2C
//
// # Faults
//
// Reading past the end of the data (underrun) or writing past the bound of a
// BoundedWriter (overrun) fails with a KindStream error carrying the bit
// position. A failed read or write does not consume or emit any bits.
//
// # Variable-length Integers
//
// WriteVarUint64 uses 7-bit groups with a continuation flag, most significant
// group first. The ninth byte, when present, carries 8 value bits.
//
// # Buffers
//
// Writers draw their buffers from a pool. Call Release once the bytes
// returned by Bytes are no longer needed.
package bitstream
