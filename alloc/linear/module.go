package linear

const (
	// PageSize is the WebAssembly page size in bytes.
	PageSize = 65536

	// MaxPages bounds the memory so its size fits in a uint32.
	MaxPages = 32768

	memoryExport = "memory"
)

// memoryModule returns a module whose only content is an exported memory of
// exactly pages pages (minimum and maximum equal).
func memoryModule(pages uint32) []byte {
	limits := []byte{0x01, 0x01} // one memory, flag: has max
	limits = appendULEB128(limits, pages)
	limits = appendULEB128(limits, pages)

	out := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, // memory section
	}
	out = appendULEB128(out, uint32(len(limits)))
	out = append(out, limits...)

	out = append(out,
		0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
		0x06, 'm', 'e', 'm', 'o', 'r', 'y',
		0x02, 0x00, // kind: memory, index 0
	)
	return out
}

func appendULEB128(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b = append(b, c|0x80)
			continue
		}
		return append(b, c)
	}
}
