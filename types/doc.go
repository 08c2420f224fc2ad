// Package types provides the payload codecs a choice alternative can carry.
//
// Each codec knows its schema name, its value domain, its exact bit size and
// its natural wire encoding:
//
//	Type        Go      Bits  Domain
//	──────────────────────────────────────────────
//	int8        int8    8     -128..127
//	int16       int16   16    -32768..32767
//	int:N       intX    N     -2^(N-1)..2^(N-1)-1
//	uint:N      uintX   N     0..2^N-1
//	bool        bool    1     false, true
//	varuint64   uint64  8-72  0..2^64-1
//
// Dynamic widths (int:N, uint:N) are stored in the smallest Go integer the
// schema chose; Validate rejects values outside the declared width before
// they reach the wire.
package types
