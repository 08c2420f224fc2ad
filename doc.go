// Package bitwire is the runtime core of a schema-driven bit-level
// serialization framework.
//
// Generated structures use it to encode and decode choice values: tagged
// unions whose active alternative is selected by a discriminant supplied by
// the enclosing structure rather than stored in the encoded bytes. Every heap
// node the framework produces is managed by an allocator-aware unique owner.
//
// # Architecture Overview
//
//	bitwire/             Root package with the BitReader and BitWriter contracts
//	├── bitstream/       Byte-slice backed bit reader and writer
//	├── types/           Payload codecs (int8..int64, int:N, uint:N, bool, varuint)
//	├── choice/          Tagged values, views and the choice codec
//	├── alloc/           Memory providers and the unique owner
//	│   └── linear/      Resource backed by WebAssembly linear memory (wazero)
//	├── gen/pmr/         Generated-style BoolParamChoice
//	├── errors/          Structured error types
//	└── cmd/choice/      Command line encoder, decoder and inspector
//
// # Quick Start
//
//	schema, _ := choice.NewSchema("BoolParamChoice",
//	    choice.Alt("valueA", types.Int8()),
//	    choice.Alt("valueB", types.Int16()),
//	)
//	c := choice.NewChoice(schema, choice.BoolSelector(0, 1))
//
//	data, _ := schema.New(alloc.Heap())
//	_ = data.Set(0, int8(-5))
//
//	w := bitstream.NewWriter()
//	defer w.Release()
//	_ = c.View(data, true).Write(w) // 0xFB, 8 bits
//
//	r := bitstream.NewReader(buf)
//	decoded, view, err := c.Read(r, alloc.Heap(), true)
//
// # Discriminants
//
// The discriminant never appears on the wire. The same value used at write
// time must be passed to Read and to every later operation on the decoded
// value. A different discriminant silently reinterprets the payload bits as
// another alternative.
//
// # Thread Safety
//
// Schemas, choices and codecs are immutable and safe for concurrent use.
// A single Variant or Owner is not safe for concurrent mutation, move or
// close. Resources must be safe for concurrent use if they are shared.
package bitwire
