// Package choice implements externally discriminated tagged unions.
//
// A Schema lists the alternatives of a choice type in order. A Variant holds
// exactly one of them. The discriminant that decides which alternative is
// active lives outside the encoded bytes: the enclosing structure supplies
// it to every operation through a View.
//
// # Selection
//
// A Choice pairs a Schema with a Selector mapping the discriminant to an
// alternative index. The index is recomputed on every call and never cached
// in the Variant:
//
//	c := choice.NewChoice(schema, choice.BoolSelector(0, 1))
//	idx, err := c.View(data, true).Index() // 0
//
// MapSelector is partial; unmapped discriminants fail with
// KindInvalidSelection.
//
// # Wire Format
//
// Write emits only the active payload with its natural encoding. There is
// no header and no discriminant. BitSizeOf returns exactly the number of
// bits Write emits.
//
// # Access
//
// Get and the View methods fail with KindWrongVariant when the discriminant
// selects an alternative other than the one requested, or other than the
// one the Variant stores.
//
// # Ordering and Hashing
//
// Views compare by selected index first, then by payload; two views whose
// discriminants select different indices are never equal. Variants compare
// by their stored index and payload only. Hashes are xxhash64 over the
// index followed by the payload's canonical bytes.
//
// # Heap-Resident Payloads
//
// Alternatives declared with the Heap option are stored in an alloc.Owner
// created from the Variant's resource. Set and Read allocate before any
// state change and release the previous payload afterwards.
package choice
