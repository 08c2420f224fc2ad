// Package layout computes Canonical ABI size and alignment for the WIT types
// that describe choice payloads.
//
// # Layout Rules
//
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records: fields laid out sequentially with padding for alignment
//   - Variants: discriminant, then the largest case payload at the
//     alignment of the most aligned case
//
// # Usage
//
//	c := layout.NewCalculator()
//	v := c.Variant(def.Kind.(*wit.Variant))
//	// v.Size, v.Align, v.PayloadOffset, v.Cases[i]
package layout
