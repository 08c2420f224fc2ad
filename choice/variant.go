package choice

import (
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/errors"
)

// Variant holds exactly one alternative of a Schema. It stores its own
// index, which a View checks against the index its discriminant selects.
//
// A Variant is not safe for concurrent mutation.
type Variant struct {
	schema  *Schema
	res     alloc.Resource
	payload any
	index   int
}

func (v *Variant) Schema() *Schema { return v.schema }

// Index returns the stored alternative index.
func (v *Variant) Index() int { return v.index }

// Payload returns the stored value, unwrapped from its owner when the
// alternative is heap-resident.
func (v *Variant) Payload() any {
	p, _ := v.schema.alts[v.index].ops.value(v.payload)
	return p
}

// Set replaces the active alternative and its value. On error the variant
// is unchanged. A previously owned payload is released after the swap.
func (v *Variant) Set(index int, value any) error {
	alt, ok := v.schema.Alternative(index)
	if !ok {
		return errors.InvalidSelection([]string{v.schema.name}, index,
			fmt.Sprintf("alternative index out of range [0,%d)", v.schema.Len()))
	}

	p, err := alt.ops.box(v.res, value)
	if err != nil {
		return errors.WithPath(err, v.schema.path(index)...)
	}
	v.replace(index, p)
	return nil
}

func (v *Variant) replace(index int, p any) {
	old, oldIndex := v.payload, v.index
	v.index, v.payload = index, p
	if old != nil {
		v.schema.alts[oldIndex].ops.release(old)
	}
}

// ValueAt returns the payload of alternative index as T.
func ValueAt[T any](v *Variant, index int) (T, error) {
	var zero T
	if v.index != index {
		return zero, errors.WrongVariant(v.schema.path(index), index, v.index)
	}
	p, ok := v.schema.alts[index].ops.value(v.payload)
	if !ok {
		return zero, errors.EmptyOwner(v.schema.alts[index].ops.goType().String())
	}
	t, ok := p.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseAccess, v.schema.path(index),
			fmt.Sprintf("%T", zero), v.schema.alts[index].ops.schemaType())
	}
	return t, nil
}

// Close releases an owned payload. The variant must not be used afterwards.
func (v *Variant) Close() {
	if v == nil || v.payload == nil {
		return
	}
	v.schema.alts[v.index].ops.release(v.payload)
	v.payload = nil
}

// Compare orders variants by stored index, then payload.
func (v *Variant) Compare(o *Variant) int {
	return CompareVariants(v, o)
}

func (v *Variant) Equal(o *Variant) bool {
	return CompareVariants(v, o) == 0
}

func (v *Variant) Hash() uint64 {
	return HashVariant(v)
}

func (v *Variant) String() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s=%v)", v.schema.name, v.schema.alts[v.index].name, v.Payload())
}

// CompareVariants orders two variants by (stored index, payload), ignoring
// any discriminant. Variants of different schemas order by schema name,
// then by the active alternative's name, wire type and Go type, so payloads
// are only compared when both sides hold the same type.
func CompareVariants(a, b *Variant) int {
	if a.schema != b.schema {
		if c := cmp.Compare(a.schema.name, b.schema.name); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.index, b.index); c != 0 {
		return c
	}
	altA, altB := a.schema.alts[a.index], b.schema.alts[b.index]
	if a.schema != b.schema {
		if c := compareAlternatives(altA, altB); c != 0 {
			return c
		}
	}
	return altA.ops.compare(a.payload, b.payload)
}

func compareAlternatives(a, b Alternative) int {
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SchemaType(), b.SchemaType()); c != 0 {
		return c
	}
	return cmp.Compare(a.GoType().String(), b.GoType().String())
}

// HashVariant hashes (stored index, payload).
func HashVariant(v *Variant) uint64 {
	h := xxhash.New()
	writeIndex(h, v.index)
	v.schema.alts[v.index].ops.hash(h, v.payload)
	return h.Sum64()
}

func writeIndex(h *xxhash.Digest, i int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(i)))
	_, _ = h.Write(buf[:])
}
