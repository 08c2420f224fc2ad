package choice

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"go.bytecodealliance.org/wit"

	bitwire "github.com/wippyai/bitwire-runtime"
	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/errors"
	"github.com/wippyai/bitwire-runtime/types"
)

// Alternative is one payload slot of a Schema. Its Go type is erased so
// alternatives of different types can share a schema.
type Alternative struct {
	ops  payloadOps
	name string
	heap bool
}

// AltOption configures an Alternative.
type AltOption func(*altConfig)

type altConfig struct {
	heap bool
}

// Heap marks the payload heap-resident: the variant owns it through an
// alloc.Owner created from the variant's resource.
func Heap() AltOption {
	return func(c *altConfig) { c.heap = true }
}

// Alt declares an alternative named name whose payload is encoded by codec.
func Alt[T any](name string, codec types.Codec[T], opts ...AltOption) Alternative {
	var cfg altConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return Alternative{
		name: name,
		heap: cfg.heap,
		ops:  payload[T]{codec: codec, heap: cfg.heap},
	}
}

func (a Alternative) Name() string         { return a.name }
func (a Alternative) SchemaType() string   { return a.ops.schemaType() }
func (a Alternative) GoType() reflect.Type { return a.ops.goType() }
func (a Alternative) HeapResident() bool   { return a.heap }
func (a Alternative) WIT() wit.Type        { return a.ops.wit() }

// payloadOps is the type-erased view of a payload[T]. Stored payloads are
// either T or, for heap-resident alternatives, *alloc.Owner[T].
type payloadOps interface {
	goType() reflect.Type
	schemaType() string
	wit() wit.Type
	zero(res alloc.Resource) (any, error)
	box(res alloc.Resource, v any) (any, error)
	value(p any) (any, bool)
	validate(p any) error
	bitSizeOf(p any, pos uint64) uint64
	write(w bitwire.BitWriter, p any) error
	read(r bitwire.BitReader, res alloc.Resource) (any, error)
	compare(a, b any) int
	hash(h *xxhash.Digest, p any)
	release(p any)
}

type payload[T any] struct {
	codec types.Codec[T]
	heap  bool
}

func (p payload[T]) goType() reflect.Type { return reflect.TypeFor[T]() }
func (p payload[T]) schemaType() string   { return p.codec.Name() }
func (p payload[T]) wit() wit.Type        { return p.codec.WIT() }

func (p payload[T]) unwrap(v any) (T, bool) {
	if p.heap {
		if o, ok := v.(*alloc.Owner[T]); ok && o.Valid() {
			return *o.Value(), true
		}
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (p payload[T]) store(res alloc.Resource, v T) (any, error) {
	if !p.heap {
		return v, nil
	}
	o, err := alloc.AllocateUnique(alloc.New[T](res), func(dst *T) error {
		*dst = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (p payload[T]) zero(res alloc.Resource) (any, error) {
	var zero T
	return p.store(res, zero)
}

func (p payload[T]) box(res alloc.Resource, v any) (any, error) {
	t, ok := v.(T)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseAccess, nil, fmt.Sprintf("%T", v), p.codec.Name())
	}
	return p.store(res, t)
}

func (p payload[T]) value(v any) (any, bool) {
	return p.unwrap(v)
}

func (p payload[T]) validate(v any) error {
	t, ok := p.unwrap(v)
	if !ok {
		return errors.TypeMismatch(errors.PhaseValidate, nil, fmt.Sprintf("%T", v), p.codec.Name())
	}
	return p.codec.Validate(t)
}

func (p payload[T]) bitSizeOf(v any, pos uint64) uint64 {
	t, _ := p.unwrap(v)
	return p.codec.BitSizeOf(t, pos)
}

func (p payload[T]) write(w bitwire.BitWriter, v any) error {
	t, ok := p.unwrap(v)
	if !ok {
		return errors.TypeMismatch(errors.PhaseWrite, nil, fmt.Sprintf("%T", v), p.codec.Name())
	}
	return p.codec.Write(w, t)
}

func (p payload[T]) read(r bitwire.BitReader, res alloc.Resource) (any, error) {
	t, err := p.codec.Read(r)
	if err != nil {
		return nil, err
	}
	return p.store(res, t)
}

func (p payload[T]) compare(a, b any) int {
	ta, _ := p.unwrap(a)
	tb, _ := p.unwrap(b)
	return p.codec.Compare(ta, tb)
}

func (p payload[T]) hash(h *xxhash.Digest, v any) {
	t, _ := p.unwrap(v)
	p.codec.Hash(h, t)
}

func (p payload[T]) release(v any) {
	if o, ok := v.(*alloc.Owner[T]); ok && p.heap {
		o.Close()
	}
}
