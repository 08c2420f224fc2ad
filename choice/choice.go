package choice

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	bitwire "github.com/wippyai/bitwire-runtime"
	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/errors"
)

// Choice binds a Schema to the Selector that interprets its discriminant.
// It is immutable and safe for concurrent use.
type Choice[Tag any] struct {
	schema   *Schema
	selector Selector[Tag]
}

func NewChoice[Tag any](schema *Schema, selector Selector[Tag]) *Choice[Tag] {
	return &Choice[Tag]{schema: schema, selector: selector}
}

func (c *Choice[Tag]) Schema() *Schema { return c.schema }

// Index returns the alternative index tag selects.
func (c *Choice[Tag]) Index(tag Tag) (int, error) {
	i, err := c.selector.Select(tag)
	if err != nil {
		return 0, errors.WithPath(err, c.schema.name)
	}
	if i < 0 || i >= c.schema.Len() {
		return 0, errors.InvalidSelection([]string{c.schema.name}, tag,
			fmt.Sprintf("selected index %d out of range [0,%d)", i, c.schema.Len()))
	}
	return i, nil
}

// View binds data to tag.
func (c *Choice[Tag]) View(data *Variant, tag Tag) View[Tag] {
	return View[Tag]{choice: c, data: data, tag: tag}
}

// Read decodes the alternative tag selects into a new Variant. The
// discriminant is trusted: a different one than used at write time
// reinterprets the bits without error.
func (c *Choice[Tag]) Read(r bitwire.BitReader, res alloc.Resource, tag Tag) (*Variant, View[Tag], error) {
	data := &Variant{schema: c.schema, res: res}
	view, err := c.ReadInto(r, data, tag)
	if err != nil {
		return nil, View[Tag]{}, err
	}
	return data, view, nil
}

// ReadInto decodes into data, replacing its alternative only on success.
// data must have been created from the choice's schema.
func (c *Choice[Tag]) ReadInto(r bitwire.BitReader, data *Variant, tag Tag) (View[Tag], error) {
	if err := c.owns(errors.PhaseRead, data); err != nil {
		return View[Tag]{}, err
	}
	idx, err := c.Index(tag)
	if err != nil {
		return View[Tag]{}, err
	}

	start := r.BitPosition()
	p, err := c.schema.alts[idx].ops.read(r, data.res)
	if err != nil {
		return View[Tag]{}, errors.WithPath(err, c.schema.path(idx)...)
	}
	data.replace(idx, p)

	Logger().Debug("choice read",
		zap.String("choice", c.schema.name),
		zap.Any("tag", tag),
		zap.Int("index", idx),
		zap.Uint64("bits", r.BitPosition()-start))

	return c.View(data, tag), nil
}

// owns fails with KindTypeMismatch unless data belongs to the choice's schema.
func (c *Choice[Tag]) owns(phase errors.Phase, data *Variant) error {
	if data != nil && data.schema == c.schema {
		return nil
	}
	b := errors.New(phase, errors.KindTypeMismatch).
		Path(c.schema.name).
		SchemaType(c.schema.name)
	if data == nil {
		return b.Detail("nil variant").Build()
	}
	return b.Detail("variant of schema %q", data.schema.name).Build()
}

// View is a Variant bound to a discriminant. It does not own the Variant.
type View[Tag any] struct {
	choice *Choice[Tag]
	data   *Variant
	tag    Tag
}

func (v View[Tag]) Tag() Tag             { return v.tag }
func (v View[Tag]) Data() *Variant       { return v.data }
func (v View[Tag]) Choice() *Choice[Tag] { return v.choice }
func (v View[Tag]) Index() (int, error)  { return v.choice.Index(v.tag) }

// active returns the alternative the discriminant selects, failing when the
// stored value holds a different one or belongs to another schema.
func (v View[Tag]) active() (int, Alternative, error) {
	if err := v.choice.owns(errors.PhaseAccess, v.data); err != nil {
		return 0, Alternative{}, err
	}
	idx, err := v.Index()
	if err != nil {
		return 0, Alternative{}, err
	}
	if v.data.index != idx {
		return 0, Alternative{}, errors.WrongVariant(v.choice.schema.path(idx), idx, v.data.index)
	}
	return idx, v.choice.schema.alts[idx], nil
}

// Validate checks the active payload against its value domain.
func (v View[Tag]) Validate() error {
	idx, alt, err := v.active()
	if err != nil {
		return err
	}
	return v.validate(idx, alt)
}

func (v View[Tag]) validate(idx int, alt Alternative) error {
	if err := alt.ops.validate(v.data.payload); err != nil {
		return errors.WithPath(err, v.choice.schema.path(idx)...)
	}
	return nil
}

// BitSizeOf returns the number of bits Write emits at bitPosition.
func (v View[Tag]) BitSizeOf(bitPosition uint64) (uint64, error) {
	_, alt, err := v.active()
	if err != nil {
		return 0, err
	}
	return alt.ops.bitSizeOf(v.data.payload, bitPosition), nil
}

// Write validates, then emits only the active payload's bits.
func (v View[Tag]) Write(w bitwire.BitWriter) error {
	idx, alt, err := v.active()
	if err != nil {
		return err
	}
	if err := v.validate(idx, alt); err != nil {
		return err
	}

	start := w.BitPosition()
	if err := alt.ops.write(w, v.data.payload); err != nil {
		return errors.WithPath(err, v.choice.schema.path(idx)...)
	}

	Logger().Debug("choice written",
		zap.String("choice", v.choice.schema.name),
		zap.Any("tag", v.tag),
		zap.Int("index", idx),
		zap.Uint64("bits", w.BitPosition()-start))
	return nil
}

func (v View[Tag]) String() string {
	return fmt.Sprintf("%v[tag=%v]", v.data, v.tag)
}

// Get returns the payload of alternative index as T. It fails with
// KindWrongVariant unless the discriminant selects index and the stored
// value holds it.
func Get[T any, Tag any](v View[Tag], index int) (T, error) {
	var zero T
	if err := v.choice.owns(errors.PhaseAccess, v.data); err != nil {
		return zero, err
	}
	idx, err := v.Index()
	if err != nil {
		return zero, err
	}
	if idx != index {
		return zero, errors.WrongVariant(v.choice.schema.path(index), index, idx)
	}
	if v.data.index != idx {
		return zero, errors.WrongVariant(v.choice.schema.path(index), index, v.data.index)
	}
	return ValueAt[T](v.data, index)
}

// CompareViews orders views by the index their discriminants select, then
// by stored index, then by payload. Views with an unselectable
// discriminant order first.
func CompareViews[Tag any](a, b View[Tag]) int {
	ia, ib := selected(a), selected(b)
	if ia != ib {
		if ia < ib {
			return -1
		}
		return 1
	}
	return CompareVariants(a.data, b.data)
}

// EqualViews reports whether both discriminants select the same index and
// the payloads are equal.
func EqualViews[Tag any](a, b View[Tag]) bool {
	return CompareViews(a, b) == 0
}

// HashView hashes (selected index, payload).
func HashView[Tag any](v View[Tag]) uint64 {
	h := xxhash.New()
	writeIndex(h, selected(v))
	v.data.schema.alts[v.data.index].ops.hash(h, v.data.payload)
	return h.Sum64()
}

func selected[Tag any](v View[Tag]) int {
	idx, err := v.Index()
	if err != nil {
		return -1
	}
	return idx
}
