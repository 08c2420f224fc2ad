package choice

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/bitstream"
	bwerrors "github.com/wippyai/bitwire-runtime/errors"
	"github.com/wippyai/bitwire-runtime/types"
)

func boolParamSchema(t testing.TB) *Schema {
	t.Helper()
	s, err := NewSchema("BoolParamChoice",
		Alt("valueA", types.Int8()),
		Alt("valueB", types.Int16()),
	)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return s
}

func boolParamChoice(t testing.TB) *Choice[bool] {
	return NewChoice(boolParamSchema(t), BoolSelector(0, 1))
}

func newVariant(t testing.TB, s *Schema, index int, value any) *Variant {
	t.Helper()
	v, err := s.New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := v.Set(index, value); err != nil {
		t.Fatalf("Set(%d, %v) error = %v", index, value, err)
	}
	return v
}

func encodeView[Tag any](t testing.TB, view View[Tag]) ([]byte, uint64) {
	t.Helper()
	w := bitstream.NewWriter()
	defer w.Release()
	if err := view.Write(w); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	bits := w.BitPosition()
	out, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	return out, bits
}

func TestWriteScenario(t *testing.T) {
	c := boolParamChoice(t)

	tests := []struct {
		name  string
		tag   bool
		index int
		value any
		want  []byte
		bits  uint64
	}{
		{"true selects int8", true, 0, int8(-5), []byte{0xFB}, 8},
		{"false selects int16", false, 1, int16(300), []byte{0x01, 0x2C}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := c.View(newVariant(t, c.Schema(), tt.index, tt.value), tt.tag)

			size, err := view.BitSizeOf(0)
			if err != nil {
				t.Fatalf("BitSizeOf() error = %v", err)
			}
			if size != tt.bits {
				t.Errorf("BitSizeOf() = %d, want %d", size, tt.bits)
			}

			got, written := encodeView(t, view)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encoded bytes mismatch (-want +got):\n%s", diff)
			}
			if written != size {
				t.Errorf("wrote %d bits, BitSizeOf said %d", written, size)
			}

			decoded, dview, err := c.Read(bitstream.NewReader(got), alloc.Heap(), tt.tag)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !EqualViews(view, dview) {
				t.Errorf("decoded %v, want %v", dview, view)
			}
			if decoded.Payload() != tt.value {
				t.Errorf("Payload() = %#v, want %#v", decoded.Payload(), tt.value)
			}
		})
	}
}

func TestRoundTripProperty(t *testing.T) {
	c := boolParamChoice(t)

	rapid.Check(t, func(rt *rapid.T) {
		tag := rapid.Bool().Draw(rt, "tag")
		idx, err := c.Index(tag)
		if err != nil {
			rt.Fatal(err)
		}

		var value any
		if idx == 0 {
			value = rapid.Int8().Draw(rt, "valueA")
		} else {
			value = rapid.Int16().Draw(rt, "valueB")
		}
		prefixBits := uint8(rapid.IntRange(0, bitstream.MaxBits).Draw(rt, "prefixBits"))
		prefix := rapid.Uint64().Draw(rt, "prefix")

		view := c.View(newVariant(t, c.Schema(), idx, value), tag)

		w := bitstream.NewWriter()
		defer w.Release()
		if err := w.WriteBits(prefix, prefixBits); err != nil {
			rt.Fatal(err)
		}
		pos := w.BitPosition()
		size, err := view.BitSizeOf(pos)
		if err != nil {
			rt.Fatal(err)
		}
		if err := view.Write(w); err != nil {
			rt.Fatal(err)
		}
		bits := w.BitPosition() - pos
		if bits != size {
			rt.Fatalf("wrote %d bits at position %d, BitSizeOf said %d", bits, pos, size)
		}
		buf, err := w.Bytes()
		if err != nil {
			rt.Fatal(err)
		}

		r := bitstream.NewReader(buf)
		if _, err := r.ReadBits(prefixBits); err != nil {
			rt.Fatal(err)
		}
		_, got, err := c.Read(r, nil, tag)
		if err != nil {
			rt.Fatal(err)
		}
		if r.BitPosition() != pos+bits {
			rt.Fatalf("read ended at bit %d, write ended at %d", r.BitPosition(), pos+bits)
		}
		if !EqualViews(view, got) || HashView(view) != HashView(got) {
			rt.Fatalf("round trip: got %v, want %v", got, view)
		}
	})
}

func TestWrongVariantAccess(t *testing.T) {
	c := boolParamChoice(t)

	t.Run("accessor on unselected alternative", func(t *testing.T) {
		for _, tag := range []bool{true, false} {
			idx, _ := c.Index(tag)
			var value any = int8(1)
			if idx == 1 {
				value = int16(1)
			}
			view := c.View(newVariant(t, c.Schema(), idx, value), tag)

			_, errA := Get[int8](view, 0)
			_, errB := Get[int16](view, 1)
			inactive := errB
			active := errA
			if idx == 1 {
				inactive, active = errA, errB
			}
			if !errors.Is(inactive, bwerrors.ErrWrongVariant) {
				t.Errorf("tag=%v: inactive accessor error = %v, want wrong_variant", tag, inactive)
			}
			if active != nil {
				t.Errorf("tag=%v: active accessor error = %v", tag, active)
			}
		}
	})

	t.Run("stored alternative disagrees with tag", func(t *testing.T) {
		view := c.View(newVariant(t, c.Schema(), 1, int16(7)), true)

		if err := view.Validate(); !errors.Is(err, bwerrors.ErrWrongVariant) {
			t.Errorf("Validate() error = %v", err)
		}
		if _, err := view.BitSizeOf(0); !errors.Is(err, bwerrors.ErrWrongVariant) {
			t.Errorf("BitSizeOf() error = %v", err)
		}
		w := bitstream.NewWriter()
		defer w.Release()
		if err := view.Write(w); !errors.Is(err, bwerrors.ErrWrongVariant) {
			t.Errorf("Write() error = %v", err)
		}
		if w.BitPosition() != 0 {
			t.Errorf("failed write emitted %d bits", w.BitPosition())
		}
		if _, err := Get[int8](view, 0); !errors.Is(err, bwerrors.ErrWrongVariant) {
			t.Errorf("Get() error = %v", err)
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		view := c.View(newVariant(t, c.Schema(), 0, int8(7)), true)
		if _, err := Get[int16](view, 0); !errors.Is(err, bwerrors.ErrTypeMismatch) {
			t.Errorf("Get() error = %v, want type_mismatch", err)
		}
	})
}

func TestTagQualifiedEquality(t *testing.T) {
	s, err := NewSchema("Twin",
		Alt("left", types.Int8()),
		Alt("right", types.Int8()),
	)
	if err != nil {
		t.Fatal(err)
	}
	c := NewChoice(s, BoolSelector(0, 1))

	a := c.View(newVariant(t, s, 0, int8(4)), true)
	b := c.View(newVariant(t, s, 1, int8(4)), false)
	if EqualViews(a, b) {
		t.Error("views selecting different indices must not be equal")
	}
	if CompareViews(a, b) >= 0 || CompareViews(b, a) <= 0 {
		t.Error("index must be the primary ordering key")
	}

	same := c.View(newVariant(t, s, 0, int8(4)), true)
	if !EqualViews(a, same) || HashView(a) != HashView(same) {
		t.Error("equal payloads under the same index must be equal with equal hashes")
	}

	larger := c.View(newVariant(t, s, 0, int8(5)), true)
	if CompareViews(a, larger) >= 0 {
		t.Error("payload must order views with the same index")
	}
	if HashView(a) == HashView(b) {
		t.Error("hash should include the selected index")
	}
}

func TestVariantComparison(t *testing.T) {
	s := boolParamSchema(t)

	a := newVariant(t, s, 0, int8(100))
	b := newVariant(t, s, 1, int16(-100))
	c := newVariant(t, s, 0, int8(100))

	if a.Compare(b) >= 0 {
		t.Error("index 0 must order before index 1 regardless of payload")
	}
	if !a.Equal(c) || a.Hash() != c.Hash() {
		t.Error("equal variants must be equal with equal hashes")
	}
	if a.Equal(b) {
		t.Error("different alternatives must not be equal")
	}
}

func TestForeignVariantView(t *testing.T) {
	c := boolParamChoice(t)
	other, err := NewSchema("BoolParamChoice",
		Alt("valueA", types.Int8()),
		Alt("valueB", types.Int16()),
	)
	if err != nil {
		t.Fatal(err)
	}
	view := c.View(newVariant(t, other, 0, int8(1)), true)

	w := bitstream.NewWriter()
	defer w.Release()
	checks := map[string]error{
		"Validate": view.Validate(),
		"Write":    view.Write(w),
	}
	_, checks["BitSizeOf"] = view.BitSizeOf(0)
	_, checks["Get"] = Get[int8](view, 0)
	for name, err := range checks {
		if !errors.Is(err, bwerrors.ErrTypeMismatch) {
			t.Errorf("%s() error = %v, want type mismatch", name, err)
		}
	}
	if w.BitPosition() != 0 {
		t.Errorf("rejected write emitted %d bits", w.BitPosition())
	}
}

func TestCompareVariantsAcrossSchemas(t *testing.T) {
	narrow, err := NewSchema("Twin", Alt("value", types.Int8()))
	if err != nil {
		t.Fatal(err)
	}
	wide, err := NewSchema("Twin", Alt("value", types.Int16()))
	if err != nil {
		t.Fatal(err)
	}
	same, err := NewSchema("Twin", Alt("value", types.Int8()))
	if err != nil {
		t.Fatal(err)
	}

	a := newVariant(t, narrow, 0, int8(1))
	b := newVariant(t, wide, 0, int16(300))
	ab, ba := a.Compare(b), b.Compare(a)
	if ab == 0 || ab != -ba {
		t.Errorf("Compare not antisymmetric: a.Compare(b) = %d, b.Compare(a) = %d", ab, ba)
	}
	if a.Equal(b) {
		t.Error("variants holding different payload types must not be equal")
	}

	c := newVariant(t, same, 0, int8(1))
	d := newVariant(t, same, 0, int8(2))
	if !a.Equal(c) {
		t.Error("structurally identical schemas should compare by payload")
	}
	if a.Compare(d) >= 0 || d.Compare(a) <= 0 {
		t.Errorf("payload ordering across identical schemas: %d, %d", a.Compare(d), d.Compare(a))
	}
}

func TestValidation(t *testing.T) {
	int4, err := types.IntN[int8](4)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSchema("Small",
		Alt("nibble", int4),
		Alt("wide", types.Int32()),
	)
	if err != nil {
		t.Fatal(err)
	}
	c := NewChoice(s, BoolSelector(0, 1))

	view := c.View(newVariant(t, s, 0, int8(9)), true)
	err = view.Validate()
	if !errors.Is(err, bwerrors.ErrValidation) {
		t.Fatalf("Validate() error = %v, want validation", err)
	}
	var e *bwerrors.Error
	if !errors.As(err, &e) {
		t.Fatal("expected *errors.Error")
	}
	if diff := cmp.Diff([]string{"Small", "nibble"}, e.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	w := bitstream.NewWriter()
	defer w.Release()
	if err := view.Write(w); !errors.Is(err, bwerrors.ErrValidation) {
		t.Errorf("Write() error = %v, want validation", err)
	}
	if w.BitPosition() != 0 {
		t.Error("invalid payload must not be written")
	}
}

func TestSet(t *testing.T) {
	s := boolParamSchema(t)

	tests := []struct {
		name  string
		index int
		value any
		want  error
	}{
		{"wrong Go type", 1, int8(3), bwerrors.ErrTypeMismatch},
		{"index out of range", 2, int8(3), bwerrors.ErrInvalidSelection},
		{"negative index", -1, int8(3), bwerrors.ErrInvalidSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVariant(t, s, 0, int8(42))
			err := v.Set(tt.index, tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("Set() error = %v, want %v", err, tt.want)
			}
			if v.Index() != 0 || v.Payload() != int8(42) {
				t.Errorf("failed Set changed the variant to %v", v)
			}
		})
	}
}

func TestValueAt(t *testing.T) {
	v := newVariant(t, boolParamSchema(t), 1, int16(-300))

	got, err := ValueAt[int16](v, 1)
	if err != nil || got != -300 {
		t.Errorf("ValueAt() = %d, %v", got, err)
	}
	if _, err := ValueAt[int8](v, 0); !errors.Is(err, bwerrors.ErrWrongVariant) {
		t.Errorf("ValueAt() error = %v, want wrong_variant", err)
	}
}

func TestDefault(t *testing.T) {
	v, err := boolParamSchema(t).New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Index() != 0 || v.Payload() != int8(0) {
		t.Errorf("default = %v, want alternative 0 with zero value", v)
	}
}

func TestSelectors(t *testing.T) {
	s, err := NewSchema("Mode",
		Alt("off", types.Bool()),
		Alt("small", types.Uint8()),
		Alt("large", types.VarUint64()),
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("map", func(t *testing.T) {
		m := map[uint8]int{0: 0, 1: 1, 2: 2, 9: 7}
		c := NewChoice(s, MapSelector(m))
		m[3] = 1

		if idx, err := c.Index(2); err != nil || idx != 2 {
			t.Errorf("Index(2) = %d, %v", idx, err)
		}
		if _, err := c.Index(3); !errors.Is(err, bwerrors.ErrInvalidSelection) {
			t.Errorf("Index(3) error = %v, selector must not see later map changes", err)
		}
		if _, err := c.Index(9); !errors.Is(err, bwerrors.ErrInvalidSelection) {
			t.Errorf("Index(9) error = %v, want invalid_selection for out-of-range index", err)
		}
	})

	t.Run("func", func(t *testing.T) {
		c := NewChoice(s, FuncSelector(func(n int) (int, error) {
			switch {
			case n == 0:
				return 0, nil
			case n < 256:
				return 1, nil
			default:
				return 2, nil
			}
		}))
		for tag, want := range map[int]int{0: 0, 5: 1, 1000: 2} {
			if idx, err := c.Index(tag); err != nil || idx != want {
				t.Errorf("Index(%d) = %d, %v, want %d", tag, idx, err, want)
			}
		}
	})

	t.Run("unselectable views order first", func(t *testing.T) {
		c := NewChoice(s, MapSelector(map[uint8]int{1: 1}))
		data := newVariant(t, s, 1, uint8(1))
		good := c.View(data, 1)
		bad := c.View(data, 4)
		if CompareViews(bad, good) >= 0 {
			t.Error("view with unmapped discriminant should order first")
		}
	})
}

func TestReadErrors(t *testing.T) {
	c := boolParamChoice(t)

	t.Run("underrun", func(t *testing.T) {
		data := newVariant(t, c.Schema(), 0, int8(9))
		_, err := c.ReadInto(bitstream.NewReader([]byte{0x01}), data, false)
		if !errors.Is(err, bwerrors.ErrStream) {
			t.Fatalf("ReadInto() error = %v, want stream", err)
		}
		if data.Index() != 0 || data.Payload() != int8(9) {
			t.Errorf("failed read changed data to %v", data)
		}
	})

	t.Run("variant of another schema", func(t *testing.T) {
		small, err := NewSchema("Small", Alt("only", types.Int8()))
		if err != nil {
			t.Fatal(err)
		}
		data := newVariant(t, small, 0, int8(7))

		_, err = c.ReadInto(bitstream.NewReader([]byte{0x01, 0x2c}), data, false)
		if !errors.Is(err, bwerrors.ErrTypeMismatch) {
			t.Fatalf("ReadInto() error = %v, want type mismatch", err)
		}
		if data.Index() != 0 || data.Payload() != int8(7) {
			t.Errorf("rejected read changed data to %v", data)
		}
		if got := data.String(); got != "Small(only=7)" {
			t.Errorf("String() = %q", got)
		}

		if _, err := c.ReadInto(bitstream.NewReader([]byte{0x01}), nil, true); !errors.Is(err, bwerrors.ErrTypeMismatch) {
			t.Errorf("ReadInto(nil) error = %v, want type mismatch", err)
		}
	})

	t.Run("discriminant is trusted", func(t *testing.T) {
		buf, _ := encodeView(t, c.View(newVariant(t, c.Schema(), 0, int8(-5)), true))
		buf = append(buf, 0x10)

		decoded, _, err := c.Read(bitstream.NewReader(buf), nil, false)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if decoded.Index() != 1 || decoded.Payload() != int16(-0x04F0) {
			t.Errorf("decoded %v, want valueB reinterpreting 0xFB10", decoded)
		}
	})
}

func TestHeapResident(t *testing.T) {
	res := alloc.NewCounting(nil, 0)
	s, err := NewSchema("Boxed",
		Alt("small", types.Int8(), Heap()),
		Alt("large", types.Int64(), Heap()),
	)
	if err != nil {
		t.Fatal(err)
	}
	c := NewChoice(s, BoolSelector(0, 1))

	v, err := s.New(res)
	if err != nil {
		t.Fatal(err)
	}
	if res.Live() != 1 {
		t.Fatalf("Live() = %d after New, want 1", res.Live())
	}

	if err := v.Set(1, int64(1)<<40); err != nil {
		t.Fatal(err)
	}
	if res.Live() != 1 || res.Frees() != 1 {
		t.Errorf("Set should release the old payload: live=%d frees=%d", res.Live(), res.Frees())
	}

	buf, bits := encodeView(t, c.View(v, false))
	if bits != 64 {
		t.Errorf("wrote %d bits, want 64", bits)
	}

	decoded, view, err := c.Read(bitstream.NewReader(buf), res, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Live() != 2 {
		t.Errorf("Live() = %d after Read, want 2", res.Live())
	}
	if got, err := Get[int64](view, 1); err != nil || got != int64(1)<<40 {
		t.Errorf("Get() = %d, %v", got, err)
	}

	decoded.Close()
	v.Close()
	v.Close()
	if res.Live() != 0 {
		t.Errorf("Live() = %d after Close, want 0", res.Live())
	}
}

func TestHeapResident_AllocationFailure(t *testing.T) {
	res := alloc.NewCounting(nil, 1)
	s, err := NewSchema("Boxed",
		Alt("small", types.Int8(), Heap()),
		Alt("large", types.Int64(), Heap()),
	)
	if err != nil {
		t.Fatal(err)
	}

	v, err := s.New(res)
	if err != nil {
		t.Fatal(err)
	}
	err = v.Set(1, int64(5))
	if !errors.Is(err, bwerrors.ErrAllocation) {
		t.Fatalf("Set() error = %v, want allocation", err)
	}
	if v.Index() != 0 || v.Payload() != int8(0) {
		t.Errorf("failed Set changed the variant to %v", v)
	}
	v.Close()
	if res.Live() != 0 {
		t.Errorf("Live() = %d", res.Live())
	}
}

func TestNewSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		alts []Alternative
	}{
		{"empty", nil},
		{"duplicate", []Alternative{Alt("a", types.Int8()), Alt("a", types.Int16())}},
		{"unnamed", []Alternative{Alt("", types.Int8())}},
		{"zero alternative", []Alternative{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema("Bad", tt.alts...)
			if !errors.Is(err, bwerrors.ErrInvalidSchema) {
				t.Errorf("NewSchema() error = %v, want invalid_schema", err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	s := boolParamSchema(t)

	want := "variant bool-param-choice {\n    value-a(s8),\n    value-b(s16),\n}"
	if got := s.WIT(); got != want {
		t.Errorf("WIT() =\n%s\nwant\n%s", got, want)
	}

	def := s.Describe()
	if def.Name == nil || *def.Name != "bool-param-choice" {
		t.Errorf("Describe().Name = %v", def.Name)
	}

	wantLayout := Layout{
		Size:          4,
		Align:         2,
		DiscSize:      1,
		PayloadOffset: 2,
		Cases: []CaseLayout{
			{Name: "valueA", Size: 1, Align: 1},
			{Name: "valueB", Size: 2, Align: 2},
		},
	}
	if diff := cmp.Diff(wantLayout, s.Layout()); diff != "" {
		t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
	}
}

func TestKebab(t *testing.T) {
	tests := map[string]string{
		"valueA":          "value-a",
		"BoolParamChoice": "bool-param-choice",
		"snake_case":      "snake-case",
		"x2Value":         "x2-value",
		"plain":           "plain",
	}
	for in, want := range tests {
		if got := kebab(in); got != want {
			t.Errorf("kebab(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	c := boolParamChoice(t)
	buf, _ := encodeView(t, c.View(newVariant(t, c.Schema(), 1, int16(300)), false))
	if _, _, err := c.Read(bitstream.NewReader(buf), nil, false); err != nil {
		t.Fatal(err)
	}

	for _, msg := range []string{"choice written", "choice read"} {
		entries := logs.FilterMessage(msg).All()
		if len(entries) != 1 {
			t.Fatalf("%q: got %d entries", msg, len(entries))
		}
		fields := entries[0].ContextMap()
		if fields["choice"] != "BoolParamChoice" || fields["index"] != int64(1) || fields["bits"] != uint64(16) {
			t.Errorf("%q fields = %v", msg, fields)
		}
	}
}
