package choice

import (
	"fmt"
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/errors"
	"github.com/wippyai/bitwire-runtime/internal/layout"
)

// Schema is the ordered, immutable set of alternatives of one choice type.
type Schema struct {
	byName map[string]int
	name   string
	alts   []Alternative
}

// NewSchema validates and builds a schema. Alternatives are addressed
// 0..n-1 in the order given.
func NewSchema(name string, alts ...Alternative) (*Schema, error) {
	if len(alts) == 0 {
		return nil, errors.InvalidSchema([]string{name}, "choice needs at least one alternative")
	}

	s := &Schema{
		name:   name,
		alts:   append([]Alternative(nil), alts...),
		byName: make(map[string]int, len(alts)),
	}
	for i, a := range alts {
		if a.ops == nil {
			return nil, errors.InvalidSchema([]string{name, a.name}, "alternative has no codec")
		}
		if a.name == "" {
			return nil, errors.InvalidSchema([]string{name}, fmt.Sprintf("alternative %d has no name", i))
		}
		if prev, dup := s.byName[a.name]; dup {
			return nil, errors.InvalidSchema([]string{name, a.name},
				fmt.Sprintf("duplicate alternative name (indices %d and %d)", prev, i))
		}
		s.byName[a.name] = i
	}
	return s, nil
}

func (s *Schema) Name() string { return s.name }
func (s *Schema) Len() int     { return len(s.alts) }

// Alternative returns the alternative at index i.
func (s *Schema) Alternative(i int) (Alternative, bool) {
	if i < 0 || i >= len(s.alts) {
		return Alternative{}, false
	}
	return s.alts[i], true
}

// Lookup returns the index of the alternative named name.
func (s *Schema) Lookup(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// New returns a Variant holding alternative 0 with its zero value.
// Heap-resident payloads are allocated from res (Heap when nil).
func (s *Schema) New(res alloc.Resource) (*Variant, error) {
	p, err := s.alts[0].ops.zero(res)
	if err != nil {
		return nil, errors.WithPath(err, s.name, s.alts[0].name)
	}
	return &Variant{schema: s, res: res, payload: p}, nil
}

func (s *Schema) path(i int) []string {
	if i >= 0 && i < len(s.alts) {
		return []string{s.name, s.alts[i].name}
	}
	return []string{s.name}
}

// Describe returns the schema as a WIT variant type definition.
func (s *Schema) Describe() *wit.TypeDef {
	cases := make([]wit.Case, len(s.alts))
	for i, a := range s.alts {
		cases[i] = wit.Case{Name: kebab(a.name), Type: a.ops.wit()}
	}
	name := kebab(s.name)
	return &wit.TypeDef{Name: &name, Kind: &wit.Variant{Cases: cases}}
}

// WIT renders the schema as a WIT variant declaration.
func (s *Schema) WIT() string {
	var b strings.Builder
	fmt.Fprintf(&b, "variant %s {\n", kebab(s.name))
	for _, a := range s.alts {
		fmt.Fprintf(&b, "    %s(%s),\n", kebab(a.name), witName(a.ops.wit()))
	}
	b.WriteString("}")
	return b.String()
}

// Layout is the Canonical ABI placement of a choice's WIT variant.
type Layout struct {
	Size          uint32
	Align         uint32
	DiscSize      uint32
	PayloadOffset uint32
	Cases         []CaseLayout
}

// CaseLayout is the size and alignment of one alternative's payload.
type CaseLayout struct {
	Name  string
	Size  uint32
	Align uint32
}

// Layout computes the Canonical ABI layout of Describe's variant.
func (s *Schema) Layout() Layout {
	v := layout.NewCalculator().Variant(s.Describe().Kind.(*wit.Variant))
	out := Layout{
		Size:          v.Size,
		Align:         v.Align,
		DiscSize:      v.DiscSize,
		PayloadOffset: v.PayloadOffset,
		Cases:         make([]CaseLayout, len(v.Cases)),
	}
	for i, c := range v.Cases {
		out.Cases[i] = CaseLayout{Name: s.alts[i].name, Size: c.Size, Align: c.Align}
	}
	return out
}

func witName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.S8:
		return "s8"
	case wit.S16:
		return "s16"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if n := t.(*wit.TypeDef).Name; n != nil {
			return *n
		}
	}
	return "_"
}

// kebab converts camelCase and snake_case identifiers to WIT kebab-case.
func kebab(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == ' ':
			b.WriteByte('-')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}
