package layout

import (
	"go.bytecodealliance.org/wit"
)

// Info is the size and alignment of a type in linear memory.
type Info struct {
	Size  uint32
	Align uint32
}

// VariantInfo extends Info with the variant's internal placement.
type VariantInfo struct {
	Info
	DiscSize      uint32
	PayloadOffset uint32
	Cases         []Info
}

// DiscriminantSize returns the byte width of a discriminant for n cases.
func DiscriminantSize(n int) uint32 {
	if n <= 256 {
		return 1
	} else if n <= 65536 {
		return 2
	}
	return 4
}

// AlignTo rounds offset up to a multiple of align.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case wit.String:
		return Info{Size: 8, Align: 4}
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{Size: 0, Align: 1}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		info = c.calculateRecord(kind)
	case *wit.Variant:
		info = c.Variant(kind).Info
	case *wit.Enum:
		size := DiscriminantSize(len(kind.Cases))
		info = Info{Size: size, Align: size}
	case *wit.Option:
		info = c.calculateOption(kind)
	case *wit.List:
		info = Info{Size: 8, Align: 4}
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

// Variant lays out v and reports where its payload starts.
func (c *Calculator) Variant(v *wit.Variant) VariantInfo {
	if len(v.Cases) == 0 {
		return VariantInfo{Info: Info{Size: 0, Align: 1}}
	}

	disc := DiscriminantSize(len(v.Cases))
	out := VariantInfo{DiscSize: disc, Cases: make([]Info, len(v.Cases))}

	maxAlign := disc
	maxSize := uint32(0)
	for i, cs := range v.Cases {
		if cs.Type == nil {
			out.Cases[i] = Info{Size: 0, Align: 1}
			continue
		}
		l := c.Calculate(cs.Type)
		out.Cases[i] = l
		if l.Align > maxAlign {
			maxAlign = l.Align
		}
		if l.Size > maxSize {
			maxSize = l.Size
		}
	}

	out.PayloadOffset = AlignTo(disc, maxAlign)
	out.Size = AlignTo(out.PayloadOffset+maxSize, maxAlign)
	out.Align = maxAlign
	return out
}

func (c *Calculator) calculateRecord(r *wit.Record) Info {
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range r.Fields {
		l := c.Calculate(field.Type)
		offset = AlignTo(offset, l.Align)
		if l.Align > maxAlign {
			maxAlign = l.Align
		}
		offset += l.Size
	}

	return Info{Size: AlignTo(offset, maxAlign), Align: maxAlign}
}

func (c *Calculator) calculateOption(o *wit.Option) Info {
	inner := c.Calculate(o.Type)
	align := inner.Align
	if align < 1 {
		align = 1
	}
	payload := AlignTo(1, align)
	return Info{Size: AlignTo(payload+inner.Size, align), Align: align}
}
