package pmr

import (
	bitwire "github.com/wippyai/bitwire-runtime"
	"github.com/wippyai/bitwire-runtime/alloc"
	"github.com/wippyai/bitwire-runtime/choice"
	"github.com/wippyai/bitwire-runtime/types"
)

const (
	ValueAIndex = 0
	ValueBIndex = 1
)

var (
	boolParamChoiceSchema = mustSchema(choice.NewSchema("BoolParamChoice",
		choice.Alt("valueA", types.Int8()),
		choice.Alt("valueB", types.Int16()),
	))
	boolParamChoice = choice.NewChoice(boolParamChoiceSchema,
		choice.BoolSelector(ValueAIndex, ValueBIndex))
)

func mustSchema(s *choice.Schema, err error) *choice.Schema {
	if err != nil {
		panic(err)
	}
	return s
}

// BoolParamChoiceSchema returns the schema shared by all BoolParamChoice values.
func BoolParamChoiceSchema() *choice.Schema { return boolParamChoiceSchema }

// BoolParamChoiceCodec returns the choice codec with its boolean selector.
func BoolParamChoiceCodec() *choice.Choice[bool] { return boolParamChoice }

type BoolParamChoice struct {
	ObjectChoice *choice.Variant
}

// NewBoolParamChoice returns a value holding valueA = 0.
func NewBoolParamChoice(res alloc.Resource) (*BoolParamChoice, error) {
	v, err := boolParamChoiceSchema.New(res)
	if err != nil {
		return nil, err
	}
	return &BoolParamChoice{ObjectChoice: v}, nil
}

func (d *BoolParamChoice) SetValueA(v int8) error  { return d.ObjectChoice.Set(ValueAIndex, v) }
func (d *BoolParamChoice) SetValueB(v int16) error { return d.ObjectChoice.Set(ValueBIndex, v) }

func (d *BoolParamChoice) View(tag bool) BoolParamChoiceView {
	return BoolParamChoiceView{view: boolParamChoice.View(d.ObjectChoice, tag)}
}

func (d *BoolParamChoice) Equal(o *BoolParamChoice) bool { return d.ObjectChoice.Equal(o.ObjectChoice) }
func (d *BoolParamChoice) Less(o *BoolParamChoice) bool  { return d.ObjectChoice.Compare(o.ObjectChoice) < 0 }
func (d *BoolParamChoice) Hash() uint64                  { return d.ObjectChoice.Hash() }
func (d *BoolParamChoice) Close()                        { d.ObjectChoice.Close() }
func (d *BoolParamChoice) String() string                { return d.ObjectChoice.String() }

type BoolParamChoiceView struct {
	view choice.View[bool]
}

func (v BoolParamChoiceView) Tag() bool              { return v.view.Tag() }
func (v BoolParamChoiceView) Index() (int, error)    { return v.view.Index() }
func (v BoolParamChoiceView) ValueA() (int8, error)  { return choice.Get[int8](v.view, ValueAIndex) }
func (v BoolParamChoiceView) ValueB() (int16, error) { return choice.Get[int16](v.view, ValueBIndex) }
func (v BoolParamChoiceView) Validate() error        { return v.view.Validate() }

func (v BoolParamChoiceView) BitSizeOf(bitPosition uint64) (uint64, error) {
	return v.view.BitSizeOf(bitPosition)
}

func (v BoolParamChoiceView) Write(w bitwire.BitWriter) error {
	return v.view.Write(w)
}

func (v BoolParamChoiceView) Equal(o BoolParamChoiceView) bool {
	return choice.EqualViews(v.view, o.view)
}

func (v BoolParamChoiceView) Less(o BoolParamChoiceView) bool {
	return choice.CompareViews(v.view, o.view) < 0
}

func (v BoolParamChoiceView) Hash() uint64   { return choice.HashView(v.view) }
func (v BoolParamChoiceView) String() string { return v.view.String() }

// ReadBoolParamChoice decodes a value whose discriminant is tag.
func ReadBoolParamChoice(r bitwire.BitReader, res alloc.Resource, tag bool) (*BoolParamChoice, BoolParamChoiceView, error) {
	v, view, err := boolParamChoice.Read(r, res, tag)
	if err != nil {
		return nil, BoolParamChoiceView{}, err
	}
	return &BoolParamChoice{ObjectChoice: v}, BoolParamChoiceView{view: view}, nil
}

// ReadBoolParamChoiceInto decodes into data, leaving it unchanged on error.
func ReadBoolParamChoiceInto(r bitwire.BitReader, data *BoolParamChoice, tag bool) (BoolParamChoiceView, error) {
	view, err := boolParamChoice.ReadInto(r, data.ObjectChoice, tag)
	if err != nil {
		return BoolParamChoiceView{}, err
	}
	return BoolParamChoiceView{view: view}, nil
}
