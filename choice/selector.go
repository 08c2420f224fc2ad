package choice

import (
	"maps"

	"github.com/wippyai/bitwire-runtime/errors"
)

// Selector maps a discriminant to an alternative index. It is supplied by
// the schema and may be partial.
type Selector[Tag any] interface {
	Select(tag Tag) (int, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc[Tag any] func(Tag) (int, error)

func (f SelectorFunc[Tag]) Select(tag Tag) (int, error) { return f(tag) }

// FuncSelector returns a Selector calling f.
func FuncSelector[Tag any](f func(Tag) (int, error)) Selector[Tag] {
	return SelectorFunc[Tag](f)
}

type boolSelector struct {
	ifTrue, ifFalse int
}

// BoolSelector selects ifTrue for a true discriminant and ifFalse otherwise.
func BoolSelector(ifTrue, ifFalse int) Selector[bool] {
	return boolSelector{ifTrue: ifTrue, ifFalse: ifFalse}
}

func (s boolSelector) Select(tag bool) (int, error) {
	if tag {
		return s.ifTrue, nil
	}
	return s.ifFalse, nil
}

type mapSelector[Tag comparable] struct {
	m map[Tag]int
}

// MapSelector selects through m. Discriminants missing from m fail with
// KindInvalidSelection.
func MapSelector[Tag comparable](m map[Tag]int) Selector[Tag] {
	return mapSelector[Tag]{m: maps.Clone(m)}
}

func (s mapSelector[Tag]) Select(tag Tag) (int, error) {
	i, ok := s.m[tag]
	if !ok {
		return 0, errors.InvalidSelection(nil, tag, "discriminant not mapped to an alternative")
	}
	return i, nil
}
