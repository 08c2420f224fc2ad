package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema    Phase = "schema"    // schema definition
	PhaseSelect    Phase = "select"    // discriminant to index selection
	PhaseAccess    Phase = "access"    // typed alternative access
	PhaseValidate  Phase = "validate"  // payload domain checks
	PhaseWrite     Phase = "write"     // Go to bits
	PhaseRead      Phase = "read"      // bits to Go
	PhaseAlloc     Phase = "alloc"     // storage allocation
	PhaseConstruct Phase = "construct" // in-place construction
)

// Kind categorizes the error
type Kind string

const (
	KindValidation       Kind = "validation"
	KindWrongVariant     Kind = "wrong_variant"
	KindAllocation       Kind = "allocation"
	KindConstruction     Kind = "construction"
	KindStream           Kind = "stream"
	KindInvalidSelection Kind = "invalid_selection"
	KindInvalidSchema    Kind = "invalid_schema"
	KindRebind           Kind = "rebind"
	KindEmptyOwner       Kind = "empty_owner"
	KindTypeMismatch     Kind = "type_mismatch"
)

// Sentinels for errors.Is. They carry no phase and match any phase.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrWrongVariant     = &Error{Kind: KindWrongVariant}
	ErrAllocation       = &Error{Kind: KindAllocation}
	ErrConstruction     = &Error{Kind: KindConstruction}
	ErrStream           = &Error{Kind: KindStream}
	ErrInvalidSelection = &Error{Kind: KindInvalidSelection}
	ErrInvalidSchema    = &Error{Kind: KindInvalidSchema}
	ErrRebind           = &Error{Kind: KindRebind}
	ErrEmptyOwner       = &Error{Kind: KindEmptyOwner}
	ErrTypeMismatch     = &Error{Kind: KindTypeMismatch}
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	SchemaType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.SchemaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SchemaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", schema type ")
			b.WriteString(e.SchemaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("schema type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SchemaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SchemaType sets the schema type name
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Validation creates a domain violation error for an alternative's payload
func Validation(path []string, schemaType string, value any, detail string) *Error {
	return &Error{
		Phase:      PhaseValidate,
		Kind:       KindValidation,
		Path:       path,
		SchemaType: schemaType,
		Detail:     detail,
		Value:      value,
	}
}

// OutOfRange creates a validation error for a value outside [lo, hi]
func OutOfRange(path []string, schemaType string, value, lo, hi any) *Error {
	return Validation(path, schemaType, value,
		fmt.Sprintf("value %v out of range [%v, %v]", value, lo, hi))
}

// WrongVariant creates an error for access to a non-active alternative
func WrongVariant(path []string, requested, active int) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindWrongVariant,
		Path:   path,
		Detail: fmt.Sprintf("alternative %d requested, alternative %d is active", requested, active),
		Value:  requested,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		SchemaType: schemaType,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(goType string, size, align uintptr, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		GoType: goType,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// ConstructionFailed creates an error for a failed in-place construction
func ConstructionFailed(goType string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstruction,
		GoType: goType,
		Detail: "construction failed, storage released",
		Cause:  cause,
	}
}

// Stream creates a stream fault at the given bit position
func Stream(phase Phase, bitPos uint64, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStream,
		Detail: fmt.Sprintf("%s at bit %d", detail, bitPos),
		Value:  bitPos,
		Cause:  cause,
	}
}

// InvalidSelection creates an error for a discriminant the selection function does not map
func InvalidSelection(path []string, tag any, detail string) *Error {
	return &Error{
		Phase:  PhaseSelect,
		Kind:   KindInvalidSelection,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %v: %s", tag, detail),
		Value:  tag,
	}
}

// InvalidSchema creates a schema definition error
func InvalidSchema(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindInvalidSchema,
		Path:   path,
		Detail: detail,
	}
}

// Rebind creates an error for a provider that cannot be rebound
func Rebind(from, to string) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindRebind,
		GoType: to,
		Detail: fmt.Sprintf("provider %s has no rebound form", from),
	}
}

// EmptyOwner creates the panic value for dereferencing an empty owner
func EmptyOwner(goType string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindEmptyOwner,
		GoType: goType,
		Detail: "owner is empty (moved or closed)",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// WithPath returns err with prefix prepended to its path when err is an
// *Error; other errors are returned unchanged.
func WithPath(err error, prefix ...string) error {
	var e *Error
	if len(prefix) == 0 || !stderrors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Path = append(append([]string(nil), prefix...), e.Path...)
	return &cp
}
