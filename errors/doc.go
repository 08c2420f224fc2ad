// Package errors provides structured error types for the bitwire runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/schema type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindValidation).
//		Path("BoolParamChoice", "valueA").
//		SchemaType("int:4").
//		Value(9).
//		Detail("value 9 out of range [-8, 7]").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.WrongVariant(path, 1, 0)
//	err := errors.Stream(errors.PhaseRead, 16, "underrun", io.EOF)
//
// The Err* sentinels match on Kind alone, regardless of phase:
//
//	if errors.Is(err, bwerrors.ErrWrongVariant) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
