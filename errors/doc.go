// Package errors provides structured error types for the temscript binding.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Native failures carry the raw HRESULT in Status and describe it as
// "HRESULT=0x%08x".
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSet, errors.KindInvalidInput).
//		Object("Projection").
//		Path("ImageShift").
//		Detail("Expected sequence with two items.").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Translate(errors.PhaseGet, hr, "Stage", "Position")
//	err := errors.Contract(errors.PhaseMarshal, "Unknown array VARTYPE: %d.", vt)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on Kind alone:
//
//	if errors.Is(err, errors.ErrNative) { ... }
package errors
