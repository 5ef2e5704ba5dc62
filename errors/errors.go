package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wippyai/temscript/com"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseActivate Phase = "activate" // class activation
	PhaseGet      Phase = "get"      // property read
	PhaseSet      Phase = "set"      // property write
	PhaseCall     Phase = "call"     // method invocation
	PhaseMarshal  Phase = "marshal"  // native to Go conversion
	PhaseServe    Phase = "serve"    // HTTP facade
)

// Kind categorizes the error
type Kind string

const (
	KindNative       Kind = "native"        // failing HRESULT
	KindInvalidInput Kind = "invalid_input" // host value has the wrong shape
	KindContract     Kind = "contract"      // native side broke its contract
	KindTypeMismatch Kind = "type_mismatch" // wrong wrapper kind
	KindReleased     Kind = "released"      // wrapper used after release
	KindReadOnly     Kind = "read_only"
	KindNotFound     Kind = "not_found"
	KindUnsupported  Kind = "unsupported"
)

// Error is the structured error type used throughout the binding
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Object string // wrapper kind, e.g. "Stage"
	Detail string
	Path   []string
	Status com.HRESULT // set for KindNative
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Object != "" || len(e.Path) > 0 {
		b.WriteString(" at ")
		parts := e.Path
		if e.Object != "" {
			parts = append([]string{e.Object}, e.Path...)
		}
		b.WriteString(strings.Join(parts, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error. A target with an empty
// Phase matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && e.Phase != t.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
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

// Path sets the property path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Object sets the wrapper kind the error was raised on
func (b *Builder) Object(kind string) *Builder {
	b.err.Object = kind
	return b
}

// Status sets the native status code
func (b *Builder) Status(hr com.HRESULT) *Builder {
	b.err.Status = hr
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

// Kind sentinels for use with errors.Is regardless of phase.
var (
	ErrNative       = &Error{Kind: KindNative}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrContract     = &Error{Kind: KindContract}
	ErrTypeMismatch = &Error{Kind: KindTypeMismatch}
	ErrReleased     = &Error{Kind: KindReleased}
	ErrReadOnly     = &Error{Kind: KindReadOnly}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

// Translate converts a failing native status into an error carrying the raw
// code and a formatted description.
func Translate(phase Phase, hr com.HRESULT, path ...string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNative,
		Path:   path,
		Status: hr,
		Detail: fmt.Sprintf("HRESULT=0x%08x", uint32(hr)),
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// StatusOf returns the native status carried by err, if any.
func StatusOf(err error) (com.HRESULT, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindNative {
		return e.Status, true
	}
	return 0, false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Convenience constructors for common error patterns

// InvalidInput creates a value error for malformed host input
func InvalidInput(phase Phase, path []string, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Value:  value,
		Detail: detail,
	}
}

// Contract creates an error for a native result that violates its documented shape
func Contract(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindContract,
		Detail: detail,
	}
}

// TypeMismatch creates an error for a wrapper of the wrong kind
func TypeMismatch(phase Phase, expected, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("%s expected, got %s", expected, got),
		Value:  got,
	}
}

// Released creates a use-after-release error
func Released(phase Phase, object string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReleased,
		Object: object,
		Detail: "object has been released",
	}
}

// ReadOnly creates an error for assignment to a read-only property
func ReadOnly(object, property string) *Error {
	return &Error{
		Phase:  PhaseSet,
		Kind:   KindReadOnly,
		Object: object,
		Path:   []string{property},
		Detail: "property is read-only",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
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
