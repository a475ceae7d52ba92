package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which layer raised the error
type Phase string

const (
	PhaseProxy   Phase = "proxy"   // bridged handle proxies
	PhaseScript  Phase = "script"  // script instances
	PhaseCommand Phase = "command" // command registry
	PhaseSignal  Phase = "signal"  // notification bus
	PhaseNative  Phase = "native"  // native record table
	PhaseHost    Phase = "host"    // script host
	PhaseConfig  Phase = "config"  // configuration loading
	PhaseLoad    Phase = "load"    // script unit loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHandle         Kind = "invalid_handle"
	KindAlreadyInvalid        Kind = "already_invalid"
	KindCompanionConstruction Kind = "companion_construction"
	KindNotCallable           Kind = "not_callable"
	KindAllocation            Kind = "allocation"
	KindNotFound              Kind = "not_found"
	KindInvalidInput          Kind = "invalid_input"
	KindRegistration          Kind = "registration"
	KindInstantiation         Kind = "instantiation"
	KindInvalidData           Kind = "invalid_data"
	KindReadOnly              Kind = "read_only"
	KindTypeMismatch          Kind = "type_mismatch"
)

// Sentinels for errors.Is checks. They carry no Phase, so they match an
// error of the same Kind raised by any layer.
var (
	ErrInvalidHandle               = &Error{Kind: KindInvalidHandle}
	ErrAlreadyInvalid              = &Error{Kind: KindAlreadyInvalid}
	ErrCompanionConstructionFailed = &Error{Kind: KindCompanionConstruction}
	ErrNotCallable                 = &Error{Kind: KindNotCallable}
	ErrAllocationFailed            = &Error{Kind: KindAllocation}
	ErrNotFound                    = &Error{Kind: KindNotFound}
	ErrInvalidInput                = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
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

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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
// A target without a Phase matches on Kind alone.
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

// Is is a re-export of the standard errors.Is so callers importing this
// package under its default name keep access to it.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a re-export of the standard errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join is a re-export of the standard errors.Join.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Convenience constructors for common error patterns

// InvalidHandle creates an error for use of an invalidated proxy
func InvalidHandle(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("%s handle is no longer valid", what),
	}
}

// AlreadyInvalid creates an error for a redundant teardown
func AlreadyInvalid(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyInvalid,
		Detail: fmt.Sprintf("%s already destroyed", what),
	}
}

// CompanionConstructionFailed creates an error for a failed companion proxy
func CompanionConstructionFailed(phase Phase, companion string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCompanionConstruction,
		Path:   []string{companion},
		Detail: fmt.Sprintf("construct %s companion", companion),
		Cause:  cause,
	}
}

// NotCallable creates an error for a handler that cannot be invoked
func NotCallable(phase Phase, path []string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotCallable,
		Path:   path,
		GoType: fmt.Sprintf("%T", value),
		Detail: "func must be callable",
		Value:  value,
	}
}

// AllocationFailed creates an error for a container or string that could not be built
func AllocationFailed(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Path:   path,
		Detail: detail,
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

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ReadOnly creates an error for an attempt to assign a read-only attribute
func ReadOnly(phase Phase, attr string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReadOnly,
		Path:   []string{attr},
		Detail: "attribute is read-only",
	}
}

// TypeMismatch creates an error for an attribute assigned a value of the wrong type
func TypeMismatch(phase Phase, path []string, value any, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: fmt.Sprintf("%T", value),
		Detail: fmt.Sprintf("expected %s", want),
		Value:  value,
	}
}

// Registration creates a registration error
func Registration(phase Phase, category, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s/%s", category, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate %s", what),
		Cause:  cause,
	}
}

// Load creates a script loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
