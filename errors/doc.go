// Package errors provides structured error types for the script bridge.
//
// Errors are categorized by Phase (which layer raised the error) and Kind
// (error category). The Error type carries a field path, the Go type of an
// offending value, a detail message and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseScript, errors.KindNotCallable).
//		Path("command_bind", "func").
//		GoType("*object.Str").
//		Detail("func must be callable").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle(errors.PhaseProxy, "DCC")
//	err := errors.AlreadyInvalid(errors.PhaseProxy, "DCC")
//
// The package level sentinels (ErrInvalidHandle, ErrNotCallable, ...) match
// any error of the same Kind regardless of Phase:
//
//	if errors.Is(err, errors.ErrInvalidHandle) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
